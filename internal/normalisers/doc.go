// Package normalisers provides implementations of the Normaliser interface
// for various document formats. Each normaliser knows how to extract text
// content from a specific file type.
//
// Normalisers are registered with the Registry at startup; the registry
// selects one by the lower-cased file extension of the uploaded file.
package normalisers
