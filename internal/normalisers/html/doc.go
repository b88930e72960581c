// Package html provides a Normaliser implementation for HTML documents.
// It extracts readable text content from the document body, dropping
// scripts and styles.
package html
