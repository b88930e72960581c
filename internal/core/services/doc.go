// Package services wires the pipeline together: ingestion, retrieval,
// completeness scoring, question answering, document administration and
// settings.
//
// Every service works against a driven.VectorIndex. Only QAService needs an
// LLM. Nothing here imports an adapter.
package services
