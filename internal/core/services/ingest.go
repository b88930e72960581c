package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
	"github.com/custodia-labs/ragindex/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the ingestion pipeline:
// hash check, extraction, chunking, embedding and storage.
type IngestService struct {
	index       driven.VectorIndex
	normalisers driven.NormaliserRegistry
	chunker     driven.Chunker
	embedder    driven.EmbeddingService
	locks       *KeyedMutex
	newID       func() string
	now         func() time.Time
}

// NewIngestService creates a new ingestion service.
// embedder may be nil, in which case Ingest fails with
// domain.ErrEmbeddingUnavailable.
func NewIngestService(
	index driven.VectorIndex,
	normalisers driven.NormaliserRegistry,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
) *IngestService {
	return &IngestService{
		index:       index,
		normalisers: normalisers,
		chunker:     chunker,
		embedder:    embedder,
		locks:       NewKeyedMutex(),
		newID:       func() string { return uuid.New().String() },
		now:         time.Now,
	}
}

// ingestRun tracks one request through the state machine.
type ingestRun struct {
	filename string
	state    domain.IngestState
}

func (r *ingestRun) to(state domain.IngestState) {
	logger.Debug("ingest %q: %s -> %s", r.filename, r.state, state)
	r.state = state
}

// fail moves the run to the failed state and returns err unchanged.
func (r *ingestRun) fail(err error) error {
	r.to(domain.IngestFailed)
	return err
}

// Ingest indexes one uploaded file.
func (s *IngestService) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	run := &ingestRun{filename: req.Filename, state: domain.IngestReceived}

	if strings.TrimSpace(req.Filename) == "" {
		return nil, run.fail(fmt.Errorf("%w: filename is required", domain.ErrInvalidInput))
	}
	if s.embedder == nil {
		return nil, run.fail(domain.ErrEmbeddingUnavailable)
	}

	defer logger.Timer("ingest " + req.Filename)()
	hash := ContentHash(req.Content)

	// Serialise hash check through store for this filename and this content.
	release := s.locks.LockAll("file:"+req.Filename, "hash:"+hash)
	defer release()

	run.to(domain.IngestHashCheck)
	duplicates, err := s.index.GetWhere(ctx, domain.Filter{ContentHash: hash})
	if err != nil {
		return nil, run.fail(fmt.Errorf("check content hash: %w", err))
	}
	if len(duplicates) > 0 {
		run.to(domain.IngestDuplicateSkip)
		meta := duplicates[0].Metadata
		logger.Info("ingest %q: identical content already indexed as %s", req.Filename, meta.DocumentID)
		return &domain.IngestResult{
			DocumentID: meta.DocumentID,
			Filename:   meta.Filename,
			Duplicate:  true,
			State:      run.state,
		}, nil
	}

	previous, err := s.index.GetWhere(ctx, domain.Filter{Filename: req.Filename})
	if err != nil {
		return nil, run.fail(fmt.Errorf("check filename: %w", err))
	}
	reindex := len(previous) > 0
	if reindex {
		run.to(domain.IngestReindexNeeded)
	} else {
		run.to(domain.IngestNew)
	}

	run.to(domain.IngestExtract)
	text, err := s.normalisers.Normalise(ctx, &domain.RawDocument{Filename: req.Filename, Content: req.Content})
	if err != nil {
		return nil, run.fail(fmt.Errorf("extract %q: %w", req.Filename, err))
	}
	if strings.TrimSpace(text) == "" {
		return nil, run.fail(fmt.Errorf("%w: %q", domain.ErrEmptyContent, req.Filename))
	}

	run.to(domain.IngestChunk)
	doc := &domain.Document{
		ID:          s.newID(),
		Filename:    req.Filename,
		ContentHash: hash,
		CreatedAt:   s.now(),
	}
	chunks, err := s.chunker.Chunk(ctx, doc, text)
	if err != nil {
		return nil, run.fail(fmt.Errorf("%w: chunk %q: %w", domain.ErrProcessing, req.Filename, err))
	}
	if len(chunks) == 0 {
		return nil, run.fail(fmt.Errorf("%w: %q", domain.ErrEmptyContent, req.Filename))
	}

	run.to(domain.IngestEmbed)
	if err := s.embedChunks(ctx, chunks); err != nil {
		return nil, run.fail(err)
	}

	run.to(domain.IngestStore)
	entries := make([]domain.Entry, len(chunks))
	for i, c := range chunks {
		entries[i] = domain.Entry{
			ID:       c.ID,
			Text:     c.Content,
			Vector:   c.Embedding,
			Position: c.Position,
			Metadata: domain.ChunkMetadata{
				DocumentID:  doc.ID,
				Filename:    doc.Filename,
				ContentHash: doc.ContentHash,
			},
		}
	}

	if reindex {
		if err := s.index.Replace(ctx, domain.Filter{Filename: req.Filename}, entries); err != nil {
			if errors.Is(err, domain.ErrPartialReplace) {
				logger.Error("ingest %q: previous chunks removed but new chunks not stored; re-ingest the file: %v",
					req.Filename, err)
				return nil, run.fail(fmt.Errorf("%w: %q: %w", domain.ErrStorageInconsistency, req.Filename, err))
			}
			return nil, run.fail(fmt.Errorf("replace chunks for %q: %w", req.Filename, err))
		}
		logger.Info("ingest %q: replaced %d old chunks with %d", req.Filename, len(previous), len(entries))
	} else {
		if err := s.index.Add(ctx, entries); err != nil {
			return nil, run.fail(fmt.Errorf("store chunks for %q: %w", req.Filename, err))
		}
		logger.Info("ingest %q: stored %d chunks", req.Filename, len(entries))
	}

	run.to(domain.IngestDone)
	return &domain.IngestResult{
		DocumentID:  doc.ID,
		Filename:    doc.Filename,
		TotalChunks: len(chunks),
		SampleChunk: chunks[0].Content,
		Reindexed:   reindex,
		State:       run.state,
	}, nil
}

// embedChunks embeds every chunk in one batch and attaches the vectors.
// Nothing is attached unless every vector is present and well formed.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embed: %w", domain.ErrProcessing, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: embed: got %d vectors for %d chunks", domain.ErrProcessing, len(vectors), len(chunks))
	}

	dim := s.embedder.Dimensions()
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("%w: embed: empty vector for chunk %d", domain.ErrProcessing, i)
		}
		if dim > 0 && len(v) != dim {
			return fmt.Errorf("%w: embed: chunk %d has %d dimensions, want %d: %w",
				domain.ErrProcessing, i, len(v), dim, domain.ErrDimensionMismatch)
		}
		if len(v) != len(vectors[0]) {
			return fmt.Errorf("%w: embed: inconsistent dimensions in batch: %w",
				domain.ErrProcessing, domain.ErrDimensionMismatch)
		}
	}

	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return nil
}
