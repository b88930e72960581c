package driven

import "context"

// EmbeddingService maps text to fixed-size vectors. Every vector it returns
// has Dimensions() entries and unit L2 norm, so the index can compare them
// with plain Euclidean distance.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns exactly one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	Dimensions() int
	ModelName() string

	// Ping checks that the provider answers and serves ModelName.
	Ping(ctx context.Context) error

	Close() error
}
