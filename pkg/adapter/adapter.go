package adapter

import "context"

// Embedder is the interface for text embedding providers.
// For a given provider configuration the output dimensionality is
// constant across calls and equals Dimension(); implementations reject
// any provider response of a different length.
type Embedder interface {
	// Embed generates an embedding vector for the text
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the fixed output dimensionality of the provider
	Dimension() int
}
