// Package embedding turns text into vectors for the similarity index
package embedding

import "context"

// Client generates embeddings for text
type Client interface {
	// Embed returns the embedding vector for one piece of text
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one embedding vector per input text, in input order
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
