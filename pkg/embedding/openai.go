package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIEmbedder implements Client using the OpenAI embeddings API
type OpenAIEmbedder struct {
	client  openai.Client
	model   string
	baseURL string
}

// OpenAIOption represents an option for configuring the embedder
type OpenAIOption func(*OpenAIEmbedder)

// WithModel sets the embedding model
func WithModel(model string) OpenAIOption {
	return func(e *OpenAIEmbedder) {
		e.model = model
	}
}

// WithBaseURL sets the base URL for the OpenAI API
func WithBaseURL(baseURL string) OpenAIOption {
	return func(e *OpenAIEmbedder) {
		e.baseURL = baseURL
	}
}

// NewOpenAIEmbedder creates a new OpenAI embedder
func NewOpenAIEmbedder(apiKey string, options ...OpenAIOption) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for the OpenAI embedder")
	}

	embedder := &OpenAIEmbedder{
		model: "text-embedding-3-small",
	}

	for _, option := range options {
		option(embedder)
	}

	clientOptions := []option.RequestOption{option.WithAPIKey(apiKey)}
	if embedder.baseURL != "" {
		clientOptions = append(clientOptions, option.WithBaseURL(embedder.baseURL))
	}
	embedder.client = openai.NewClient(clientOptions...)

	return embedder, nil
}

// Embed implements Client.Embed
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch implements Client.EmbedBatch
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, item := range resp.Data {
		vector := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vector[i] = float32(v)
		}
		vectors[item.Index] = vector
	}

	return vectors, nil
}
