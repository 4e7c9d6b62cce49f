// Package weaviate implements the similarity index over a Weaviate instance.
// Documents are embedded client-side and stored with explicit vectors, so the
// server needs no vectorizer module.
package weaviate

import (
	"context"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/mcmp-ai/assistant/pkg/embedding"
	"github.com/mcmp-ai/assistant/pkg/interfaces"
	"github.com/mcmp-ai/assistant/pkg/logging"
)

// Config carries the connection settings for a Weaviate instance
type Config struct {
	Host   string
	Scheme string
	APIKey string
	Class  string
}

// Store implements interfaces.VectorStore for Weaviate
type Store struct {
	client   *weaviate.Client
	class    string
	embedder embedding.Client
	logger   logging.Logger
}

// Option represents an option for configuring the store
type Option func(*Store)

// WithEmbedder sets the embedder for the store
func WithEmbedder(embedder embedding.Client) Option {
	return func(s *Store) {
		s.embedder = embedder
	}
}

// WithLogger sets the logger for the store
func WithLogger(logger logging.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a new Weaviate store
func New(config *Config, options ...Option) (*Store, error) {
	store := &Store{
		class:  "InstituteDocument",
		logger: logging.New(),
	}
	if config.Class != "" {
		store.class = config.Class
	}

	for _, option := range options {
		option(store)
	}

	if store.embedder == nil {
		return nil, fmt.Errorf("weaviate store requires an embedder")
	}

	cfg := weaviate.Config{
		Host:   config.Host,
		Scheme: config.Scheme,
	}
	if config.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{Value: config.APIKey}
	}

	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Weaviate client: %w", err)
	}
	store.client = client

	return store, nil
}

// Store upserts documents in batches of 100
func (s *Store) Store(ctx context.Context, documents []interfaces.Document) error {
	const batchSize = 100

	batch := s.client.Batch().ObjectsBatcher()
	count := 0

	for _, doc := range documents {
		vector, err := s.embedder.Embed(ctx, doc.Content)
		if err != nil {
			return fmt.Errorf("failed to generate embedding: %w", err)
		}

		properties := map[string]interface{}{
			"content": doc.Content,
		}
		for k, v := range doc.Metadata {
			properties[k] = v
		}

		batch.WithObjects(&models.Object{
			Class:      s.class,
			ID:         strfmt.UUID(doc.ID),
			Properties: properties,
			Vector:     vector,
		})
		count++

		if count >= batchSize {
			if _, err := batch.Do(ctx); err != nil {
				return fmt.Errorf("failed to store batch: %w", err)
			}
			batch = s.client.Batch().ObjectsBatcher()
			count = 0
		}
	}

	if count > 0 {
		if _, err := batch.Do(ctx); err != nil {
			return fmt.Errorf("failed to store final batch: %w", err)
		}
	}

	s.logger.Info(ctx, "Stored documents in vector index", map[string]interface{}{
		"class":     s.class,
		"documents": len(documents),
	})

	return nil
}

// Search returns the topK closest matches for one query
func (s *Store) Search(ctx context.Context, query string, topK int) ([]interfaces.SearchResult, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding for query: %w", err)
	}
	return s.searchByVector(ctx, vector, topK)
}

// MultiSearch embeds all queries in one batched call, then runs one
// nearVector lookup per query, returning per-query result lists in order.
func (s *Store) MultiSearch(ctx context.Context, queries []string, topK int) ([][]interfaces.SearchResult, error) {
	if len(queries) == 0 {
		return nil, nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings for queries: %w", err)
	}

	results := make([][]interfaces.SearchResult, len(queries))
	for i, vector := range vectors {
		matches, err := s.searchByVector(ctx, vector, topK)
		if err != nil {
			return nil, fmt.Errorf("failed to search for query %q: %w", queries[i], err)
		}
		results[i] = matches
	}

	return results, nil
}

func (s *Store) searchByVector(ctx context.Context, vector []float32, topK int) ([]interfaces.SearchResult, error) {
	result, err := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithFields(
			graphql.Field{Name: "content"},
			graphql.Field{Name: "title"},
			graphql.Field{Name: "url"},
			graphql.Field{Name: "_additional", Fields: []graphql.Field{
				{Name: "certainty"},
				{Name: "id"},
			}},
		).
		WithNearVector(s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	return s.parseSearchResults(result)
}

// parseSearchResults unpacks the GraphQL response. Malformed entries are
// skipped with a warning rather than failing the whole lookup.
func (s *Store) parseSearchResults(result *models.GraphQLResponse) ([]interfaces.SearchResult, error) {
	searchResults := []interfaces.SearchResult{}

	if result.Data == nil {
		return searchResults, nil
	}

	getMap, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		s.logger.Warn(context.Background(), "Unexpected response shape from Weaviate", map[string]interface{}{
			"data": result.Data,
		})
		return searchResults, nil
	}

	rows, ok := getMap[s.class].([]interface{})
	if !ok {
		return searchResults, nil
	}

	for _, r := range rows {
		row, ok := r.(map[string]interface{})
		if !ok {
			continue
		}

		additional, ok := row["_additional"].(map[string]interface{})
		if !ok {
			s.logger.Warn(context.Background(), "Result missing _additional block", map[string]interface{}{"row": row})
			continue
		}

		id, ok := additional["id"].(string)
		if !ok {
			continue
		}

		content, _ := row["content"].(string)

		certainty, ok := additional["certainty"].(float64)
		if !ok {
			certainty = 0.5
		}

		metadata := make(map[string]string)
		for k, v := range row {
			if k == "content" || k == "_additional" {
				continue
			}
			if value, ok := v.(string); ok {
				metadata[k] = value
			}
		}

		searchResults = append(searchResults, interfaces.SearchResult{
			ID:       id,
			Content:  content,
			Metadata: metadata,
			Score:    float32(certainty),
		})
	}

	return searchResults, nil
}
