// Package retrieval turns a user question into a deduplicated set of
// context chunks from the vector store.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcmp-ai/assistant/pkg/cache"
	"github.com/mcmp-ai/assistant/pkg/interfaces"
	"github.com/mcmp-ai/assistant/pkg/logging"
)

const decompositionPrompt = `You are helping answer this question: "%s"

Break it into 1-3 simple search queries that together cover the question.
Return only the search queries, one per line, with no numbering or extra text.`

// maxSubQueries bounds the decomposition output, original question included.
const maxSubQueries = 4

// Retriever decomposes questions and runs batched similarity search.
type Retriever struct {
	llm    interfaces.LLM
	store  interfaces.VectorStore
	cache  *cache.DecompositionCache
	logger logging.Logger
	topK   int
}

// Option configures the retriever.
type Option func(*Retriever)

// WithCache enables caching of decomposition results.
func WithCache(c *cache.DecompositionCache) Option {
	return func(r *Retriever) {
		r.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(r *Retriever) {
		r.logger = logger
	}
}

// WithTopK sets how many chunks each sub-query fetches.
func WithTopK(topK int) Option {
	return func(r *Retriever) {
		if topK > 0 {
			r.topK = topK
		}
	}
}

// New creates a retriever over the given LLM and vector store.
func New(llm interfaces.LLM, store interfaces.VectorStore, opts ...Option) *Retriever {
	r := &Retriever{
		llm:    llm,
		store:  store,
		logger: logging.New(),
		topK:   3,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Decompose asks the LLM to split a question into simpler search queries.
// The original question always leads the list, and the list is capped at
// four entries. Decomposition failure never blocks retrieval: on any error
// the original question alone is returned.
func (r *Retriever) Decompose(ctx context.Context, question string) []string {
	if r.cache != nil {
		if cached := r.cache.Get(ctx, question); len(cached) > 0 {
			r.logger.Debug(ctx, "Decomposition cache hit", map[string]interface{}{"question": question})
			return cached
		}
	}

	response, err := r.llm.Generate(ctx, fmt.Sprintf(decompositionPrompt, question))
	if err != nil {
		r.logger.Warn(ctx, "Query decomposition failed, using original question", map[string]interface{}{
			"error": err.Error(),
		})
		return []string{question}
	}

	queries := parseSubQueries(question, response)

	if r.cache != nil {
		r.cache.Set(ctx, question, queries)
	}
	r.logger.Debug(ctx, "Decomposed question", map[string]interface{}{
		"question":   question,
		"subQueries": len(queries),
	})
	return queries
}

// Retrieve runs one batched similarity search across all sub-queries and
// merges the per-query result lists in order, keeping the first occurrence
// of each chunk identifier. Earlier sub-queries win ties.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]interfaces.Chunk, error) {
	queries := r.Decompose(ctx, question)

	resultLists, err := r.store.MultiSearch(ctx, queries, r.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieval: similarity search failed: %w", err)
	}

	seen := make(map[string]struct{})
	var chunks []interfaces.Chunk
	for i, results := range resultLists {
		if i >= len(queries) {
			break
		}
		for _, result := range results {
			if _, ok := seen[result.ID]; ok {
				continue
			}
			seen[result.ID] = struct{}{}
			chunks = append(chunks, interfaces.Chunk{
				ID:          result.ID,
				Text:        result.Content,
				Metadata:    result.Metadata,
				SourceQuery: queries[i],
			})
		}
	}

	r.logger.Debug(ctx, "Retrieved context chunks", map[string]interface{}{
		"subQueries": len(queries),
		"chunks":     len(chunks),
	})
	return chunks, nil
}

// parseSubQueries extracts non-empty lines from the model output and puts
// the original question first unless the model already reproduced it.
func parseSubQueries(question, response string) []string {
	queries := []string{}
	original := false
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, question) {
			original = true
		}
		queries = append(queries, line)
	}

	if !original {
		queries = append([]string{question}, queries...)
	}
	if len(queries) > maxSubQueries {
		queries = queries[:maxSubQueries]
	}
	if len(queries) == 0 {
		queries = []string{question}
	}
	return queries
}
