package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcmp-ai/assistant/pkg/interfaces"
)

type stubLLM struct {
	response string
	err      error
	prompts  []string
}

func (s *stubLLM) Name() string { return "stub" }

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...interfaces.GenerateOption) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func (s *stubLLM) Chat(ctx context.Context, messages []interfaces.Message, tools []interfaces.ToolDefinition, options ...interfaces.GenerateOption) (*interfaces.ChatResponse, error) {
	return &interfaces.ChatResponse{Content: s.response}, s.err
}

type stubStore struct {
	results map[string][]interfaces.SearchResult
	queries []string
	err     error
}

func (s *stubStore) Store(ctx context.Context, documents []interfaces.Document) error { return nil }

func (s *stubStore) Search(ctx context.Context, query string, topK int) ([]interfaces.SearchResult, error) {
	return s.results[query], s.err
}

func (s *stubStore) MultiSearch(ctx context.Context, queries []string, topK int) ([][]interfaces.SearchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.queries = queries
	out := make([][]interfaces.SearchResult, len(queries))
	for i, q := range queries {
		out[i] = s.results[q]
	}
	return out, nil
}

func result(id, content string) interfaces.SearchResult {
	return interfaces.SearchResult{ID: id, Content: content}
}

func TestDecomposePutsOriginalFirst(t *testing.T) {
	llm := &stubLLM{response: "logic seminar speakers\nworkshop schedule"}
	r := New(llm, &stubStore{})

	queries := r.Decompose(context.Background(), "who speaks at the logic seminar?")

	require.Len(t, queries, 3)
	assert.Equal(t, "who speaks at the logic seminar?", queries[0])
	assert.Equal(t, "logic seminar speakers", queries[1])
}

func TestDecomposeKeepsReproducedOriginalInPlace(t *testing.T) {
	llm := &stubLLM{response: "first query\nmy question\nsecond query"}
	r := New(llm, &stubStore{})

	queries := r.Decompose(context.Background(), "my question")

	assert.Equal(t, []string{"first query", "my question", "second query"}, queries)
}

func TestDecomposeCapsAtFour(t *testing.T) {
	llm := &stubLLM{response: "one\ntwo\nthree\nfour\nfive"}
	r := New(llm, &stubStore{})

	queries := r.Decompose(context.Background(), "big question")

	require.Len(t, queries, 4)
	assert.Equal(t, "big question", queries[0])
}

func TestDecomposeFailureFallsBackToQuestion(t *testing.T) {
	llm := &stubLLM{err: errors.New("provider down")}
	r := New(llm, &stubStore{})

	queries := r.Decompose(context.Background(), "the question")

	assert.Equal(t, []string{"the question"}, queries)
}

func TestDecomposeEmptyResponseFallsBack(t *testing.T) {
	llm := &stubLLM{response: "   \n  \n"}
	r := New(llm, &stubStore{})

	queries := r.Decompose(context.Background(), "the question")

	assert.Equal(t, []string{"the question"}, queries)
}

func TestRetrieveDeduplicatesAcrossSubQueries(t *testing.T) {
	llm := &stubLLM{response: "sub one\nsub two"}
	store := &stubStore{results: map[string][]interfaces.SearchResult{
		"the question": {result("a", "chunk a")},
		"sub one":      {result("b", "chunk b"), result("a", "duplicate of a")},
		"sub two":      {result("b", "duplicate of b"), result("c", "chunk c")},
	}}
	r := New(llm, store)

	chunks, err := r.Retrieve(context.Background(), "the question")
	require.NoError(t, err)

	ids := make(map[string]int)
	for _, chunk := range chunks {
		ids[chunk.ID]++
	}
	for id, count := range ids {
		assert.Equal(t, 1, count, "chunk %s appeared more than once", id)
	}
	require.Len(t, chunks, 3)
}

func TestRetrieveEarlierSubQueryWinsTies(t *testing.T) {
	llm := &stubLLM{response: "sub one\nsub two"}
	store := &stubStore{results: map[string][]interfaces.SearchResult{
		"sub one": {result("x", "from sub one")},
		"sub two": {result("x", "from sub two")},
	}}
	r := New(llm, store)

	chunks, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, "from sub one", chunks[0].Text)
	assert.Equal(t, "sub one", chunks[0].SourceQuery)
}

func TestRetrieveTagsChunksWithSourceQuery(t *testing.T) {
	llm := &stubLLM{response: "alpha"}
	store := &stubStore{results: map[string][]interfaces.SearchResult{
		"q":     {result("1", "one")},
		"alpha": {result("2", "two")},
	}}
	r := New(llm, store)

	chunks, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.Equal(t, "q", chunks[0].SourceQuery)
	assert.Equal(t, "alpha", chunks[1].SourceQuery)
}

func TestRetrieveSearchFailure(t *testing.T) {
	llm := &stubLLM{response: "sub"}
	store := &stubStore{err: errors.New("index offline")}
	r := New(llm, store)

	_, err := r.Retrieve(context.Background(), "q")
	assert.Error(t, err)
}

func TestRetrieveIssuesOneBatchedCall(t *testing.T) {
	llm := &stubLLM{response: "sub one\nsub two"}
	store := &stubStore{results: map[string][]interfaces.SearchResult{}}
	r := New(llm, store)

	_, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)

	assert.Equal(t, []string{"q", "sub one", "sub two"}, store.queries)
}
