package weaviate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/mcmp-ai/assistant/pkg/logging"
)

func newTestStore() *Store {
	return &Store{
		class:  "InstituteDocument",
		logger: logging.New(),
	}
}

func graphQLResponse(rows []interface{}) *models.GraphQLResponse {
	return &models.GraphQLResponse{
		Data: map[string]models.JSONObject{
			"Get": map[string]interface{}{
				"InstituteDocument": rows,
			},
		},
	}
}

func TestParseSearchResults(t *testing.T) {
	store := newTestStore()

	results, err := store.parseSearchResults(graphQLResponse([]interface{}{
		map[string]interface{}{
			"content": "Title: Colloquium\n\nDescription: weekly talk",
			"title":   "Colloquium",
			"url":     "https://example.org/colloquium",
			"_additional": map[string]interface{}{
				"id":        "doc-1",
				"certainty": 0.91,
			},
		},
	}))
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "doc-1", results[0].ID)
	assert.Equal(t, "Title: Colloquium\n\nDescription: weekly talk", results[0].Content)
	assert.InDelta(t, 0.91, float64(results[0].Score), 0.0001)
	assert.Equal(t, "Colloquium", results[0].Metadata["title"])
	assert.Equal(t, "https://example.org/colloquium", results[0].Metadata["url"])
	assert.NotContains(t, results[0].Metadata, "content")
	assert.NotContains(t, results[0].Metadata, "_additional")
}

func TestParseSearchResultsSkipsMalformedRows(t *testing.T) {
	store := newTestStore()

	results, err := store.parseSearchResults(graphQLResponse([]interface{}{
		"not a row",
		map[string]interface{}{
			"content": "no additional block",
		},
		map[string]interface{}{
			"content":     "no id",
			"_additional": map[string]interface{}{"certainty": 0.5},
		},
		map[string]interface{}{
			"content":     "good",
			"_additional": map[string]interface{}{"id": "doc-2", "certainty": 0.7},
		},
	}))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-2", results[0].ID)
}

func TestParseSearchResultsMissingCertaintyDefaults(t *testing.T) {
	store := newTestStore()

	results, err := store.parseSearchResults(graphQLResponse([]interface{}{
		map[string]interface{}{
			"content":     "scored by default",
			"_additional": map[string]interface{}{"id": "doc-3"},
		},
	}))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.5, float64(results[0].Score), 0.0001)
}

func TestParseSearchResultsEmptyResponse(t *testing.T) {
	store := newTestStore()

	results, err := store.parseSearchResults(&models.GraphQLResponse{})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = store.parseSearchResults(graphQLResponse(nil))
	require.NoError(t, err)
	assert.Empty(t, results)
}
