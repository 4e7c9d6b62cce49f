package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIEmbedderRequiresCredential(t *testing.T) {
	_, err := NewOpenAIEmbedder("")
	assert.Error(t, err)
}

func TestNewOpenAIEmbedderDefaults(t *testing.T) {
	embedder, err := NewOpenAIEmbedder("test-key")
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", embedder.model)
}

func TestNewOpenAIEmbedderOptions(t *testing.T) {
	embedder, err := NewOpenAIEmbedder("test-key",
		WithModel("text-embedding-3-large"),
		WithBaseURL("http://localhost:9999"))
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-large", embedder.model)
	assert.Equal(t, "http://localhost:9999", embedder.baseURL)
}
