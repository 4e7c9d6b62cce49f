package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, options ...Option) (*DecompositionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(mr.Addr(), "", 0, options...), mr
}

func TestSetAndGet(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()

	queries := []string{"original question", "sub one", "sub two"}
	cache.Set(ctx, "original question", queries)

	got := cache.Get(ctx, "original question")
	assert.Equal(t, queries, got)
}

func TestGetMissReturnsNil(t *testing.T) {
	cache, _ := newCache(t)

	assert.Nil(t, cache.Get(context.Background(), "never cached"))
}

func TestEntriesExpire(t *testing.T) {
	cache, mr := newCache(t, WithTTL(time.Minute))
	ctx := context.Background()

	cache.Set(ctx, "q", []string{"q"})
	require.NotNil(t, cache.Get(ctx, "q"))

	mr.FastForward(2 * time.Minute)
	assert.Nil(t, cache.Get(ctx, "q"))
}

func TestDistinctQuestionsUseDistinctKeys(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()

	cache.Set(ctx, "first", []string{"a"})
	cache.Set(ctx, "second", []string{"b"})

	assert.Equal(t, []string{"a"}, cache.Get(ctx, "first"))
	assert.Equal(t, []string{"b"}, cache.Get(ctx, "second"))
}

func TestUnavailableRedisDegradesToMiss(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()

	cache.Set(ctx, "q", []string{"q"})
	mr.Close()

	// Both operations fail silently; retrieval continues without the cache.
	assert.Nil(t, cache.Get(ctx, "q"))
	cache.Set(ctx, "q2", []string{"x"})
}
