package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/fjod/storefront/internal/domain"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCache struct {
	NopCache
	calls int
	err   error
}

func (c *countingCache) GetProduct(context.Context, string) (*domain.Product, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return nil, ErrCacheMiss
}

func TestBreakerCache_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &countingCache{err: errors.New("connection refused")}
	b := NewBreakerCache(inner)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := b.GetProduct(ctx, "p1")
		require.ErrorContains(t, err, "connection refused")
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.GetProduct(ctx, "p1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, inner.calls, "open breaker must not reach the cache")
}

func TestBreakerCache_MissesDoNotTrip(t *testing.T) {
	inner := &countingCache{}
	b := NewBreakerCache(inner)

	for i := 0; i < 10; i++ {
		_, err := b.GetProduct(context.Background(), "p1")
		assert.ErrorIs(t, err, ErrCacheMiss)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
	assert.Equal(t, 10, inner.calls)
}

func TestBreakerCache_PassesThroughWrites(t *testing.T) {
	b := NewBreakerCache(NopCache{})

	assert.NoError(t, b.SetCategories(context.Background(), []string{"Makeup"}))
	assert.NoError(t, b.DeleteProduct(context.Background(), "p1"))
	_, err := b.GetCategories(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}
