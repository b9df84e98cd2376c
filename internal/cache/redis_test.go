package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client), mr
}

func TestGetProduct_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	product := domain.Product{ID: primitive.NewObjectID(), Name: "Serum", Price: 30, Category: "Skincare"}
	raw, err := json.Marshal(product)
	require.NoError(t, err)
	require.NoError(t, mr.Set(productKey(product.ID.Hex()), string(raw)))

	got, err := cache.GetProduct(ctx, product.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
	assert.Equal(t, "Serum", got.Name)
	assert.Equal(t, 30.0, got.Price)
}

func TestGetProduct_CacheMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	got, err := cache.GetProduct(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, got)
}

func TestGetProduct_InvalidJSON(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(productKey("p1"), `{"name":`))

	_, err := cache.GetProduct(context.Background(), "p1")
	require.ErrorContains(t, err, "unmarshal product:p1 failed")
}

func TestSetProduct_WithTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)
	product := &domain.Product{ID: primitive.NewObjectID(), Name: "Toner"}

	require.NoError(t, cache.SetProduct(context.Background(), product))

	key := productKey(product.ID.Hex())
	stored, err := mr.Get(key)
	require.NoError(t, err)
	assert.Contains(t, stored, `"name":"Toner"`)

	ttl := mr.TTL(key)
	assert.True(t, ttl >= 15*time.Minute, "TTL should be at least base TTL")
	assert.True(t, ttl < 20*time.Minute, "TTL should be base + max jitter")
}

func TestCategories_RoundTripAndDelete(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := cache.GetCategories(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.SetCategories(ctx, []string{"Makeup", "Skincare"}))
	got, err := cache.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Makeup", "Skincare"}, got)

	require.NoError(t, cache.DeleteCategories(ctx))
	assert.False(t, mr.Exists(categoriesKey))
}

func TestDeleteProduct_NonExistentKey(t *testing.T) {
	cache, _ := setupTestRedis(t)

	assert.NoError(t, cache.DeleteProduct(context.Background(), "nonexistent"))
}

func TestRedisDown_ReturnsError(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Close()

	_, err := cache.GetProduct(context.Background(), "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestProductKey_Format(t *testing.T) {
	assert.Equal(t, "product:test123", productKey("test123"))
}
