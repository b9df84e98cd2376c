package service

import (
	"context"
	"testing"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist_SetSemantics(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sut := NewWishlistService(store.Users(), store.Products())

	serum := insertProduct(t, store, domain.Product{Name: "Serum", Price: 10})
	balm := insertProduct(t, store, domain.Product{Name: "Balm", Price: 4})

	_, err := sut.Add(ctx, buyer, balm)
	require.NoError(t, err)
	_, err = sut.Add(ctx, buyer, serum)
	require.NoError(t, err)
	res, err := sut.Add(ctx, buyer, serum)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.ModifiedCount)

	products, err := sut.List(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Balm", products[0].Name)
	assert.Equal(t, "Serum", products[1].Name)

	_, err = sut.Remove(ctx, buyer, balm)
	require.NoError(t, err)
	_, err = sut.Remove(ctx, buyer, balm)
	require.NoError(t, err)

	products, err = sut.List(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Serum", products[0].Name)
}

func TestWishlist_SkipsUnresolvable(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sut := NewWishlistService(store.Users(), store.Products())
	serum := insertProduct(t, store, domain.Product{Name: "Serum", Price: 10})

	for _, id := range []string{"garbage", "64b7f0c2a1b2c3d4e5f60718", serum} {
		_, err := sut.Add(ctx, buyer, id)
		require.NoError(t, err)
	}

	products, err := sut.List(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Serum", products[0].Name)
}

func TestWishlist_UnknownUserIsEmpty(t *testing.T) {
	store := memory.NewStore()
	sut := NewWishlistService(store.Users(), store.Products())

	products, err := sut.List(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestWishlist_RequiresInput(t *testing.T) {
	store := memory.NewStore()
	sut := NewWishlistService(store.Users(), store.Products())

	_, err := sut.Add(context.Background(), "", "p1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = sut.Remove(context.Background(), buyer, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
