package cache

import (
	"context"
	"errors"

	"github.com/fjod/storefront/internal/domain"
)

// ProductCache holds read-through copies of single products and of the
// catalog-wide category list.
type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	GetCategories(ctx context.Context) ([]string, error)
	SetCategories(ctx context.Context, categories []string) error
	DeleteCategories(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")

// NopCache is used when no cache is configured; every read misses.
type NopCache struct{}

func (NopCache) GetProduct(context.Context, string) (*domain.Product, error) {
	return nil, ErrCacheMiss
}
func (NopCache) SetProduct(context.Context, *domain.Product) error { return nil }
func (NopCache) DeleteProduct(context.Context, string) error       { return nil }
func (NopCache) GetCategories(context.Context) ([]string, error)   { return nil, ErrCacheMiss }
func (NopCache) SetCategories(context.Context, []string) error     { return nil }
func (NopCache) DeleteCategories(context.Context) error            { return nil }
