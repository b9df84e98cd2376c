package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// BreakerCache guards a ProductCache with a circuit breaker. After repeated
// cache failures calls fail fast with gobreaker.ErrOpenState until the
// breaker half-opens, so a dead Redis costs nothing per request. Misses are
// not failures.
type BreakerCache struct {
	next ProductCache
	cb   *gobreaker.CircuitBreaker[any]
}

func NewBreakerCache(next ProductCache) *BreakerCache {
	settings := gobreaker.Settings{
		Name:        "product-cache",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &BreakerCache{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (b *BreakerCache) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerCache) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.next.GetProduct(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (b *BreakerCache) SetProduct(ctx context.Context, product *domain.Product) error {
	return b.run(func() error { return b.next.SetProduct(ctx, product) })
}

func (b *BreakerCache) DeleteProduct(ctx context.Context, id string) error {
	return b.run(func() error { return b.next.DeleteProduct(ctx, id) })
}

func (b *BreakerCache) GetCategories(ctx context.Context) ([]string, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.next.GetCategories(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (b *BreakerCache) SetCategories(ctx context.Context, categories []string) error {
	return b.run(func() error { return b.next.SetCategories(ctx, categories) })
}

func (b *BreakerCache) DeleteCategories(ctx context.Context) error {
	return b.run(func() error { return b.next.DeleteCategories(ctx) })
}

func (b *BreakerCache) run(fn func() error) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, fn()
	})
	return err
}
