package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/events"
)

type mockCache struct {
	m          sync.RWMutex
	products   map[string]*domain.Product
	categories []string
	err        error
	deletes    int
}

func newMockCache() *mockCache {
	return &mockCache{products: map[string]*domain.Product{}}
}

func (m *mockCache) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return p, nil
}

func (m *mockCache) SetProduct(_ context.Context, p *domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[p.ID.Hex()] = p
	return m.err
}

func (m *mockCache) DeleteProduct(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.products, id)
	m.deletes++
	return m.err
}

func (m *mockCache) GetCategories(context.Context) ([]string, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.categories == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.categories, nil
}

func (m *mockCache) SetCategories(_ context.Context, categories []string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.categories = categories
	return m.err
}

func (m *mockCache) DeleteCategories(context.Context) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.categories = nil
	return m.err
}

func (m *mockCache) cached(id string) bool {
	m.m.RLock()
	defer m.m.RUnlock()
	_, ok := m.products[id]
	return ok
}

func (m *mockCache) cachedCategories() []string {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.categories
}

// gatedCache blocks the first SetProduct until release is closed, so a test
// can land a write between a store read and the cache fill that follows it.
type gatedCache struct {
	*mockCache
	calls   atomic.Int32
	reached chan struct{}
	release chan struct{}
}

func newGatedCache() *gatedCache {
	return &gatedCache{
		mockCache: newMockCache(),
		reached:   make(chan struct{}),
		release:   make(chan struct{}),
	}
}

func (g *gatedCache) SetProduct(ctx context.Context, p *domain.Product) error {
	if g.calls.Add(1) == 1 {
		close(g.reached)
		<-g.release
	}
	return g.mockCache.SetProduct(ctx, p)
}

type mockPublisher struct {
	m      sync.Mutex
	events []events.CartEvent
	err    error
}

func (p *mockPublisher) Publish(_ context.Context, e events.CartEvent) error {
	p.m.Lock()
	defer p.m.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *mockPublisher) Close() error { return nil }

func (p *mockPublisher) types() []events.CartEventType {
	p.m.Lock()
	defer p.m.Unlock()
	out := make([]events.CartEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errBroken = errors.New("connection refused")
