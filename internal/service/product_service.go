package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"golang.org/x/sync/singleflight"
)

const categoriesKey = "categories"

type ProductService struct {
	repo  repository.ProductRepository
	users repository.UserRepository
	cache cache.ProductCache
	sfg   singleflight.Group // Prevents cache stampede
	gens  generations
}

func NewProductService(repo repository.ProductRepository, users repository.UserRepository, c cache.ProductCache) *ProductService {
	if c == nil {
		c = cache.NopCache{}
	}
	return &ProductService{
		repo:  repo,
		users: users,
		cache: c,
	}
}

// List returns one page of the filtered catalog together with the categories
// of the whole catalog.
func (s *ProductService) List(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	q = q.Normalize()

	products, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.ProductPage{
		Products:   products,
		Categories: categories,
		Total:      total,
		Page:       q.Page,
	}, nil
}

func (s *ProductService) categories(ctx context.Context) ([]string, error) {
	categories, err := s.cache.GetCategories(ctx)
	if err == nil {
		return categories, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		slog.WarnContext(ctx, "cache get categories failed", "error", err)
	}

	gen := s.gens.current(categoriesKey)
	v, err, _ := s.sfg.Do(flightKey(categoriesKey, gen), func() (interface{}, error) {
		categories, err := s.repo.Categories(ctx)
		if err != nil {
			return nil, err
		}
		s.fill(ctx, categoriesKey, gen,
			func(ctx context.Context) error { return s.cache.SetCategories(ctx, categories) },
			s.cache.DeleteCategories,
		)
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (s *ProductService) Get(ctx context.Context, idHex string) (*domain.Product, error) {
	id, err := domain.ParseID(idHex)
	if err != nil {
		return nil, err
	}

	product, err := s.cache.GetProduct(ctx, idHex)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		slog.WarnContext(ctx, "cache get product failed", "id", idHex, "error", err)
	}

	key := productKey(idHex)
	gen := s.gens.current(key)
	v, err, _ := s.sfg.Do(flightKey(key, gen), func() (interface{}, error) {
		product, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		s.fill(ctx, key, gen,
			func(ctx context.Context) error { return s.cache.SetProduct(ctx, product) },
			func(ctx context.Context) error { return s.cache.DeleteProduct(ctx, idHex) },
		)
		return product, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (s *ProductService) Create(ctx context.Context, product *domain.Product) (*domain.InsertResult, error) {
	if product == nil {
		return nil, fmt.Errorf("product is required: %w", domain.ErrInvalidInput)
	}
	res, err := s.repo.Insert(ctx, product)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, "")
	return res, nil
}

// Update merges fields into the product. Unknown ids fail with
// ErrProductNotFound rather than creating a document.
func (s *ProductService) Update(ctx context.Context, idHex string, fields domain.Fields) (*domain.UpdateResult, error) {
	id, err := domain.ParseID(idHex)
	if err != nil {
		return nil, err
	}
	fields, err = productFields(fields)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, idHex)
	return res, nil
}

func (s *ProductService) Delete(ctx context.Context, idHex string) (*domain.DeleteResult, error) {
	id, err := domain.ParseID(idHex)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, idHex)
	return res, nil
}

// ListBySeller returns the products of a seller, who must be a known user.
func (s *ProductService) ListBySeller(ctx context.Context, email string) ([]domain.Product, error) {
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, err
	}
	return s.repo.FindBySeller(ctx, email)
}

// productFields validates a product field merge. Price must stay numeric.
func productFields(fields domain.Fields) (domain.Fields, error) {
	fields = fields.Sanitized()
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrInvalidInput)
	}
	if v, ok := fields["price"]; ok {
		switch price := v.(type) {
		case float64:
		case string:
			f, err := strconv.ParseFloat(price, 64)
			if err != nil {
				return nil, fmt.Errorf("price must be numeric: %w", domain.ErrInvalidInput)
			}
			fields["price"] = f
		default:
			return nil, fmt.Errorf("price must be numeric: %w", domain.ErrInvalidInput)
		}
	}
	return fields, nil
}

// invalidate drops the cached product (when id is set) and the categories.
// The generation is bumped before the delete so a fill that read the store
// earlier notices and removes what it wrote.
func (s *ProductService) invalidate(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if id != "" {
		s.gens.bump(productKey(id))
		if err := s.cache.DeleteProduct(ctx, id); err != nil {
			slog.WarnContext(ctx, "cache invalidate product failed", "id", id, "error", err)
		}
	}
	s.gens.bump(categoriesKey)
	if err := s.cache.DeleteCategories(ctx); err != nil {
		slog.WarnContext(ctx, "cache invalidate categories failed", "error", err)
	}
}

// fill stores a value read at generation gen. If a write invalidated key
// while the value was in flight, the entry just written is deleted again.
func (s *ProductService) fill(ctx context.Context, key string, gen uint64, set, del func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()

	if err := set(ctx); err != nil {
		slog.WarnContext(ctx, "cache write failed", "key", key, "error", err)
		return
	}
	if s.gens.current(key) == gen {
		return
	}
	if err := del(ctx); err != nil {
		slog.WarnContext(ctx, "cache drop of stale fill failed", "key", key, "error", err)
	}
}

func productKey(id string) string { return "product:" + id }

func flightKey(key string, gen uint64) string {
	return key + "@" + strconv.FormatUint(gen, 10)
}

// generations counts invalidations per cache key.
type generations struct {
	mu sync.Mutex
	m  map[string]uint64
}

func (g *generations) current(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m[key]
}

func (g *generations) bump(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.m == nil {
		g.m = make(map[string]uint64)
	}
	g.m[key]++
}
