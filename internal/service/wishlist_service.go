package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistService manages the set of product ids saved on a user.
type WishlistService struct {
	users    repository.UserRepository
	products repository.ProductRepository
}

func NewWishlistService(users repository.UserRepository, products repository.ProductRepository) *WishlistService {
	return &WishlistService{
		users:    users,
		products: products,
	}
}

// Add saves productID on the wishlist of email. Adding it twice is a no-op.
func (s *WishlistService) Add(ctx context.Context, email, productID string) (*domain.UpdateResult, error) {
	if err := wishlistInput(email, productID); err != nil {
		return nil, err
	}
	return s.users.AddToWishlist(ctx, email, productID)
}

func (s *WishlistService) Remove(ctx context.Context, email, productID string) (*domain.UpdateResult, error) {
	if err := wishlistInput(email, productID); err != nil {
		return nil, err
	}
	return s.users.RemoveFromWishlist(ctx, email, productID)
}

// List returns the wishlisted products that still exist, in wishlist order.
// An unknown user has an empty wishlist.
func (s *WishlistService) List(ctx context.Context, email string) ([]domain.Product, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return []domain.Product{}, nil
	}
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(user.Wishlist))
	for _, raw := range user.Wishlist {
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	out := make([]domain.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func wishlistInput(email, productID string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(productID) == "" {
		return fmt.Errorf("userEmail and productId are required: %w", domain.ErrInvalidInput)
	}
	return nil
}
