package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/events"
	"github.com/fjod/storefront/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartService struct {
	repo      repository.CartRepository
	products  repository.ProductRepository
	publisher events.Publisher
}

func NewCartService(repo repository.CartRepository, products repository.ProductRepository, publisher events.Publisher) *CartService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &CartService{
		repo:      repo,
		products:  products,
		publisher: publisher,
	}
}

// AddItem adds quantity of productID to the cart of email, creating the cart
// on first use. Adding a product already in the cart sums the quantities.
func (s *CartService) AddItem(ctx context.Context, email, productID string, quantity int) error {
	if err := domain.ValidateLineItem(email, productID, quantity); err != nil {
		return err
	}

	item := domain.CartItem{ProductID: productID, Quantity: quantity}
	if err := s.repo.AddItem(ctx, email, item); err != nil {
		return err
	}

	s.publish(ctx, events.NewCartEvent(events.CartItemAdded, email, productID, quantity))
	return nil
}

// UpdateQuantity overwrites the quantity of an existing line.
func (s *CartService) UpdateQuantity(ctx context.Context, email, productID string, quantity int) error {
	if err := domain.ValidateLineItem(email, productID, quantity); err != nil {
		return err
	}

	if err := s.repo.UpdateItemQuantity(ctx, email, productID, quantity); err != nil {
		return err
	}

	s.publish(ctx, events.NewCartEvent(events.CartQuantityUpdated, email, productID, quantity))
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, email, productID string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(productID) == "" {
		return fmt.Errorf("email and productId are required: %w", domain.ErrInvalidInput)
	}

	if err := s.repo.RemoveItem(ctx, email, productID); err != nil {
		return err
	}

	s.publish(ctx, events.NewCartEvent(events.CartItemRemoved, email, productID, 0))
	return nil
}

// GetDetailed returns the cart of email joined with current product data.
// An empty cart is reported as ErrCartNotFound.
func (s *CartService) GetDetailed(ctx context.Context, email string) (*domain.DetailedCart, error) {
	cart, err := s.repo.GetCart(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrCartNotFound
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		// A reference that is not an ObjectID can never resolve; it stays
		// in the cart with no product fields.
		if id, err := primitive.ObjectIDFromHex(item.ProductID); err == nil {
			ids = append(ids, id)
		}
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID.Hex()] = p
	}

	return domain.Hydrate(cart, byID), nil
}

func (s *CartService) publish(ctx context.Context, event events.CartEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "cart event not published", "type", event.Type, "email", event.Email, "error", err)
	}
}
