package http

import (
	"context"
	"net/http"

	"github.com/fjod/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CartService interface {
	AddItem(ctx context.Context, email, productID string, quantity int) error
	UpdateQuantity(ctx context.Context, email, productID string, quantity int) error
	RemoveItem(ctx context.Context, email, productID string) error
	GetDetailed(ctx context.Context, email string) (*domain.DetailedCart, error)
}

// CartHandler serves the /card routes.
type CartHandler struct {
	carts CartService
}

func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type CartItemRequestDTO struct {
	Email     string `json:"email"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	if err := h.carts.AddItem(r.Context(), req.Email, req.ProductID, req.Quantity); err != nil {
		writeServiceError(w, r, "add cart item", err)
		return
	}
	respondMessage(w, http.StatusOK, "Product added to cart")
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.GetDetailed(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeServiceError(w, r, "get cart", err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	if err := h.carts.UpdateQuantity(r.Context(), req.Email, req.ProductID, req.Quantity); err != nil {
		writeServiceError(w, r, "update cart quantity", err)
		return
	}
	respondMessage(w, http.StatusOK, "Cart updated")
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	productID := chi.URLParam(r, "productId")

	if err := h.carts.RemoveItem(r.Context(), email, productID); err != nil {
		writeServiceError(w, r, "remove cart item", err)
		return
	}
	respondMessage(w, http.StatusOK, "Product removed from cart")
}
