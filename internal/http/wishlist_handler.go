package http

import (
	"context"
	"net/http"

	"github.com/fjod/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type WishlistService interface {
	Add(ctx context.Context, email, productID string) (*domain.UpdateResult, error)
	Remove(ctx context.Context, email, productID string) (*domain.UpdateResult, error)
	List(ctx context.Context, email string) ([]domain.Product, error)
}

type WishlistHandler struct {
	wishlist WishlistService
}

func NewWishlistHandler(wishlist WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

type WishlistRequestDTO struct {
	UserEmail string `json:"userEmail"`
	ProductID string `json:"productId"`
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req WishlistRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	res, err := h.wishlist.Add(r.Context(), req.UserEmail, req.ProductID)
	if err != nil {
		writeServiceError(w, r, "add to wishlist", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req WishlistRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	res, err := h.wishlist.Remove(r.Context(), req.UserEmail, req.ProductID)
	if err != nil {
		writeServiceError(w, r, "remove from wishlist", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.wishlist.List(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeServiceError(w, r, "list wishlist", err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}
