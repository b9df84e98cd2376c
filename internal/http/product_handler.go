package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/fjod/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

const msgSellerMissing = "Seller Does not exist!"

type ProductService interface {
	List(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.InsertResult, error)
	Update(ctx context.Context, id string, fields domain.Fields) (*domain.UpdateResult, error)
	Delete(ctx context.Context, id string) (*domain.DeleteResult, error)
	ListBySeller(ctx context.Context, email string) ([]domain.Product, error)
}

type ProductHandler struct {
	products ProductService
}

func NewProductHandler(products ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List serves GET /products?title&category&sort&page&limit.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := domain.ProductQuery{
		Title:    query.Get("title"),
		Category: query.Get("category"),
		Sort:     query.Get("sort"),
		Page:     queryInt(query.Get("page"), 1),
		Limit:    queryInt(query.Get("limit"), domain.DefaultPageLimit),
	}

	page, err := h.products.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, "list products", err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// queryInt returns def for an absent value. Values that do not parse clamp
// to the lowest page or limit.
func queryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}

// Get answers an unknown id with 200 and a JSON null.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrProductNotFound) {
		respondJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		writeServiceError(w, r, "get product", err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := decodeJSON(r, &product); err != nil {
		respondDecodeError(w, err)
		return
	}

	res, err := h.products.Create(r.Context(), &product)
	if err != nil {
		writeServiceError(w, r, "create product", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var fields domain.Fields
	if err := decodeJSON(r, &fields); err != nil {
		respondDecodeError(w, err)
		return
	}

	res, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		writeServiceError(w, r, "update product", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.products.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "delete product", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *ProductHandler) ListBySeller(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListBySeller(r.Context(), chi.URLParam(r, "email"))
	if errors.Is(err, domain.ErrUserNotFound) {
		respondMessage(w, http.StatusOK, msgSellerMissing)
		return
	}
	if err != nil {
		writeServiceError(w, r, "list seller products", err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}
