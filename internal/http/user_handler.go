package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/fjod/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

const (
	msgUserMissing = "User Does not exist!"
	msgUserExists  = "This user Already exist!"
)

type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, email string, user *domain.User) (*domain.InsertResult, error)
	Update(ctx context.Context, id string, fields domain.Fields) (*domain.UpdateResult, error)
	Delete(ctx context.Context, id string) (*domain.DeleteResult, error)
}

type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list users", err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

// Get answers an unknown email with 200 and a message, which is what
// existing clients check for.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByEmail(r.Context(), chi.URLParam(r, "key"))
	if errors.Is(err, domain.ErrUserNotFound) {
		respondMessage(w, http.StatusOK, msgUserMissing)
		return
	}
	if err != nil {
		writeServiceError(w, r, "get user", err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// CreateUserRequestDTO is the POST /user/{key} body. The profile travels
// under userData; an empty body creates a bare profile.
type CreateUserRequestDTO struct {
	UserData *domain.User `json:"userData"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequestDTO
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondDecodeError(w, err)
		return
	}
	user := req.UserData
	if user == nil {
		user = &domain.User{}
	}

	res, err := h.users.Create(r.Context(), chi.URLParam(r, "key"), user)
	if errors.Is(err, domain.ErrUserExists) {
		respondMessage(w, http.StatusOK, msgUserExists)
		return
	}
	if err != nil {
		writeServiceError(w, r, "create user", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var fields domain.Fields
	if err := decodeJSON(r, &fields); err != nil {
		respondDecodeError(w, err)
		return
	}

	res, err := h.users.Update(r.Context(), chi.URLParam(r, "key"), fields)
	if err != nil {
		writeServiceError(w, r, "update user", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.users.Delete(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeServiceError(w, r, "delete user", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
