package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
)

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// Create registers a user under email. The email from the route wins over
// any email in the body. An existing email fails with ErrUserExists.
func (s *UserService) Create(ctx context.Context, email string, user *domain.User) (*domain.InsertResult, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("email is required: %w", domain.ErrInvalidInput)
	}
	if user == nil {
		user = &domain.User{}
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	user.Email = email
	return s.repo.Insert(ctx, user)
}

func (s *UserService) Update(ctx context.Context, idHex string, fields domain.Fields) (*domain.UpdateResult, error) {
	id, err := domain.ParseID(idHex)
	if err != nil {
		return nil, err
	}
	fields = fields.Sanitized()
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrInvalidInput)
	}
	return s.repo.Update(ctx, id, fields)
}

func (s *UserService) Delete(ctx context.Context, idHex string) (*domain.DeleteResult, error) {
	id, err := domain.ParseID(idHex)
	if err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, id)
}
