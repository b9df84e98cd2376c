package repository

import (
	"context"

	"github.com/fjod/storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the user collection operations, including the
// wishlist array kept on each user.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) (*domain.InsertResult, error)
	Update(ctx context.Context, id primitive.ObjectID, fields domain.Fields) (*domain.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.DeleteResult, error)
	AddToWishlist(ctx context.Context, email, productID string) (*domain.UpdateResult, error)
	RemoveFromWishlist(ctx context.Context, email, productID string) (*domain.UpdateResult, error)
}

// ProductRepository defines the catalog operations.
type ProductRepository interface {
	List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error)
	FindBySeller(ctx context.Context, email string) ([]domain.Product, error)
	Insert(ctx context.Context, product *domain.Product) (*domain.InsertResult, error)
	Update(ctx context.Context, id primitive.ObjectID, fields domain.Fields) (*domain.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.DeleteResult, error)
}

// CartRepository defines the interface for cart data operations.
// Every mutation is a single atomic document update.
type CartRepository interface {
	GetCart(ctx context.Context, email string) (*domain.Cart, error)
	AddItem(ctx context.Context, email string, item domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, email, productID string, quantity int) error
	RemoveItem(ctx context.Context, email, productID string) error
}
