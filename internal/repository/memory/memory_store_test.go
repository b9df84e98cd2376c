package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/fjod/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedProducts(t *testing.T, s *Store, products ...domain.Product) []string {
	ids := make([]string, 0, len(products))
	for i := range products {
		res, err := s.Products().Insert(context.Background(), &products[i])
		require.NoError(t, err)
		ids = append(ids, res.InsertedID)
	}
	return ids
}

func TestProductStore_ListPaginatesAndCounts(t *testing.T) {
	s := NewStore()
	seedProducts(t, s,
		domain.Product{Name: "A", Category: "Skincare", Price: 10},
		domain.Product{Name: "B", Category: "Skincare", Price: 50},
		domain.Product{Name: "C", Category: "Skincare", Price: 30},
		domain.Product{Name: "D", Category: "Skincare", Price: 20},
		domain.Product{Name: "E", Category: "Skincare", Price: 40},
		domain.Product{Name: "F", Category: "Makeup", Price: 99},
	)

	products, total, err := s.Products().List(context.Background(), domain.ProductQuery{Category: "skin", Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, products, 2)
	assert.Equal(t, "B", products[0].Name)
	assert.Equal(t, "E", products[1].Name)

	products, _, err = s.Products().List(context.Background(), domain.ProductQuery{Category: "skin", Sort: "asc", Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "B", products[0].Name)

	products, total, err = s.Products().List(context.Background(), domain.ProductQuery{Page: 9, Limit: 12})
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	assert.Empty(t, products)
}

func TestProductStore_Categories(t *testing.T) {
	s := NewStore()
	seedProducts(t, s,
		domain.Product{Name: "A", Category: "Skincare"},
		domain.Product{Name: "B", Category: "Makeup"},
		domain.Product{Name: "C", Category: "Skincare"},
		domain.Product{Name: "D"},
	)

	categories, err := s.Products().Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Makeup", "Skincare"}, categories)
}

func TestProductStore_UpdateMergesFields(t *testing.T) {
	s := NewStore()
	ids := seedProducts(t, s, domain.Product{Name: "A", Price: 10, Extra: map[string]interface{}{"image": "a.png"}})
	id, err := primitive.ObjectIDFromHex(ids[0])
	require.NoError(t, err)

	_, err = s.Products().Update(context.Background(), id, domain.Fields{"price": 12.0, "stock": 3.0})
	require.NoError(t, err)

	p, err := s.Products().FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "A", p.Name)
	assert.Equal(t, 12.0, p.Price)
	assert.Equal(t, "a.png", p.Extra["image"])
	assert.Equal(t, 3.0, p.Extra["stock"])

	_, err = s.Products().Update(context.Background(), primitive.NewObjectID(), domain.Fields{"price": 1.0})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	s := NewStore()
	_, err := s.Users().Insert(context.Background(), &domain.User{Email: "a@b.com"})
	require.NoError(t, err)

	_, err = s.Users().Insert(context.Background(), &domain.User{Email: "a@b.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	users, err := s.Users().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserStore_Wishlist(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	res, err := s.Users().AddToWishlist(ctx, "new@b.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.UpsertedCount)

	_, err = s.Users().AddToWishlist(ctx, "new@b.com", "p1")
	require.NoError(t, err)
	_, err = s.Users().AddToWishlist(ctx, "new@b.com", "p2")
	require.NoError(t, err)

	u, err := s.Users().FindByEmail(ctx, "new@b.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, u.Wishlist)

	res, err = s.Users().RemoveFromWishlist(ctx, "new@b.com", "p9")
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.ModifiedCount)

	_, err = s.Users().RemoveFromWishlist(ctx, "new@b.com", "p1")
	require.NoError(t, err)
	u, err = s.Users().FindByEmail(ctx, "new@b.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, u.Wishlist)
}

func TestCartStore_Lifecycle(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	carts := s.Carts()

	_, err := carts.GetCart(ctx, "a@b.com")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
	assert.ErrorIs(t, carts.UpdateItemQuantity(ctx, "a@b.com", "p1", 2), domain.ErrCartNotFound)

	require.NoError(t, carts.AddItem(ctx, "a@b.com", domain.CartItem{ProductID: "p1", Quantity: 1}))
	require.NoError(t, carts.AddItem(ctx, "a@b.com", domain.CartItem{ProductID: "p1", Quantity: 1}))

	cart, err := carts.GetCart(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	assert.ErrorIs(t, carts.UpdateItemQuantity(ctx, "a@b.com", "p9", 2), domain.ErrItemNotFound)
	assert.ErrorIs(t, carts.RemoveItem(ctx, "a@b.com", "p9"), domain.ErrItemNotFound)
	require.NoError(t, carts.RemoveItem(ctx, "a@b.com", "p1"))

	cart, err = carts.GetCart(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartStore_ConcurrentAdds(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Carts().AddItem(ctx, "a@b.com", domain.CartItem{ProductID: "p1", Quantity: 1}))
		}()
	}
	wg.Wait()

	cart, err := s.Carts().GetCart(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 50, cart.Items[0].Quantity)
}

func TestStore_CancelledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Users().List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
