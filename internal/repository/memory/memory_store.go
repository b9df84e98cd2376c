package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ repository.UserRepository    = (*UserStore)(nil)
	_ repository.ProductRepository = (*ProductStore)(nil)
	_ repository.CartRepository    = (*CartStore)(nil)
)

// Store keeps users, products and carts in memory. It implements the same
// repository contracts as the MongoDB adapters and is meant for local runs
// and tests.
type Store struct {
	mu       sync.RWMutex
	users    []domain.User
	products []domain.Product
	carts    map[string]*domain.Cart // email -> cart
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		carts: make(map[string]*domain.Cart),
		now:   time.Now,
	}
}

// Users, Products and Carts expose the store under each repository contract.
func (s *Store) Users() *UserStore       { return &UserStore{s} }
func (s *Store) Products() *ProductStore { return &ProductStore{s} }
func (s *Store) Carts() *CartStore       { return &CartStore{s} }

// merge applies a field merge to a document by going through its JSON form,
// so typed fields and free-form fields are updated the same way.
func merge(current interface{}, fields domain.Fields, out interface{}) error {
	raw, err := json.Marshal(current)
	if err != nil {
		return err
	}
	doc := map[string]interface{}{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	if raw, err = json.Marshal(doc); err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memory store: %w", err)
	}
	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneCart(c *domain.Cart) *domain.Cart {
	out := *c
	out.Items = append([]domain.CartItem(nil), c.Items...)
	return &out
}

// UserStore implements repository.UserRepository.
type UserStore struct{ s *Store }

func (u *UserStore) indexByEmail(email string) int {
	for i := range u.s.users {
		if u.s.users[i].Email == email {
			return i
		}
	}
	return -1
}

func (u *UserStore) indexByID(id primitive.ObjectID) int {
	for i := range u.s.users {
		if u.s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (u *UserStore) List(ctx context.Context) ([]domain.User, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	out := make([]domain.User, len(u.s.users))
	for i, user := range u.s.users {
		user.Wishlist = cloneStrings(user.Wishlist)
		out[i] = user
	}
	return out, nil
}

func (u *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	i := u.indexByEmail(email)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	user := u.s.users[i]
	user.Wishlist = cloneStrings(user.Wishlist)
	return &user, nil
}

func (u *UserStore) Insert(ctx context.Context, user *domain.User) (*domain.InsertResult, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if u.indexByEmail(user.Email) >= 0 {
		return nil, domain.ErrUserExists
	}
	stored := *user
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	stored.Wishlist = cloneStrings(user.Wishlist)
	u.s.users = append(u.s.users, stored)
	return &domain.InsertResult{Acknowledged: true, InsertedID: stored.ID.Hex()}, nil
}

func (u *UserStore) Update(ctx context.Context, id primitive.ObjectID, fields domain.Fields) (*domain.UpdateResult, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	i := u.indexByID(id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	var updated domain.User
	if err := merge(u.s.users[i], fields, &updated); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if j := u.indexByEmail(updated.Email); j >= 0 && j != i {
		return nil, domain.ErrUserExists
	}
	u.s.users[i] = updated
	return &domain.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (u *UserStore) Delete(ctx context.Context, id primitive.ObjectID) (*domain.DeleteResult, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	i := u.indexByID(id)
	if i < 0 {
		return &domain.DeleteResult{Acknowledged: true}, nil
	}
	u.s.users = append(u.s.users[:i], u.s.users[i+1:]...)
	return &domain.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (u *UserStore) AddToWishlist(ctx context.Context, email, productID string) (*domain.UpdateResult, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	i := u.indexByEmail(email)
	if i < 0 {
		id := primitive.NewObjectID()
		u.s.users = append(u.s.users, domain.User{ID: id, Email: email, Wishlist: []string{productID}})
		hex := id.Hex()
		return &domain.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: &hex}, nil
	}
	for _, existing := range u.s.users[i].Wishlist {
		if existing == productID {
			return &domain.UpdateResult{Acknowledged: true, MatchedCount: 1}, nil
		}
	}
	u.s.users[i].Wishlist = append(u.s.users[i].Wishlist, productID)
	return &domain.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (u *UserStore) RemoveFromWishlist(ctx context.Context, email, productID string) (*domain.UpdateResult, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	i := u.indexByEmail(email)
	if i < 0 {
		return &domain.UpdateResult{Acknowledged: true}, nil
	}
	list := u.s.users[i].Wishlist
	for j, existing := range list {
		if existing == productID {
			u.s.users[i].Wishlist = append(list[:j:j], list[j+1:]...)
			return &domain.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &domain.UpdateResult{Acknowledged: true, MatchedCount: 1}, nil
}

// ProductStore implements repository.ProductRepository.
type ProductStore struct{ s *Store }

func (p *ProductStore) indexByID(id primitive.ObjectID) int {
	for i := range p.s.products {
		if p.s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (p *ProductStore) List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, 0, err
	}
	q = q.Normalize()
	p.s.mu.RLock()
	var matched []domain.Product
	for _, product := range p.s.products {
		if q.Title != "" && !containsFold(product.Name, q.Title) {
			continue
		}
		if q.Category != "" && !containsFold(product.Category, q.Category) {
			continue
		}
		matched = append(matched, product)
	}
	p.s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if q.Ascending() {
			return matched[i].Price < matched[j].Price
		}
		return matched[i].Price > matched[j].Price
	})

	total := int64(len(matched))
	start := q.Skip()
	if start > total {
		start = total
	}
	end := start + int64(q.Limit)
	if end > total {
		end = total
	}
	page := append([]domain.Product{}, matched[start:end]...)
	return page, total, nil
}

func (p *ProductStore) Categories(ctx context.Context) ([]string, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	seen := map[string]struct{}{}
	categories := []string{}
	for _, product := range p.s.products {
		if product.Category == "" {
			continue
		}
		if _, ok := seen[product.Category]; ok {
			continue
		}
		seen[product.Category] = struct{}{}
		categories = append(categories, product.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (p *ProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	i := p.indexByID(id)
	if i < 0 {
		return nil, domain.ErrProductNotFound
	}
	product := p.s.products[i]
	return &product, nil
}

func (p *ProductStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	wanted := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	products := []domain.Product{}
	for _, product := range p.s.products {
		if _, ok := wanted[product.ID]; ok {
			products = append(products, product)
		}
	}
	return products, nil
}

func (p *ProductStore) FindBySeller(ctx context.Context, email string) ([]domain.Product, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	products := []domain.Product{}
	for _, product := range p.s.products {
		if product.SellerEmail == email {
			products = append(products, product)
		}
	}
	return products, nil
}

func (p *ProductStore) Insert(ctx context.Context, product *domain.Product) (*domain.InsertResult, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	stored := *product
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	p.s.products = append(p.s.products, stored)
	return &domain.InsertResult{Acknowledged: true, InsertedID: stored.ID.Hex()}, nil
}

func (p *ProductStore) Update(ctx context.Context, id primitive.ObjectID, fields domain.Fields) (*domain.UpdateResult, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	i := p.indexByID(id)
	if i < 0 {
		return nil, domain.ErrProductNotFound
	}
	var updated domain.Product
	if err := merge(p.s.products[i], fields, &updated); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	p.s.products[i] = updated
	return &domain.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (p *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) (*domain.DeleteResult, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	i := p.indexByID(id)
	if i < 0 {
		return &domain.DeleteResult{Acknowledged: true}, nil
	}
	p.s.products = append(p.s.products[:i], p.s.products[i+1:]...)
	return &domain.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// CartStore implements repository.CartRepository. The store mutex makes each
// mutation atomic, matching the single-document updates of the Mongo adapter.
type CartStore struct{ s *Store }

func (c *CartStore) GetCart(ctx context.Context, email string) (*domain.Cart, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	cart, ok := c.s.carts[email]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return cloneCart(cart), nil
}

func (c *CartStore) AddItem(ctx context.Context, email string, item domain.CartItem) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	now := c.s.now()
	cart, ok := c.s.carts[email]
	if !ok {
		cart = domain.NewCart(email, item, now)
		cart.ID = primitive.NewObjectID()
		c.s.carts[email] = cart
		return nil
	}
	cart.Add(item.ProductID, item.Quantity, now)
	return nil
}

func (c *CartStore) UpdateItemQuantity(ctx context.Context, email, productID string, quantity int) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cart, ok := c.s.carts[email]
	if !ok {
		return domain.ErrCartNotFound
	}
	return cart.SetQuantity(productID, quantity, c.s.now())
}

func (c *CartStore) RemoveItem(ctx context.Context, email, productID string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cart, ok := c.s.carts[email]
	if !ok {
		return domain.ErrItemNotFound
	}
	return cart.Remove(productID, c.s.now())
}
