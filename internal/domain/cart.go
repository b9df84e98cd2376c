package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart is the single cart document of one email. A productId appears at most
// once in Items.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email     string             `bson:"email" json:"email"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CartItem struct {
	ProductID string `bson:"productId" json:"productId"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// ValidateLineItem checks the inputs shared by add and update.
func ValidateLineItem(email, productID string, quantity int) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(productID) == "" {
		return fmt.Errorf("productId is required: %w", ErrInvalidInput)
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrInvalidInput)
	}
	return nil
}

// NewCart creates a cart holding a single line.
func NewCart(email string, item CartItem, now time.Time) *Cart {
	return &Cart{
		Email:     email,
		Items:     []CartItem{item},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add increments the line for productID, or appends a new line.
func (c *Cart) Add(productID string, quantity int, now time.Time) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Quantity += quantity
	} else {
		c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
	}
	c.UpdatedAt = now
}

// SetQuantity overwrites the quantity of an existing line.
func (c *Cart) SetQuantity(productID string, quantity int, now time.Time) error {
	i := c.indexOf(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	c.Items[i].Quantity = quantity
	c.UpdatedAt = now
	return nil
}

// Remove drops the line for productID.
func (c *Cart) Remove(productID string, now time.Time) error {
	i := c.indexOf(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.UpdatedAt = now
	return nil
}

// ProductIDs lists the product references of the cart in line order.
func (c *Cart) ProductIDs() []string {
	ids := make([]string, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ProductID
	}
	return ids
}

// CartLine is a cart line joined with its product. Product is nil when the
// reference no longer resolves.
type CartLine struct {
	ProductID string
	Quantity  int
	Product   *Product
}

// MarshalJSON renders the product fields with the line quantity merged in.
func (l CartLine) MarshalJSON() ([]byte, error) {
	if l.Product == nil {
		return json.Marshal(map[string]interface{}{
			"productId": l.ProductID,
			"quantity":  l.Quantity,
		})
	}
	doc := copyExtra(l.Product.Extra, 7)
	l.Product.writeFields(doc)
	doc["quantity"] = l.Quantity
	return json.Marshal(doc)
}

// DetailedCart is a cart with every line hydrated and the total computed.
type DetailedCart struct {
	Email      string     `json:"email"`
	Items      []CartLine `json:"items"`
	TotalPrice float64    `json:"totalPrice"`
}

// Hydrate joins the cart lines with products keyed by id hex. Lines whose
// product is missing are kept but add nothing to the total.
func Hydrate(cart *Cart, products map[string]Product) *DetailedCart {
	out := &DetailedCart{
		Email: cart.Email,
		Items: make([]CartLine, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		line := CartLine{ProductID: item.ProductID, Quantity: item.Quantity}
		if p, ok := products[item.ProductID]; ok {
			p := p
			line.Product = &p
			out.TotalPrice += p.Price * float64(item.Quantity)
		}
		out.Items = append(out.Items, line)
	}
	return out
}
