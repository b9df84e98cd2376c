package domain

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPageLimit is the page size used when a listing request gives none.
const DefaultPageLimit = 12

// Product is a catalog entry. Price is always numeric; fields the catalog
// does not interpret are carried in Extra.
type Product struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty"`
	Name        string                 `bson:"name,omitempty"`
	Category    string                 `bson:"category,omitempty"`
	Brand       string                 `bson:"brand,omitempty"`
	Price       float64                `bson:"price"`
	SellerEmail string                 `bson:"sellerEmail,omitempty"`
	Extra       map[string]interface{} `bson:",inline"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	doc := copyExtra(p.Extra, 6)
	p.writeFields(doc)
	return json.Marshal(doc)
}

func (p Product) writeFields(doc map[string]interface{}) {
	if !p.ID.IsZero() {
		doc["_id"] = p.ID.Hex()
	}
	putString(doc, "name", p.Name)
	putString(doc, "category", p.Category)
	putString(doc, "brand", p.Brand)
	putString(doc, "sellerEmail", p.SellerEmail)
	doc["price"] = p.Price
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("product must be an object: %w", ErrInvalidInput)
	}

	var out Product
	var err error
	if out.ID, err = takeID(doc); err != nil {
		return err
	}
	for key, dst := range map[string]*string{
		"name":        &out.Name,
		"category":    &out.Category,
		"brand":       &out.Brand,
		"sellerEmail": &out.SellerEmail,
	} {
		if *dst, err = takeString(doc, key); err != nil {
			return err
		}
	}
	if out.Price, err = takePrice(doc); err != nil {
		return err
	}
	out.Extra = nilIfEmpty(doc)
	*p = out
	return nil
}

// takePrice accepts a JSON number or a numeric string, since form-driven
// clients tend to post prices as text.
func takePrice(doc map[string]interface{}) (float64, error) {
	v, ok := doc["price"]
	delete(doc, "price")
	if !ok || v == nil {
		return 0, nil
	}
	switch price := v.(type) {
	case float64:
		return price, nil
	case string:
		f, err := strconv.ParseFloat(price, 64)
		if err != nil {
			return 0, fmt.Errorf("price must be numeric: %w", ErrInvalidInput)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("price must be numeric: %w", ErrInvalidInput)
	}
}

// ProductQuery is the filter, sort and page of a catalog listing.
type ProductQuery struct {
	Title    string
	Category string
	Sort     string
	Page     int
	Limit    int
}

// Normalize clamps page and limit to at least one.
func (q ProductQuery) Normalize() ProductQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 1
	}
	return q
}

// Ascending reports whether the listing is ordered by ascending price.
// Anything other than "asc" sorts descending.
func (q ProductQuery) Ascending() bool {
	return q.Sort == "asc"
}

func (q ProductQuery) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// ProductPage is one page of a catalog listing. Categories covers the whole
// catalog, not only the filtered page.
type ProductPage struct {
	Products   []Product `json:"product"`
	Categories []string  `json:"categories"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
}
