package domain

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a customer or seller profile. Email is the lookup key; any other
// profile fields the client sends are kept in Extra.
type User struct {
	ID       primitive.ObjectID     `bson:"_id,omitempty"`
	Email    string                 `bson:"email"`
	Wishlist []string               `bson:"wishlist,omitempty"`
	Extra    map[string]interface{} `bson:",inline"`
}

func (u User) MarshalJSON() ([]byte, error) {
	doc := copyExtra(u.Extra, 3)
	if !u.ID.IsZero() {
		doc["_id"] = u.ID.Hex()
	}
	doc["email"] = u.Email
	if u.Wishlist != nil {
		doc["wishlist"] = u.Wishlist
	}
	return json.Marshal(doc)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("user must be an object: %w", ErrInvalidInput)
	}

	var out User
	var err error
	if out.ID, err = takeID(doc); err != nil {
		return err
	}
	if out.Email, err = takeString(doc, "email"); err != nil {
		return err
	}
	if raw, ok := doc["wishlist"]; ok {
		list, ok := raw.([]interface{})
		if !ok {
			return fmt.Errorf("wishlist must be an array: %w", ErrInvalidInput)
		}
		out.Wishlist = make([]string, 0, len(list))
		for _, v := range list {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("wishlist entries must be strings: %w", ErrInvalidInput)
			}
			out.Wishlist = append(out.Wishlist, s)
		}
		delete(doc, "wishlist")
	}
	out.Extra = nilIfEmpty(doc)
	*u = out
	return nil
}
