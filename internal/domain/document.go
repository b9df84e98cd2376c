package domain

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fields is a partial document used for PATCH style field merges.
type Fields map[string]interface{}

// Sanitized drops keys that must never be written through a field merge.
func (f Fields) Sanitized() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if k == "_id" || k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// ParseID converts a hex identifier from a route into an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("malformed id %q: %w", hex, ErrInvalidInput)
	}
	return id, nil
}

func takeString(doc map[string]interface{}, key string) (string, error) {
	v, ok := doc[key]
	if !ok || v == nil {
		delete(doc, key)
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string: %w", key, ErrInvalidInput)
	}
	delete(doc, key)
	return s, nil
}

func takeID(doc map[string]interface{}) (primitive.ObjectID, error) {
	s, err := takeString(doc, "_id")
	if err != nil || s == "" {
		return primitive.NilObjectID, err
	}
	return ParseID(s)
}

func putString(doc map[string]interface{}, key, value string) {
	if value != "" {
		doc[key] = value
	}
}

func copyExtra(extra map[string]interface{}, capacity int) map[string]interface{} {
	doc := make(map[string]interface{}, len(extra)+capacity)
	for k, v := range extra {
		doc[k] = v
	}
	return doc
}

func nilIfEmpty(doc map[string]interface{}) map[string]interface{} {
	if len(doc) == 0 {
		return nil
	}
	return doc
}
