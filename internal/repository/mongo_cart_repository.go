package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxAddAttempts bounds the retries of AddItem when a concurrent add for the
// same email wins the race to create the cart or the line.
const maxAddAttempts = 3

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{collection: db.Collection(cartsCollection)}
}

func (m mongoCartRepository) GetCart(ctx context.Context, email string) (*domain.Cart, error) {
	var cart domain.Cart

	err := m.collection.FindOne(ctx, bson.M{"email": email}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

// AddItem increments the quantity of an existing line or appends a new one,
// creating the cart on first use. Both branches are single conditional
// updates, so two concurrent adds of the same product sum instead of one
// overwriting the other. The unique email index turns a lost creation race
// into a duplicate key error, which is retried.
func (m mongoCartRepository) AddItem(ctx context.Context, email string, item domain.CartItem) error {
	for attempt := 0; attempt < maxAddAttempts; attempt++ {
		now := time.Now()

		res, err := m.collection.UpdateOne(ctx,
			bson.M{"email": email, "items.productId": item.ProductID},
			bson.M{
				"$inc": bson.M{"items.$.quantity": item.Quantity},
				"$set": bson.M{"updatedAt": now},
			},
		)
		if err != nil {
			return fmt.Errorf("failed to increment cart item: %w", err)
		}
		if res.MatchedCount > 0 {
			return nil
		}

		_, err = m.collection.UpdateOne(ctx,
			bson.M{"email": email, "items.productId": bson.M{"$ne": item.ProductID}},
			bson.M{
				"$push":        bson.M{"items": item},
				"$set":         bson.M{"updatedAt": now},
				"$setOnInsert": bson.M{"createdAt": now},
			},
			options.Update().SetUpsert(true),
		)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to add cart item: %w", err)
		}
	}
	return fmt.Errorf("failed to add cart item after %d attempts", maxAddAttempts)
}

func (m mongoCartRepository) UpdateItemQuantity(ctx context.Context, email, productID string, quantity int) error {
	res, err := m.collection.UpdateOne(ctx,
		bson.M{"email": email, "items.productId": productID},
		bson.M{"$set": bson.M{
			"items.$.quantity": quantity,
			"updatedAt":        time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update item quantity: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := m.collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return fmt.Errorf("failed to check cart: %w", err)
	}
	if n == 0 {
		return domain.ErrCartNotFound
	}
	return domain.ErrItemNotFound
}

func (m mongoCartRepository) RemoveItem(ctx context.Context, email, productID string) error {
	res, err := m.collection.UpdateOne(ctx,
		bson.M{"email": email, "items.productId": productID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"productId": productID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	if res.ModifiedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
