package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{collection: db.Collection(usersCollection)}
}

func (m mongoUserRepository) List(ctx context.Context) ([]domain.User, error) {
	cur, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := []domain.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (m mongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := m.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (m mongoUserRepository) Insert(ctx context.Context, user *domain.User) (*domain.InsertResult, error) {
	res, err := m.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return insertResult(res), nil
}

func (m mongoUserRepository) Update(ctx context.Context, id primitive.ObjectID, fields domain.Fields) (*domain.UpdateResult, error) {
	res, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return updateResult(res), nil
}

func (m mongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.DeleteResult, error) {
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	return deleteResult(res), nil
}

func (m mongoUserRepository) AddToWishlist(ctx context.Context, email, productID string) (*domain.UpdateResult, error) {
	res, err := m.collection.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$addToSet": bson.M{"wishlist": productID}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return updateResult(res), nil
}

func (m mongoUserRepository) RemoveFromWishlist(ctx context.Context, email, productID string) (*domain.UpdateResult, error) {
	res, err := m.collection.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$pull": bson.M{"wishlist": productID}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return updateResult(res), nil
}
