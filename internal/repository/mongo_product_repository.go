package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/fjod/storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{collection: db.Collection(productsCollection)}
}

// productFilter matches title against name and category as case-insensitive
// substrings. User input is quoted so it is never interpreted as a pattern.
func productFilter(q domain.ProductQuery) bson.M {
	filter := bson.M{}
	if q.Title != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Title), Options: "i"}
	}
	if q.Category != "" {
		filter["category"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Category), Options: "i"}
	}
	return filter
}

func (m mongoProductRepository) List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, error) {
	q = q.Normalize()
	filter := productFilter(q)

	direction := -1
	if q.Ascending() {
		direction = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "price", Value: direction}, {Key: "_id", Value: 1}}).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))

	cur, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	products := []domain.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	total, err := m.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	return products, total, nil
}

// Categories returns the distinct non-empty string categories, sorted.
// Products without a category or with a non-string one do not contribute.
func (m mongoProductRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := m.collection.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (m mongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var product domain.Product
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (m mongoProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	products := []domain.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	cur, err := m.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to query products by id: %w", err)
	}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (m mongoProductRepository) FindBySeller(ctx context.Context, email string) ([]domain.Product, error) {
	cur, err := m.collection.Find(ctx, bson.M{"sellerEmail": email})
	if err != nil {
		return nil, fmt.Errorf("failed to query seller products: %w", err)
	}
	products := []domain.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (m mongoProductRepository) Insert(ctx context.Context, product *domain.Product) (*domain.InsertResult, error) {
	res, err := m.collection.InsertOne(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return insertResult(res), nil
}

func (m mongoProductRepository) Update(ctx context.Context, id primitive.ObjectID, fields domain.Fields) (*domain.UpdateResult, error) {
	res, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrProductNotFound
	}
	return updateResult(res), nil
}

func (m mongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.DeleteResult, error) {
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}
	return deleteResult(res), nil
}
