package repository

import (
	"github.com/fjod/storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func idString(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return ""
	}
}

func insertResult(res *mongo.InsertOneResult) *domain.InsertResult {
	return &domain.InsertResult{Acknowledged: true, InsertedID: idString(res.InsertedID)}
}

func updateResult(res *mongo.UpdateResult) *domain.UpdateResult {
	out := &domain.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if res.UpsertedID != nil {
		id := idString(res.UpsertedID)
		out.UpsertedID = &id
	}
	return out
}

func deleteResult(res *mongo.DeleteResult) *domain.DeleteResult {
	return &domain.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}
}
