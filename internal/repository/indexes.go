package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Index names follow the <field>_1 convention so duplicate key errors can
// be mapped back to the offending field.
var collectionIndexes = map[string][]mongo.IndexModel{
	"users": {
		uniqueIndex("email"),
		uniqueIndex("username"),
		{Keys: bson.D{{Key: "resetPasswordLink", Value: 1}}, Options: options.Index().SetName("resetPasswordLink_1")},
	},
	"blogs": {
		uniqueIndex("slug"),
		{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("createdAt_-1")},
		{Keys: bson.D{{Key: "postedBy", Value: 1}}, Options: options.Index().SetName("postedBy_1")},
		{Keys: bson.D{{Key: "categories", Value: 1}}, Options: options.Index().SetName("categories_1")},
		{Keys: bson.D{{Key: "tags", Value: 1}}, Options: options.Index().SetName("tags_1")},
	},
	"categories": {uniqueIndex("slug")},
	"tags":       {uniqueIndex("slug")},
}

func uniqueIndex(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetName(field + "_1").SetUnique(true),
	}
}

// EnsureIndexes creates every index the repositories rely on.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for collection, models := range collectionIndexes {
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
