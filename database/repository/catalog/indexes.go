package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the unique name index and the parent lookup index.
func (r *MongoCatalogRepo) ensureIndexes() error {
	ctx, cancel := withTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.services.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "nameKey", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "isActive", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}

	if _, err := r.subServices.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "serviceId", Value: 1}, {Key: "price", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create sub-service indexes: %w", err)
	}
	return nil
}
