package persistence

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/repository"
)

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

// indexPlan lists the indexes the repositories rely on. The unique
// ticketId index is what makes duplicate creates fail atomically.
func indexPlan() []collectionIndexes {
	return []collectionIndexes{
		{
			collection: repository.TicketsCollection,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "ticketId", Value: 1}},
					Options: options.Index().SetName("ticketId_unique").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "ticketStatus", Value: 1}, {Key: "ticketType", Value: 1}},
					Options: options.Index().SetName("status_type"),
				},
				{
					Keys:    bson.D{{Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("createdAt_desc"),
				},
				{
					Keys:    bson.D{{Key: "userId", Value: 1}},
					Options: options.Index().SetName("userId"),
				},
			},
		},
		{
			collection: repository.CustomersCollection,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetName("email_unique").SetUnique(true),
				},
			},
		},
	}
}

// EnsureIndexes creates the indexes in indexPlan. Creating an index that
// already exists with the same keys and options is a no-op on the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if db == nil {
		logger.Warn("no mongo database available; skipping index creation")
		return nil
	}

	count := 0
	for _, plan := range indexPlan() {
		names, err := db.Collection(plan.collection).Indexes().CreateMany(ctx, plan.models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", plan.collection, err)
		}
		logger.Info("indexes ensured", zap.String("collection", plan.collection), zap.Strings("indexes", names))
		count += len(names)
	}

	logger.Info("index bootstrap complete", zap.Int("count", count))
	return nil
}
