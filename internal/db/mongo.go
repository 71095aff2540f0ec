package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/vietanh2810/campus-events-api/internal/config"
	"github.com/vietanh2810/campus-events-api/internal/repository/mongodao"
)

const mongoConnectTimeout = 10 * time.Second

// OpenMongo connects, pings the primary and makes sure the indexes exist.
// Coordinator assignment and event deletion use transactions, so the server
// must be a replica set member.
func OpenMongo(ctx context.Context, conf *config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect -> %w", err)
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("client.Ping -> %w", err)
	}

	db := client.Database(conf.Database)
	if err = mongodao.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodao.EnsureIndexes -> %w", err)
	}

	zap.L().Info("connected to mongo", zap.String("database", conf.Database))

	return db, nil
}
