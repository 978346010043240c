// internal/app/bootstrap/connect.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/rfields/staffdir/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const connectAttempts = 5

// ConnectDB establishes the MongoDB connection for the app.
//
// Transient failures are retried with doubling backoff so the service
// survives starting before its database (common under docker-compose).
// The returned DBDeps are passed to the remaining lifecycle hooks.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	backoff := time.Second
	var lastErr error

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		client, err := connectOnce(ctx, opts)
		if err == nil {
			logger.Info("connected to MongoDB",
				zap.String("database", appCfg.MongoDatabase),
				zap.Int("attempt", attempt))
			return DBDeps{
				MongoClient:   client,
				MongoDatabase: client.Database(appCfg.MongoDatabase),
			}, nil
		}

		lastErr = err
		logger.Warn("MongoDB connection failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", connectAttempts),
			zap.Duration("retry_in", backoff),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return DBDeps{}, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return DBDeps{}, fmt.Errorf("mongodb unreachable after %d attempts: %w", connectAttempts, lastErr)
}

func connectOnce(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, timeouts.Ping())
	defer cancelPing()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}
