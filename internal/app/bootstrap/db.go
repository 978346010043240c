// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/rfields/staffdir/internal/app/system/indexes"
	"go.uber.org/zap"
)

// EnsureSchema reconciles the MongoDB indexes the app relies on.
// It runs once at startup, after ConnectDB and before Startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	logger.Info("ensuring MongoDB indexes")
	return indexes.EnsureAll(ctx, deps.MongoDatabase)
}
