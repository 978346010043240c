// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	adminstore "github.com/rfields/staffdir/internal/app/store/admins"
	"github.com/rfields/staffdir/internal/app/system/authutil"
	"github.com/rfields/staffdir/internal/domain/models"
	"go.uber.org/zap"
)

// devAdminPassword seeds the default admin in dev when no password is
// configured. Never used outside dev.
const devAdminPassword = "admin123"

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return ensureDefaultAdmin(ctx, deps, appCfg, coreCfg.Env, logger)
}

// ensureDefaultAdmin creates the configured default admin when the
// admins collection is empty, so a fresh deployment is immediately
// usable. It never touches an existing admin and is safe to run on
// every startup. With no password configured, provisioning is skipped
// outside dev rather than seeding a guessable credential.
func ensureDefaultAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, env string, logger *zap.Logger) error {
	admins := adminstore.New(deps.MongoDatabase)

	count, err := admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := appCfg.DefaultAdminPassword
	if password == "" {
		if env != "dev" {
			logger.Warn("no admins exist and no default admin password is configured; skipping admin provisioning (set STAFFDIR_DEFAULT_ADMIN_PASSWORD)")
			return nil
		}
		password = devAdminPassword
		logger.Warn("seeding the default admin with the dev stock password; set STAFFDIR_DEFAULT_ADMIN_PASSWORD")
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		return err
	}

	created, err := admins.Create(ctx, models.Admin{
		Email:        appCfg.DefaultAdminEmail,
		PasswordHash: hash,
	})
	if err != nil {
		// Another instance may have won the race; that admin is as good
		// as ours.
		if err == adminstore.ErrDuplicateEmail {
			logger.Info("default admin already created by a concurrent instance")
			return nil
		}
		return err
	}

	logger.Info("created default admin",
		zap.String("admin_id", created.ID.Hex()),
		zap.String("email", created.Email))

	if appCfg.DefaultAdminPassword == devAdminPassword {
		logger.Warn("default admin uses the stock password; change it or set STAFFDIR_DEFAULT_ADMIN_PASSWORD")
	}

	return nil
}
