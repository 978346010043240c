// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	employeesfeature "github.com/rfields/staffdir/internal/app/features/employees"
	healthfeature "github.com/rfields/staffdir/internal/app/features/health"
	loginfeature "github.com/rfields/staffdir/internal/app/features/login"
	"github.com/rfields/staffdir/internal/app/system/auth"
	"github.com/rfields/staffdir/internal/app/system/limits"
	"github.com/rfields/staffdir/internal/app/system/uploads"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It mounts the JSON API:
//
//	POST   /login              admin authentication, mints bearer tokens
//	GET    /health             liveness probe
//	/employees/*               token-gated CRUD for the directory
//	GET    /uploads/*          stored employee photos (static)
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := auth.New(appCfg.TokenSecret, appCfg.TokenTTL)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	images, err := uploads.NewSaver(appCfg.UploadDir, appCfg.UploadURLPrefix, limits.MaxImageUploadSize, logger)
	if err != nil {
		logger.Error("upload dir init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Single-origin CORS for the browser frontend.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appCfg.CORSAllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, tokens, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	// Employee directory, token-gated
	employeesHandler := employeesfeature.NewHandler(deps.MongoDatabase, images, logger)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAdmin(tokens, logger))
		pr.Mount("/employees", employeesfeature.Routes(employeesHandler))
	})

	// Stored photos with pre-compressed file support (gzip/brotli)
	r.Handle(appCfg.UploadURLPrefix+"/*", fileserver.Handler(appCfg.UploadURLPrefix, appCfg.UploadDir))

	return r, nil
}
