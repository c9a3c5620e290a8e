// Package app contains the application setup for the curio storefront API.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oldwares/curio/internal/config"
	imagestore "github.com/oldwares/curio/internal/image/store"
	imagerest "github.com/oldwares/curio/internal/image/transport/rest"
	"github.com/oldwares/curio/internal/product/service"
	"github.com/oldwares/curio/internal/product/store"
	"github.com/oldwares/curio/internal/product/transport/rest"
	"github.com/oldwares/curio/pkg/server"
	"github.com/oldwares/curio/pkg/web"
)

type Dependencies struct {
	ProductService service.ProductService
	ImageStore     imagestore.ImageStore
	AdminToken     string
	Logger         *slog.Logger
}

func SetupDependencies(dbPool *pgxpool.Pool, adminToken string, logger *slog.Logger) *Dependencies {
	pService := service.NewService(store.NewPgStore(dbPool))

	return &Dependencies{
		ProductService: pService,
		ImageStore:     imagestore.NewPgStore(dbPool),
		AdminToken:     adminToken,
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the router and routes for the storefront API.
// Used by handler tests to exercise the full middleware chain.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the storefront API.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	admin := web.AdminOnly(deps.AdminToken, deps.Logger)

	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux, admin)

	imageHandler := imagerest.NewHandler(deps.ImageStore, deps.Logger)
	imageHandler.RegisterRoutes(mux, admin)
}

// SetupHttpServer creates and configures the HTTP server for the storefront API.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
