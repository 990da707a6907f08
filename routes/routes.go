package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/rest-api-modernized/app"
	"github.com/upb/rest-api-modernized/handlers"
	"github.com/upb/rest-api-modernized/middleware"
	"github.com/upb/rest-api-modernized/oidc"
	"github.com/upb/rest-api-modernized/services"
	"github.com/upb/rest-api-modernized/utils"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 60 * time.Second

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Problem responses for unmatched routes; set first so mounted subrouters inherit them
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, r, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteProblem(w, r, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger, deps.Metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout(cfg.Server.RequestTimeout)))

	// CORS middleware, only when origins are configured
	if cfg.CORS.Enabled() {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	info := handlers.NewInfoHandler(cfg.App, logger)
	health := handlers.NewHealthHandler(healthChecker(deps), logger)

	// Health check endpoints
	r.Get("/", info.HandleRoot)
	r.Get("/health", health.HandleHealth)
	r.Get("/health/ready", health.HandleReadiness)

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	prefix := cfg.App.APIPrefix
	if prefix == "" {
		r.Group(func(r chi.Router) {
			apiRoutes(r, deps, info, health, logger, false)
		})
	} else {
		r.Route(prefix, func(r chi.Router) {
			apiRoutes(r, deps, info, health, logger, true)
		})
	}

	return r
}

// apiRoutes registers the prefixed API. withIndex is false when the API shares
// the root with the service index.
func apiRoutes(r chi.Router, deps *app.Dependencies, info *handlers.InfoHandler, health *handlers.HealthHandler, logger *zap.Logger, withIndex bool) {
	auth := authMiddleware(deps, logger)
	requireAdmin := auth.Require(services.AdminRoles...)

	// Public routes
	if withIndex {
		r.Get("/", info.HandleAPIRoot)
		r.Get("/health", health.HandleHealth)
	}
	r.Get("/info", info.HandleInfo)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Get("/protected", info.HandleProtected)
		r.With(requireAdmin).Get("/protected/admin", info.HandleProtectedAdmin)

		projects := handlers.NewProjectHandler(deps.Projects, logger)
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projects.HandleList)
			r.With(requireAdmin).Post("/", projects.HandleCreate)
			r.Get("/{id}", projects.HandleGet)
			r.With(requireAdmin).Patch("/{id}", projects.HandleUpdate)
			r.With(requireAdmin).Delete("/{id}", projects.HandleDelete)
		})

		tasks := handlers.NewTaskHandler(deps.Tasks, logger)
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", tasks.HandleList)
			r.Post("/", tasks.HandleCreate)
			r.Get("/{id}", tasks.HandleGet)
			r.Patch("/{id}", tasks.HandleUpdate)
			r.With(requireAdmin).Delete("/{id}", tasks.HandleDelete)
		})

		vulns := handlers.NewVulnerabilityHandler(deps.Vulnerabilities, logger)
		r.Route("/vulnerabilities", func(r chi.Router) {
			r.Get("/", vulns.HandleList)
			r.Post("/", vulns.HandleCreate)
			r.Get("/{id}", vulns.HandleGet)
			r.Patch("/{id}", vulns.HandleUpdate)
			r.With(requireAdmin).Delete("/{id}", vulns.HandleDelete)
		})
	})
}

// authMiddleware falls back to an unconfigured verifier, which answers every
// protected request with a configuration error.
func authMiddleware(deps *app.Dependencies, logger *zap.Logger) *middleware.AuthMiddleware {
	if deps.AuthMiddleware != nil {
		return deps.AuthMiddleware
	}
	logger.Warn("auth middleware not wired, protected routes will fail")
	verifier := oidc.NewProvider(oidc.Config{}, logger).Verifier
	return middleware.NewAuthMiddleware(verifier, deps.Metrics, logger)
}

func healthChecker(deps *app.Dependencies) handlers.HealthChecker {
	if deps.DB == nil {
		return nil
	}
	return deps.DB
}

func requestTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultRequestTimeout
	}
	return d
}
