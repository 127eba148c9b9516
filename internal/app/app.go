// Package app wires repositories, services, middleware, and the router
// into a runnable application.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"taskhub/internal/api"
	"taskhub/internal/config"
	"taskhub/internal/db/repository"
	"taskhub/internal/jobs"
	"taskhub/internal/middleware"
	"taskhub/internal/service"
)

// Deps holds the external dependencies that main() must provide: database
// handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// App is the fully wired application.
type App struct {
	Router  http.Handler
	Sweeper *jobs.OverdueSweeper

	Auth  *service.AuthService
	Users *service.UserService
	Tasks *service.TaskService
}

// New wires the application from the provided deps. OIDC discovery, when
// configured, performs network I/O and honours ctx.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	// Write-pool repositories serve the services; the authenticator gets a
	// read-pool repository since principal resolution is a pure lookup.
	userRepo := repository.NewUserRepo(deps.WriteDB)
	taskRepo := repository.NewTaskRepo(deps.WriteDB)
	resolverRepo := repository.NewUserRepo(deps.ReadDB)

	authSvc := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userSvc := service.NewUserService(userRepo)
	taskSvc := service.NewTaskService(taskRepo)

	var validator middleware.TokenValidator
	if cfg.Auth.OIDCEnabled() {
		v, err := middleware.NewOIDCValidator(ctx, cfg.Auth.IssuerURL, cfg.Auth.Audience)
		if err != nil {
			return nil, fmt.Errorf("configure oidc validator: %w", err)
		}
		validator = v
		deps.Logger.Info("token validation via external issuer", "issuer", cfg.Auth.IssuerURL)
	} else {
		validator = middleware.NewSharedSecretValidator(cfg.Auth.JWTSecret)
	}

	authn := middleware.Authenticator(validator, resolverRepo, deps.Logger.With("component", "authn"))
	handler := api.NewHandler(authSvc, userSvc, taskSvc, deps.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		}))
	}
	r.Mount("/api", handler.Routes(authn))

	sweeper := jobs.NewOverdueSweeper(taskRepo, cfg.OverdueSweepSchedule, deps.Logger)

	return &App{
		Router:  r,
		Sweeper: sweeper,
		Auth:    authSvc,
		Users:   userSvc,
		Tasks:   taskSvc,
	}, nil
}
