package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hendrawanp/pos-management/internal"
	"github.com/hendrawanp/pos-management/internal/auth"
	authpostgres "github.com/hendrawanp/pos-management/internal/auth/postgres"
	"github.com/hendrawanp/pos-management/internal/core/events"
	"github.com/hendrawanp/pos-management/internal/mailer"
	"github.com/hendrawanp/pos-management/internal/tenant"
	tenantpostgres "github.com/hendrawanp/pos-management/internal/tenant/postgres"
	"github.com/hendrawanp/pos-management/internal/transport/rest"
	"github.com/hendrawanp/pos-management/internal/user"
	userpostgres "github.com/hendrawanp/pos-management/internal/user/postgres"
	"github.com/hendrawanp/pos-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger

	AuthHandler    *auth.Handler
	RBAC           *auth.RBACAuthorization
	TenantResolver *tenant.Resolver
	UserHandler    *user.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(deps.Router, rest.RouterDeps{
		Config:         deps.Config,
		DB:             deps.DB.DB,
		AuthHandler:    deps.AuthHandler,
		RBAC:           deps.RBAC,
		TenantResolver: deps.TenantResolver,
		UserHandler:    deps.UserHandler,
		Logger:         deps.Logger,
	})
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Environment, config.Observability.Logging.Level)
	log := logger.LoggerWrapper()

	db, gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	bus := events.NewEventBus(log)
	registerMailSubscriber(bus, config, log)

	userRepo := authpostgres.NewUserRepository(gormDB)
	tokenRepo := authpostgres.NewTokenRepository(gormDB)
	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.AccessTokenTTL())

	authService := auth.NewService(
		userRepo,
		tokenRepo,
		tokenGen,
		bus,
		log,
		config.Security.BCryptCost,
		config.Security.RefreshTokenTTL(),
		config.Security.ResetTokenTTL(),
	)
	authHandler := auth.NewHandler(
		authService,
		config.Security.CookieName(),
		config.Security.RefreshTokenTTL(),
		config.IsProduction(),
	)
	rbac := auth.NewRBACAuthorization(log, config.IsProduction())

	tenantResolver := tenant.NewResolver(tenantpostgres.NewRepository(gormDB), log)

	userService := user.NewService(userpostgres.NewRepository(gormDB))
	userHandler := user.NewHandler(userService)

	return &Dependencies{
		Config:         config,
		DB:             db,
		Router:         chi.NewRouter(),
		Logger:         log,
		AuthHandler:    authHandler,
		RBAC:           rbac,
		TenantResolver: tenantResolver,
		UserHandler:    userHandler,
	}, nil
}

// registerMailSubscriber wires password-reset mail onto the event bus so a
// slow SMTP server never delays the HTTP response.
func registerMailSubscriber(bus *events.EventBus, cfg *internal.Config, log *slog.Logger) {
	if cfg.Mail.Host == "" {
		log.Warn("mail host not configured, password reset mail disabled")
		return
	}

	client := mailer.NewSMTP(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.FromAddress)
	resetTTL := cfg.Security.ResetTokenTTL()

	bus.Subscribe(events.EventPasswordResetRequested, func(ctx context.Context, event events.Event) error {
		data, ok := event.Payload().(map[string]interface{})
		if !ok {
			return fmt.Errorf("unexpected payload for event %s", event.EventID())
		}

		email, _ := data["email"].(string)
		name, _ := data["name"].(string)
		token, _ := data["token"].(string)
		if email == "" || token == "" {
			return fmt.Errorf("incomplete reset payload for event %s", event.EventID())
		}

		return client.Send(mailer.ResetPasswordTemplate, name, email, map[string]any{
			"Username":  name,
			"ResetURL":  fmt.Sprintf("%s/reset-password?token=%s", cfg.Mail.FrontendURL, token),
			"ExpiresIn": fmt.Sprintf("%d minutes", int(resetTTL.Minutes())),
		})
	})
}

// initDB opens a single pgx connection pool and hands the same pool to both
// sqlx (health checks, raw queries) and gorm (repositories).
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: dbConn.DB}), &gorm.Config{})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return dbConn, gormDB, nil
}
