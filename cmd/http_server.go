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

	"github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/admin"
	adminpg "github.com/oba-canada/alumni-portal/internal/admin/postgres"
	"github.com/oba-canada/alumni-portal/internal/auth"
	"github.com/oba-canada/alumni-portal/internal/contact"
	contactpg "github.com/oba-canada/alumni-portal/internal/contact/postgres"
	"github.com/oba-canada/alumni-portal/internal/event"
	eventpg "github.com/oba-canada/alumni-portal/internal/event/postgres"
	memberpkg "github.com/oba-canada/alumni-portal/internal/member"
	memberpg "github.com/oba-canada/alumni-portal/internal/member/postgres"
	"github.com/oba-canada/alumni-portal/internal/membership"
	membershippg "github.com/oba-canada/alumni-portal/internal/membership/postgres"
	"github.com/oba-canada/alumni-portal/internal/news"
	newspg "github.com/oba-canada/alumni-portal/internal/news/postgres"
	"github.com/oba-canada/alumni-portal/internal/payment"
	paymentpg "github.com/oba-canada/alumni-portal/internal/payment/postgres"
	"github.com/oba-canada/alumni-portal/internal/paymentgateway"
	"github.com/oba-canada/alumni-portal/internal/store"
	storepg "github.com/oba-canada/alumni-portal/internal/store/postgres"
	"github.com/oba-canada/alumni-portal/internal/transport"
	"github.com/oba-canada/alumni-portal/internal/transport/rest"
	"github.com/oba-canada/alumni-portal/internal/volunteer"
	volunteerpg "github.com/oba-canada/alumni-portal/internal/volunteer/postgres"
	"github.com/oba-canada/alumni-portal/pkg/logger"

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
	Config   *internal.Config
	DB       *sqlx.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
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
		deps.Logger.Info("received signal, shutting down...", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm shares the pgx connection pool opened above.
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	handlers, err := buildHandlers(config, gormDB, appLogger)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Config:   config,
		Logger:   appLogger,
		DB:       db,
		Router:   chi.NewRouter(),
		Handlers: handlers,
	}, nil
}

func buildHandlers(config *internal.Config, gormDB *gorm.DB, appLogger *slog.Logger) (rest.Handlers, error) {
	base := transport.NewBaseHandler(appLogger)

	memberRepo := memberpg.NewMemberRepository(gormDB)
	membershipTypeRepo := membershippg.NewMembershipTypeRepository(gormDB)
	itemRepo := storepg.NewItemRepository(gormDB)
	txRepo := paymentpg.NewTransactionRepository(gormDB)
	eventRepo := eventpg.NewEventRepository(gormDB)
	newsRepo := newspg.NewNewsRepository(gormDB)
	volunteerRepo := volunteerpg.NewVolunteerRepository(gormDB)
	contactRepo := contactpg.NewContactRepository(gormDB)
	dashboardRepo := adminpg.NewDashboardRepository(gormDB)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(memberRepo, tokenGen, config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)

	donationMinimum, err := config.Donations.Minimum()
	if err != nil {
		return rest.Handlers{}, fmt.Errorf("invalid donation minimum: %w", err)
	}

	gateway := paymentgateway.NewStripeGateway(config.Stripe, appLogger)
	paymentService := payment.NewService(
		txRepo,
		gateway,
		memberRepo,
		membershipTypeRepo,
		itemRepo,
		payment.ServiceConfig{
			Currency:        config.Stripe.Currency,
			PublicBaseURL:   config.Stripe.PublicBaseURL,
			ShippingRegion:  config.Stripe.ShippingRegion,
			DonationMinimum: donationMinimum,
		},
		appLogger,
	)

	var webhookHandler *payment.WebhookHandler
	if config.Stripe.WebhookSecret != "" {
		webhookHandler = payment.NewWebhookHandler(base, paymentService, config.Stripe.WebhookSecret)
	} else {
		appLogger.Warn("stripe webhook secret not configured, webhook endpoint disabled")
	}

	return rest.Handlers{
		Auth:       authHandler,
		Member:     memberpkg.NewHandler(base, memberpkg.NewService(memberRepo, appLogger)),
		Membership: membership.NewHandler(base, membership.NewService(membershipTypeRepo, appLogger)),
		Store:      store.NewHandler(base, store.NewService(itemRepo, appLogger)),
		Event:      event.NewHandler(base, event.NewService(eventRepo, appLogger)),
		News:       news.NewHandler(base, news.NewService(newsRepo, appLogger)),
		Volunteer:  volunteer.NewHandler(base, volunteer.NewService(volunteerRepo, appLogger)),
		Contact:    contact.NewHandler(base, contact.NewService(contactRepo, appLogger)),
		Payment:    payment.NewHandler(base, paymentService),
		Webhook:    webhookHandler,
		Admin:      admin.NewHandler(base, admin.NewService(dashboardRepo, appLogger)),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
