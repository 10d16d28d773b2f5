package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/arenaretail/pos/internal"
	"github.com/arenaretail/pos/internal/auth"
	"github.com/arenaretail/pos/internal/events"
	"github.com/arenaretail/pos/internal/handler"
	"github.com/arenaretail/pos/internal/middleware"
	"github.com/arenaretail/pos/internal/pos"
	"github.com/arenaretail/pos/internal/postgres"
	"github.com/arenaretail/pos/internal/receipt"
	"github.com/arenaretail/pos/internal/router"
	"github.com/arenaretail/pos/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)

	// Sale event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATS.Enabled {
		logger.Info("Connecting to NATS...", "url", cfg.NATS.URL)
		natsPub, err := events.Connect(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			return fmt.Errorf("failed to connect to nats: %w", err)
		}
		defer natsPub.Close()
		publisher = natsPub
		logger.Info("NATS connected", "subject", cfg.NATS.Subject)
	}

	// Receipt printer writes to stdout; a real terminal points the sink at
	// its printer device.
	printer := &receipt.Printer{
		Info: receipt.StoreInfo{
			Name:         cfg.Store.Name,
			AddressLines: cfg.Store.AddressLines,
			Phone:        cfg.Store.Phone,
			Currency:     cfg.Store.Currency,
		},
		Sink: receipt.WriterSink{W: os.Stdout},
	}

	// Initialize services
	orderService := service.NewOrderService(store, store, publisher, printer, logger)
	registry := pos.NewRegistry()

	// Initialize handlers
	verifier := auth.NewVerifier(cfg.SessionSecret)
	metrics := middleware.NewMetrics("pos")

	posHandler := handler.NewPOSHandler(registry, store, orderService, metrics, logger)
	catalogHandler := handler.NewCatalogHandler(store, store, logger)
	reportsHandler := handler.NewReportsHandler(orderService, logger)
	webhookHandler := handler.NewWebhookHandler(store, cfg.WebhookSecret, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		router.CORS(cfg.CORSOrigins),
		router.Logger(logger),
	)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes carry the cashier identity when a token is present
	api := r.Group(middleware.Identity(verifier, logger))

	api.Get("/api/cart", posHandler.GetCart)
	api.Delete("/api/cart", posHandler.ClearCart)
	api.Post("/api/cart/items", posHandler.AddItem)
	api.Delete("/api/cart/items/{index}", posHandler.RemoveItem)
	api.Put("/api/cart/customer", posHandler.SetCustomer)
	api.Post("/api/checkout", posHandler.Checkout)

	api.Get("/api/categories", catalogHandler.ListCategories)
	api.Post("/api/categories", catalogHandler.CreateCategory)
	api.Put("/api/categories/{id}", catalogHandler.RenameCategory)
	api.Delete("/api/categories/{id}", catalogHandler.DeleteCategory)

	api.Get("/api/products", catalogHandler.ListProducts)
	api.Post("/api/products", catalogHandler.CreateProduct)
	api.Get("/api/products/{id}", catalogHandler.GetProduct)
	api.Put("/api/products/{id}", catalogHandler.UpdateProduct)
	api.Delete("/api/products/{id}", catalogHandler.DeleteProduct)

	api.Get("/api/orders", reportsHandler.ListOrders)
	api.Get("/api/orders/{id}", reportsHandler.GetOrder)
	api.Get("/api/orders/{id}/receipt", reportsHandler.GetReceipt)
	api.Get("/api/reports/summary", reportsHandler.Summary)

	// Webhooks authenticate with an HMAC signature, not a bearer token
	r.Post("/webhooks/identity", webhookHandler.SyncIdentity)

	// ==========================================================================
	// Start server
	// ==========================================================================

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
