// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"

	"fedscope/internal/adapter/storage"
	"fedscope/internal/client/aggregate"
	"fedscope/internal/config"
	"fedscope/internal/llm"
	"fedscope/internal/logging"
	"fedscope/internal/server"
	"fedscope/internal/service/ingest"
	"fedscope/internal/service/listening"
	"fedscope/internal/service/refresh"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.Init(cfg.Environment)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS, logger)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	// Initialize storage adapters
	trendStore := storage.NewTrendStore(db)
	statusStore := storage.NewStatusStore(db)
	accountStore := storage.NewAccountStore(db)
	instanceStore := storage.NewInstanceStore(db)

	// Initialize upstream clients
	aggregateClient := aggregate.NewClient(cfg.Aggregate.Endpoint, cfg.Aggregate.Token, cfg.Aggregate.RequestTimeout)
	catalogClient := aggregate.NewCatalog(cfg.Aggregate.CatalogURL, cfg.Aggregate.CatalogToken, cfg.Aggregate.RequestTimeout)

	gateway, err := llm.NewGateway(ctx, llm.Config{
		OpenAIKey:      cfg.LLM.OpenAIKey,
		OpenAIModel:    cfg.LLM.OpenAIModel,
		AnthropicKey:   cfg.LLM.AnthropicKey,
		AnthropicModel: cfg.LLM.AnthropicModel,
		GoogleKey:      cfg.LLM.GoogleKey,
		GeminiModel:    cfg.LLM.GeminiModel,
		TogetherKey:    cfg.LLM.TogetherKey,
		TogetherURL:    cfg.LLM.TogetherURL,
		LlamaModel:     cfg.LLM.LlamaModel,
	})
	if err != nil {
		log.Fatalf("Failed to initialize LLM gateway: %v", err)
	}
	defer gateway.Close()

	// Start the firehose listener
	listener := listening.NewListener(
		cfg.Listener,
		trendStore,
		statusStore,
		accountStore,
		aggregateClient,
		natsConn,
		logger,
	)
	go func() {
		if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("listener stopped", "error", err)
		}
	}()

	// Start the snapshot refresher
	refresher := refresh.NewRefresher(
		cfg.Refresh,
		aggregateClient,
		catalogClient,
		trendStore,
		instanceStore,
		logger,
	)
	if err := refresher.Start(ctx); err != nil {
		log.Fatalf("Failed to start refresher: %v", err)
	}
	defer refresher.Stop()

	// Start the Mastodon ingest bridge when credentials are configured
	if cfg.Mastodon.AccessToken != "" {
		bridge := ingest.NewBridge(cfg.Mastodon, cfg.Listener.Subject, natsConn, logger)
		go func() {
			if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("ingest bridge stopped", "error", err)
			}
		}()
	} else {
		logger.Info("no mastodon access token configured, ingest bridge disabled")
	}

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		server.Stores{
			Trends:    trendStore,
			Statuses:  statusStore,
			Accounts:  accountStore,
			Instances: instanceStore,
			Verdicts:  statusStore,
		},
		gateway,
		logger,
	)

	// Start HTTP server
	go func() {
		logger.Info("starting http server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info("shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server, then stop background work via the root context
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", "error", err)
	}
	cancel()

	logger.Info("shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, logger *slog.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("nats connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
