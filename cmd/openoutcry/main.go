package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/efreitasn/openoutcry/internal/config"
	"github.com/efreitasn/openoutcry/internal/domain"
	"github.com/efreitasn/openoutcry/internal/engine"
	"github.com/efreitasn/openoutcry/internal/handler"
	"github.com/efreitasn/openoutcry/internal/service"
	"github.com/efreitasn/openoutcry/internal/transport/ws"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	catalog, err := config.LoadCatalog(cfg.MarketsFile)
	if err != nil {
		slog.Error("failed to load market catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Messenger (the websocket connection table) first — sessions need it.
	table := ws.NewConnTable()

	// One session per catalog market.
	markets := engine.NewManager()
	for _, spec := range catalog.Markets {
		session := engine.NewSession(
			spec.ID,
			spec.Name,
			spec.TradeTimeout(cfg.TradeTimeout),
			domain.NewTermsMatcher(spec.IgnoreFields...),
			table,
			logger,
		)
		markets.Add(session)
		logger.Info("market ready",
			slog.String("market", spec.ID),
			slog.Duration("trade_timeout", session.TradeTimeout()),
		)
	}

	// Transport and services.
	wsServer := ws.NewServer(markets, table, logger)
	marketSvc := service.NewMarketService(markets)

	// Router.
	router := handler.NewRouter(marketSvc, wsServer.Handler(), cfg.RateLimit, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
