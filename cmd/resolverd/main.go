package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/krishimitra/mandi-data/internal/config"
	"github.com/krishimitra/mandi-data/internal/database"
	"github.com/krishimitra/mandi-data/internal/estimator"
	"github.com/krishimitra/mandi-data/internal/govapi"
	"github.com/krishimitra/mandi-data/internal/model"
	"github.com/krishimitra/mandi-data/internal/resolver"
	"github.com/krishimitra/mandi-data/internal/scrape"
	"github.com/krishimitra/mandi-data/internal/store"
	"github.com/krishimitra/mandi-data/internal/version"
	"github.com/krishimitra/mandi-data/internal/watcher"
)

func main() {
	configPath := flag.String("config", "configs/resolver.local.yaml", "path to config file")
	listenAddr := flag.String("listen", ":8080", "address for the HTTP API")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting resolver",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.MarketAPI.BaseURL,
		"state", cfg.Resolver.State,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	curated := store.New(pool, logger)
	if err := curated.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	logger.Info("database connected")

	// Build the source chain
	apiClient := govapi.NewClient(
		cfg.MarketAPI.BaseURL,
		cfg.MarketAPI.APIKey,
		govapi.WithLogger(logger),
		govapi.WithTimeout(cfg.MarketAPI.Timeout),
		govapi.WithPageSize(cfg.MarketAPI.PageSize),
		govapi.WithResultCap(cfg.MarketAPI.ResultCap),
	)

	scrapeClient := scrape.NewClient(
		cfg.Scrape.BaseURL,
		cfg.Scrape.Path,
		scrape.WithLogger(logger),
		scrape.WithTimeout(cfg.Scrape.Timeout),
		scrape.WithCooldown(cfg.Scrape.Cooldown),
		scrape.WithUserAgent(cfg.Scrape.UserAgent),
	)

	res := resolver.New(
		resolver.Config{
			State:         cfg.Resolver.State,
			LookbackDays:  cfg.Resolver.LookbackDays,
			SourceTimeout: cfg.Scrape.Timeout,
		},
		curated,
		apiClient,
		scrapeClient,
		estimator.New(),
		logger,
	)

	// Start HTTP API
	server := &http.Server{
		Addr:    *listenAddr,
		Handler: createHandler(pool, res, logger),
	}

	go func() {
		logger.Info("starting http server", "addr", *listenAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the alert watcher
	w := watcher.New(
		watcher.Config{
			Interval:    cfg.Watcher.Interval,
			Concurrency: cfg.Watcher.Concurrency,
			Timeout:     cfg.Scrape.Timeout,
		},
		res,
		watcher.StaticEntries(buildWatchlist(cfg.Watcher.Watchlist)),
		watcher.AlertHandlerFunc(func(a watcher.Alert) error {
			logger.Warn("price alert",
				"commodity", a.Entry.Commodity,
				"district", a.Entry.District,
				"market", a.Quote.MarketName,
				"modal", a.Quote.ModalPrice,
				"target", a.Entry.Target,
				"direction", a.Entry.Direction,
			)
			return nil
		}),
		logger,
	)

	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	logger.Info("resolver running",
		"instance_id", cfg.Instance.ID,
		"watchlist", len(cfg.Watcher.Watchlist),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
	w.Stop(shutdownCtx)

	logger.Info("resolver stopped")
}

// buildWatchlist converts configured watch entries to watcher entries.
func buildWatchlist(entries []config.WatchEntry) []watcher.Entry {
	out := make([]watcher.Entry, 0, len(entries))
	for _, e := range entries {
		direction := model.AlertAbove
		if e.Direction == "below" {
			direction = model.AlertBelow
		}
		out = append(out, watcher.Entry{
			Commodity: e.Commodity,
			District:  e.District,
			Target:    decimal.NewFromFloat(e.Target),
			Direction: direction,
		})
	}
	return out
}

// createHandler creates the HTTP handler for the dashboard API.
func createHandler(pool *pgxpool.Pool, res *resolver.Resolver, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}

		// Check database
		if err := pool.Ping(ctx); err != nil {
			health.Status = "degraded"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/prices", func(w http.ResponseWriter, r *http.Request) {
		commodity := r.URL.Query().Get("commodity")
		district := r.URL.Query().Get("district")
		if commodity == "" || district == "" {
			http.Error(w, "commodity and district are required", http.StatusBadRequest)
			return
		}

		quotes := res.Resolve(r.Context(), commodity, district)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"commodity": commodity,
			"district":  district,
			"tier":      quotes[0].SourceTier.String(),
			"quotes":    quotes,
		})
	})

	mux.HandleFunc("/trend", func(w http.ResponseWriter, r *http.Request) {
		commodity := r.URL.Query().Get("commodity")
		district := r.URL.Query().Get("district")
		if commodity == "" || district == "" {
			http.Error(w, "commodity and district are required", http.StatusBadRequest)
			return
		}

		days := 0
		if v := r.URL.Query().Get("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				http.Error(w, "days must be a positive integer", http.StatusBadRequest)
				return
			}
			days = n
		}

		trend := res.GetTrend(r.Context(), commodity, district, days)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"commodity": commodity,
			"district":  district,
			"points":    trend,
		})
	})

	return mux
}
