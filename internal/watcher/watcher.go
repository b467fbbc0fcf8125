package watcher

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krishimitra/mandi-data/internal/model"
	"github.com/krishimitra/mandi-data/internal/resolver"
)

// Entry is one standing price watch.
type Entry struct {
	Commodity string
	District  string
	Target    decimal.Decimal
	Direction model.AlertDirection
}

// EntrySource provides the watches to check each cycle.
type EntrySource interface {
	WatchEntries() []Entry
}

// StaticEntries is an EntrySource over a fixed list.
type StaticEntries []Entry

func (s StaticEntries) WatchEntries() []Entry {
	return s
}

// PriceResolver resolves quotes for a watch entry.
type PriceResolver interface {
	Resolve(ctx context.Context, commodity, district string) []model.PriceQuote
}

// Alert pairs a triggered entry with the quote that crossed its target.
type Alert struct {
	Entry Entry
	Quote model.PriceQuote
}

// AlertHandler receives triggered alerts.
type AlertHandler interface {
	HandleAlert(alert Alert) error
}

// AlertHandlerFunc is a function adapter for AlertHandler.
type AlertHandlerFunc func(Alert) error

func (f AlertHandlerFunc) HandleAlert(a Alert) error {
	return f(a)
}

// Config holds watcher configuration.
type Config struct {
	Interval    time.Duration // Check interval (default: 30m)
	Concurrency int           // Max concurrent resolutions (default: 4)
	Timeout     time.Duration // Per-entry timeout (default: 15s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    30 * time.Minute,
		Concurrency: 4,
		Timeout:     15 * time.Second,
	}
}

// Watcher periodically resolves watched prices and fires alerts.
type Watcher struct {
	cfg      Config
	resolver PriceResolver
	entries  EntrySource
	handler  AlertHandler
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Watcher.
func New(cfg Config, res PriceResolver, entries EntrySource, handler AlertHandler, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		cfg:      cfg,
		resolver: res,
		entries:  entries,
		handler:  handler,
		logger:   logger,
	}
}

// Start begins the watch loop.
func (w *Watcher) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.run()

	w.logger.Info("price watcher started",
		"interval", w.cfg.Interval,
		"concurrency", w.cfg.Concurrency,
	)

	return nil
}

// Stop gracefully shuts down the watcher.
func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("price watcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main watch loop.
func (w *Watcher) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	// Check immediately on start.
	w.checkAll()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.checkAll()
		}
	}
}

// checkAll resolves every watch entry concurrently.
func (w *Watcher) checkAll() {
	start := time.Now()

	entries := w.entries.WatchEntries()
	if len(entries) == 0 {
		w.logger.Debug("no watch entries to check")
		return
	}

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, w.cfg.Concurrency)
	var wg sync.WaitGroup
	var checked, triggered, errors atomic.Int64

	for _, entry := range entries {
		wg.Add(1)
		go func(entry Entry) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-w.ctx.Done():
				return
			}

			fired, err := w.checkEntry(entry)
			if err != nil {
				w.logger.Warn("failed to check watch entry",
					"commodity", entry.Commodity,
					"district", entry.District,
					"err", err,
				)
				errors.Add(1)
				return
			}

			checked.Add(1)
			if fired {
				triggered.Add(1)
			}
		}(entry)
	}

	wg.Wait()

	w.logger.Info("watch cycle complete",
		"entries", len(entries),
		"checked", checked.Load(),
		"triggered", triggered.Load(),
		"errors", errors.Load(),
		"duration", time.Since(start),
	)
}

// checkEntry resolves one entry and fires its alert if the latest quote
// crosses the target.
func (w *Watcher) checkEntry(entry Entry) (bool, error) {
	ctx, cancel := context.WithTimeout(w.ctx, w.cfg.Timeout)
	defer cancel()

	quotes := w.resolver.Resolve(ctx, entry.Commodity, entry.District)
	if len(quotes) == 0 {
		return false, nil
	}

	quote := latest(quotes)
	if !resolver.EvaluateAlert(quote, entry.Target, entry.Direction) {
		return false, nil
	}

	w.logger.Info("price alert triggered",
		"commodity", entry.Commodity,
		"district", entry.District,
		"market", quote.MarketName,
		"modal", quote.ModalPrice,
		"target", entry.Target,
		"direction", entry.Direction,
		"tier", quote.SourceTier.String(),
	)

	if w.handler != nil {
		if err := w.handler.HandleAlert(Alert{Entry: entry, Quote: quote}); err != nil {
			return true, err
		}
	}

	return true, nil
}

// latest picks the quote with the newest as-of date. Sources disagree on
// ordering, so scan rather than assume.
func latest(quotes []model.PriceQuote) model.PriceQuote {
	best := quotes[0]
	for _, q := range quotes[1:] {
		if q.AsOfDate.After(best.AsOfDate) {
			best = q
		}
	}
	return best
}
