package resolver

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krishimitra/mandi-data/internal/model"
	"github.com/krishimitra/mandi-data/internal/source"
)

// CuratedSource is the curated-record store as the resolver sees it.
type CuratedSource interface {
	FindRecent(ctx context.Context, commodity, district string, withinDays int) ([]model.CuratedRecord, error)
	History(ctx context.Context, commodity, district string, withinDays int) ([]model.CuratedRecord, error)
}

// MarketAPISource is the government open-data client.
type MarketAPISource interface {
	FetchPrices(ctx context.Context, state, district, commodity string) ([]model.PriceQuote, *source.QueryError)
}

// ScrapeSource is the statistics-portal scrape client.
type ScrapeSource interface {
	FetchPrices(ctx context.Context, commodity, district string) ([]model.PriceQuote, *source.QueryError)
}

// SyntheticSource is the terminal fallback. It never fails.
type SyntheticSource interface {
	Estimate(commodity, district string) []model.PriceQuote
}

// Config holds resolution policy settings.
type Config struct {
	State         string        // state passed to the market API
	LookbackDays  int           // curated-store query window (default: 30)
	SourceTimeout time.Duration // per-source deadline for live calls (default: 15s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		State:         "Maharashtra",
		LookbackDays:  30,
		SourceTimeout: 15 * time.Second,
	}
}

// SourceFailure records one source's error during a resolution, for
// diagnostics. Failures never abort the chain.
type SourceFailure struct {
	Tier model.SourceTier
	Err  error
}

// Resolver walks the source chain for each resolution call.
type Resolver struct {
	cfg       Config
	store     CuratedSource
	api       MarketAPISource
	scraper   ScrapeSource
	estimator SyntheticSource
	logger    *slog.Logger
}

// New creates a Resolver.
func New(cfg Config, store CuratedSource, api MarketAPISource, scraper ScrapeSource, estimator SyntheticSource, logger *slog.Logger) *Resolver {
	if cfg.LookbackDays == 0 {
		cfg.LookbackDays = DefaultConfig().LookbackDays
	}
	if cfg.SourceTimeout == 0 {
		cfg.SourceTimeout = DefaultConfig().SourceTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		cfg:       cfg,
		store:     store,
		api:       api,
		scraper:   scraper,
		estimator: estimator,
		logger:    logger,
	}
}

// Resolve returns the best available quotes for a commodity and district.
// The result is never empty; its tier discloses which source produced it.
func (r *Resolver) Resolve(ctx context.Context, commodity, district string) []model.PriceQuote {
	quotes, _ := r.ResolveDetailed(ctx, commodity, district)
	return quotes
}

// ResolveDetailed is Resolve plus the per-source failures encountered on
// the way down the chain.
func (r *Resolver) ResolveDetailed(ctx context.Context, commodity, district string) ([]model.PriceQuote, []SourceFailure) {
	var failures []SourceFailure

	// 1. Curated store: the most reliable source. A storage fault is the
	// local system's problem, not the farmer's; log it and fall through.
	records, err := r.store.FindRecent(ctx, commodity, district, r.cfg.LookbackDays)
	if err != nil {
		r.logger.Error("curated store unavailable",
			"commodity", commodity,
			"district", district,
			"err", err,
		)
		failures = append(failures, SourceFailure{Tier: model.TierCurated, Err: err})
	} else if len(records) > 0 {
		retrievedAt := time.Now()
		quotes := make([]model.PriceQuote, len(records))
		for i, rec := range records {
			quotes[i] = rec.Quote(retrievedAt)
		}
		r.logResolved(commodity, district, model.TierCurated, len(quotes))
		return quotes, failures
	}

	// 2. Government API.
	quotes, qerr := r.fetchAPI(ctx, commodity, district)
	if qerr != nil {
		failures = append(failures, SourceFailure{Tier: model.TierGovernmentAPI, Err: qerr})
		r.logSourceMiss(commodity, district, model.TierGovernmentAPI, qerr)
	} else if len(quotes) > 0 {
		r.logResolved(commodity, district, model.TierGovernmentAPI, len(quotes))
		return quotes, failures
	}

	// 3. Scrape.
	quotes, qerr = r.fetchScrape(ctx, commodity, district)
	if qerr != nil {
		failures = append(failures, SourceFailure{Tier: model.TierScraped, Err: qerr})
		r.logSourceMiss(commodity, district, model.TierScraped, qerr)
	} else if len(quotes) > 0 {
		r.logResolved(commodity, district, model.TierScraped, len(quotes))
		return quotes, failures
	}

	// 4. Synthetic estimate: unconditional.
	quotes = r.estimator.Estimate(commodity, district)
	r.logResolved(commodity, district, model.TierSynthetic, len(quotes))
	return quotes, failures
}

func (r *Resolver) fetchAPI(ctx context.Context, commodity, district string) ([]model.PriceQuote, *source.QueryError) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.SourceTimeout)
	defer cancel()
	return r.api.FetchPrices(ctx, r.cfg.State, district, commodity)
}

func (r *Resolver) fetchScrape(ctx context.Context, commodity, district string) ([]model.PriceQuote, *source.QueryError) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.SourceTimeout)
	defer cancel()
	return r.scraper.FetchPrices(ctx, commodity, district)
}

// GetTrend returns quotes for charting, ascending by date. Curated history
// is merged with a resolve pass; where both cover the same (market, date)
// the more trusted tier wins.
func (r *Resolver) GetTrend(ctx context.Context, commodity, district string, lookbackDays int) []model.PriceQuote {
	if lookbackDays < 1 {
		lookbackDays = r.cfg.LookbackDays
	}

	type key struct {
		market string
		date   time.Time
	}
	best := make(map[key]model.PriceQuote)

	add := func(quotes []model.PriceQuote) {
		for _, q := range quotes {
			k := key{market: q.MarketName, date: q.AsOfDate}
			if existing, ok := best[k]; !ok || q.SourceTier.MoreTrustedThan(existing.SourceTier) {
				best[k] = q
			}
		}
	}

	records, err := r.store.History(ctx, commodity, district, lookbackDays)
	if err != nil {
		r.logger.Error("curated history unavailable",
			"commodity", commodity,
			"district", district,
			"err", err,
		)
	} else {
		retrievedAt := time.Now()
		history := make([]model.PriceQuote, len(records))
		for i, rec := range records {
			history[i] = rec.Quote(retrievedAt)
		}
		add(history)
	}

	add(r.Resolve(ctx, commodity, district))

	trend := make([]model.PriceQuote, 0, len(best))
	for _, q := range best {
		trend = append(trend, q)
	}
	sort.Slice(trend, func(i, j int) bool {
		if !trend[i].AsOfDate.Equal(trend[j].AsOfDate) {
			return trend[i].AsOfDate.Before(trend[j].AsOfDate)
		}
		return trend[i].MarketName < trend[j].MarketName
	})
	return trend
}

// EvaluateAlert reports whether a quote's modal price crosses the target in
// the given direction.
func EvaluateAlert(quote model.PriceQuote, target decimal.Decimal, direction model.AlertDirection) bool {
	switch direction {
	case model.AlertAbove:
		return quote.ModalPrice.GreaterThanOrEqual(target)
	case model.AlertBelow:
		return quote.ModalPrice.LessThanOrEqual(target)
	default:
		return false
	}
}

func (r *Resolver) logResolved(commodity, district string, tier model.SourceTier, count int) {
	r.logger.Info("price resolved",
		"commodity", commodity,
		"district", district,
		"tier", tier.String(),
		"quotes", count,
	)
}

func (r *Resolver) logSourceMiss(commodity, district string, tier model.SourceTier, qerr *source.QueryError) {
	level := slog.LevelWarn
	if qerr.Healthy() {
		level = slog.LevelDebug
	}
	r.logger.Log(context.Background(), level, "source yielded nothing",
		"commodity", commodity,
		"district", district,
		"tier", tier.String(),
		"kind", qerr.Kind.String(),
		"err", qerr,
	)
}
