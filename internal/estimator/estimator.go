package estimator

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krishimitra/mandi-data/internal/catalog"
	"github.com/krishimitra/mandi-data/internal/model"
)

// days of synthetic history produced per market.
const days = 7

// variation half-width around the base band, in basis points (±10%).
const spreadBP = 1000

// Estimator derives plausible quotes from the static crop catalog.
type Estimator struct {
	now func() time.Time
}

// Option configures an Estimator.
type Option func(*Estimator)

// New creates an Estimator.
func New(opts ...Option) *Estimator {
	e := &Estimator{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Estimator) {
		e.now = now
	}
}

// Estimate produces one synthetic quote per known mandi in the district for
// each of the last 7 days. It never fails: unknown commodities use the
// default reference band and unknown districts get a single district-level
// market.
func (e *Estimator) Estimate(commodity, district string) []model.PriceQuote {
	name := commodity
	if canonical, ok := catalog.Canonical(commodity); ok {
		name = canonical
	}
	bandMin, bandMax := catalog.Band(commodity)

	markets := catalog.Mandis(district)
	if len(markets) == 0 {
		markets = []string{district + " Market"}
	}

	retrievedAt := e.now()
	today := model.DateOnly(retrievedAt)

	quotes := make([]model.PriceQuote, 0, len(markets)*days)
	for dayOffset := days - 1; dayOffset >= 0; dayOffset-- {
		date := today.AddDate(0, 0, -dayOffset)
		for _, market := range markets {
			quotes = append(quotes, synthesize(name, district, market, date, bandMin, bandMax, retrievedAt))
		}
	}
	return quotes
}

// synthesize builds one quote. All arithmetic is integer basis points so the
// result is exactly reproducible for a given (commodity, market, date).
func synthesize(commodity, district, market string, date time.Time, bandMin, bandMax int64, retrievedAt time.Time) model.PriceQuote {
	rng := rand.New(rand.NewSource(seed(commodity, market, date)))

	// Independent ±10% swings for each end of the band.
	minBP := 10000 + rng.Int63n(2*spreadBP+1) - spreadBP
	maxBP := 10000 + rng.Int63n(2*spreadBP+1) - spreadBP

	minPrice := decimal.NewFromInt(bandMin * minBP).Div(decimal.NewFromInt(10000))
	maxPrice := decimal.NewFromInt(bandMax * maxBP).Div(decimal.NewFromInt(10000))
	if maxPrice.LessThan(minPrice) {
		minPrice, maxPrice = maxPrice, minPrice
	}
	modal := minPrice.Add(maxPrice).Div(decimal.NewFromInt(2))

	return model.PriceQuote{
		Commodity:   commodity,
		District:    district,
		MarketName:  market,
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		ModalPrice:  modal,
		AsOfDate:    date,
		SourceTier:  model.TierSynthetic,
		RetrievedAt: retrievedAt,
	}
}

// seed hashes the (commodity, market, date) triple with FNV-1a. FNV is
// stable across processes, which maphash is not.
func seed(commodity, market string, date time.Time) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s", commodity, market, date.Format("2006-01-02"))
	return int64(h.Sum64())
}
