package watcher

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krishimitra/mandi-data/internal/model"
)

// fakeResolver returns a single quote with a fixed modal price per
// commodity, counting calls.
type fakeResolver struct {
	modal map[string]int64
	calls atomic.Int32
}

func (f *fakeResolver) Resolve(ctx context.Context, commodity, district string) []model.PriceQuote {
	f.calls.Add(1)
	modal, ok := f.modal[commodity]
	if !ok {
		modal = 2000
	}
	return []model.PriceQuote{{
		Commodity:   commodity,
		District:    district,
		MarketName:  district + " APMC",
		MinPrice:    decimal.NewFromInt(modal - 100),
		MaxPrice:    decimal.NewFromInt(modal + 100),
		ModalPrice:  decimal.NewFromInt(modal),
		AsOfDate:    model.DateOnly(time.Now()),
		SourceTier:  model.TierCurated,
		RetrievedAt: time.Now(),
	}}
}

func TestWatcher_CheckAll(t *testing.T) {
	res := &fakeResolver{modal: map[string]int64{
		"Onion": 1800, // above its 1500 target: fires
		"Wheat": 2200, // below its 2500 target: fires
		"Maize": 1900, // above its 1500 "below" target: silent
	}}

	entries := StaticEntries{
		{Commodity: "Onion", District: "Nashik", Target: decimal.NewFromInt(1500), Direction: model.AlertAbove},
		{Commodity: "Wheat", District: "Pune", Target: decimal.NewFromInt(2500), Direction: model.AlertBelow},
		{Commodity: "Maize", District: "Jalgaon", Target: decimal.NewFromInt(1500), Direction: model.AlertBelow},
	}

	var alertCount atomic.Int32
	handler := AlertHandlerFunc(func(a Alert) error {
		alertCount.Add(1)
		return nil
	})

	cfg := Config{
		Interval:    time.Hour, // Long interval, we'll trigger manually.
		Concurrency: 10,
		Timeout:     5 * time.Second,
	}

	w := New(cfg, res, entries, handler, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	w.ctx = ctx

	w.checkAll()

	if got := res.calls.Load(); got != 3 {
		t.Errorf("resolver calls = %d, want 3", got)
	}
	if got := alertCount.Load(); got != 2 {
		t.Errorf("alertCount = %d, want 2", got)
	}
}

func TestWatcher_StartStop(t *testing.T) {
	res := &fakeResolver{modal: map[string]int64{"Onion": 1800}}

	entries := StaticEntries{
		{Commodity: "Onion", District: "Nashik", Target: decimal.NewFromInt(1500), Direction: model.AlertAbove},
	}

	var called atomic.Bool
	handler := AlertHandlerFunc(func(a Alert) error {
		called.Store(true)
		return nil
	})

	cfg := Config{
		Interval:    100 * time.Millisecond,
		Concurrency: 4,
		Timeout:     5 * time.Second,
	}

	w := New(cfg, res, entries, handler, nil)

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Wait for at least one check.
	time.Sleep(150 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := w.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if !called.Load() {
		t.Error("handler was never called")
	}
}

func TestWatcher_Concurrency(t *testing.T) {
	var inFlight atomic.Int32
	var maxInFlight atomic.Int32

	res := &countingResolver{inFlight: &inFlight, maxInFlight: &maxInFlight}

	var entries StaticEntries
	for i := 0; i < 20; i++ {
		entries = append(entries, Entry{
			Commodity: "Onion",
			District:  "District-" + string(rune('A'+i)),
			Target:    decimal.NewFromInt(99999),
			Direction: model.AlertAbove,
		})
	}

	handler := AlertHandlerFunc(func(a Alert) error {
		return nil
	})

	cfg := Config{
		Interval:    time.Hour,
		Concurrency: 5, // Limit to 5 concurrent.
		Timeout:     5 * time.Second,
	}

	w := New(cfg, res, entries, handler, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	w.ctx = ctx

	w.checkAll()

	if got := maxInFlight.Load(); got > 5 {
		t.Errorf("maxInFlight = %d, want <= 5", got)
	}
}

// countingResolver tracks concurrent Resolve calls.
type countingResolver struct {
	inFlight    *atomic.Int32
	maxInFlight *atomic.Int32
}

func (c *countingResolver) Resolve(ctx context.Context, commodity, district string) []model.PriceQuote {
	current := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	// Track max concurrent resolutions.
	for {
		old := c.maxInFlight.Load()
		if current <= old || c.maxInFlight.CompareAndSwap(old, current) {
			break
		}
	}

	// Simulate some work.
	time.Sleep(50 * time.Millisecond)

	return []model.PriceQuote{{
		Commodity:   commodity,
		District:    district,
		MarketName:  district + " APMC",
		MinPrice:    decimal.NewFromInt(1500),
		MaxPrice:    decimal.NewFromInt(1700),
		ModalPrice:  decimal.NewFromInt(1600),
		AsOfDate:    model.DateOnly(time.Now()),
		SourceTier:  model.TierSynthetic,
		RetrievedAt: time.Now(),
	}}
}

func TestLatestPicksNewestQuote(t *testing.T) {
	old := model.PriceQuote{MarketName: "Old", AsOfDate: model.DateOnly(time.Now().AddDate(0, 0, -3))}
	mid := model.PriceQuote{MarketName: "Mid", AsOfDate: model.DateOnly(time.Now().AddDate(0, 0, -1))}
	newest := model.PriceQuote{MarketName: "New", AsOfDate: model.DateOnly(time.Now())}

	got := latest([]model.PriceQuote{mid, newest, old})
	if got.MarketName != "New" {
		t.Errorf("latest = %q, want %q", got.MarketName, "New")
	}
}
