package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceTier identifies which pipeline stage produced a quote. Lower values
// are more trusted; the ordinal doubles as a confidence ranking.
type SourceTier int

const (
	TierCurated       SourceTier = iota // manually entered observation
	TierScraped                         // parsed from the statistics portal
	TierGovernmentAPI                   // government open-data endpoint
	TierSynthetic                       // deterministic estimate, last resort
)

// String returns the tier name for logging and display.
func (t SourceTier) String() string {
	switch t {
	case TierCurated:
		return "curated"
	case TierScraped:
		return "scraped"
	case TierGovernmentAPI:
		return "government_api"
	case TierSynthetic:
		return "synthetic"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// MoreTrustedThan reports whether t ranks above other in confidence.
func (t SourceTier) MoreTrustedThan(other SourceTier) bool {
	return t < other
}

// PriceQuote is the unit of pipeline output: one commodity price observation
// at one market (or district/state level) on one date.
type PriceQuote struct {
	Commodity   string          // Canonical catalog name (e.g. "Onion")
	District    string          // District the quote applies to
	MarketName  string          // APMC/mandi name; empty for state-wide quotes
	MinPrice    decimal.Decimal // Rupees per quintal
	MaxPrice    decimal.Decimal // Rupees per quintal
	ModalPrice  decimal.Decimal // Most frequently observed price
	AsOfDate    time.Time       // Date the quote represents (UTC midnight)
	SourceTier  SourceTier      // Provenance / confidence ranking
	RetrievedAt time.Time       // When the pipeline produced this quote
}

// Validate checks the price invariant: all prices positive and
// min <= modal <= max.
func (q PriceQuote) Validate() error {
	if q.Commodity == "" {
		return fmt.Errorf("quote missing commodity")
	}
	if !q.MinPrice.IsPositive() || !q.MaxPrice.IsPositive() || !q.ModalPrice.IsPositive() {
		return fmt.Errorf("quote prices must be positive (min=%s modal=%s max=%s)",
			q.MinPrice, q.ModalPrice, q.MaxPrice)
	}
	if q.MinPrice.GreaterThan(q.ModalPrice) || q.ModalPrice.GreaterThan(q.MaxPrice) {
		return fmt.Errorf("quote violates min <= modal <= max (min=%s modal=%s max=%s)",
			q.MinPrice, q.ModalPrice, q.MaxPrice)
	}
	return nil
}

// CuratedRecord is a persisted, manually entered price observation.
// Records are immutable once stored; newer records with the same
// (district, market, commodity) key supersede older ones.
type CuratedRecord struct {
	ID              uuid.UUID
	District        string
	Market          string
	Commodity       string
	MinPrice        decimal.Decimal
	MaxPrice        decimal.Decimal
	ModalPrice      decimal.Decimal
	ArrivalQuantity decimal.Decimal // Quintals arrived at the mandi that day
	PriceDate       time.Time       // Date the observation applies to (UTC midnight)
	ContributorID   uuid.UUID
	InsertedAt      time.Time
}

// Quote converts the record into a curated-tier PriceQuote.
func (r CuratedRecord) Quote(retrievedAt time.Time) PriceQuote {
	return PriceQuote{
		Commodity:   r.Commodity,
		District:    r.District,
		MarketName:  r.Market,
		MinPrice:    r.MinPrice,
		MaxPrice:    r.MaxPrice,
		ModalPrice:  r.ModalPrice,
		AsOfDate:    r.PriceDate,
		SourceTier:  TierCurated,
		RetrievedAt: retrievedAt,
	}
}

// Validate checks the record's price invariant before persistence.
func (r CuratedRecord) Validate() error {
	if r.Commodity == "" {
		return fmt.Errorf("record missing commodity")
	}
	if r.District == "" {
		return fmt.Errorf("record missing district")
	}
	if !r.MinPrice.IsPositive() || !r.MaxPrice.IsPositive() || !r.ModalPrice.IsPositive() {
		return fmt.Errorf("record prices must be positive (min=%s modal=%s max=%s)",
			r.MinPrice, r.ModalPrice, r.MaxPrice)
	}
	if r.MinPrice.GreaterThan(r.ModalPrice) || r.ModalPrice.GreaterThan(r.MaxPrice) {
		return fmt.Errorf("record violates min <= modal <= max (min=%s modal=%s max=%s)",
			r.MinPrice, r.ModalPrice, r.MaxPrice)
	}
	if r.ArrivalQuantity.IsNegative() {
		return fmt.Errorf("record arrival quantity cannot be negative (got %s)", r.ArrivalQuantity)
	}
	return nil
}

// AlertDirection selects which side of a target price triggers an alert.
type AlertDirection int

const (
	AlertAbove AlertDirection = iota // trigger when modal >= target
	AlertBelow                       // trigger when modal <= target
)

// String returns the direction name.
func (d AlertDirection) String() string {
	switch d {
	case AlertAbove:
		return "above"
	case AlertBelow:
		return "below"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// DateOnly truncates t to UTC midnight, the canonical AsOfDate form.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
