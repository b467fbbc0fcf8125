package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/krishimitra/mandi-data/internal/model"
)

// StorageError wraps a storage-layer fault. Distinct from the source error
// taxonomy: it means the curated store itself is unavailable.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("curated store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Schema is the curated price table DDL. Applied on startup; records are
// append-only.
const Schema = `
CREATE TABLE IF NOT EXISTS curated_prices (
	id               uuid PRIMARY KEY,
	district         text NOT NULL,
	market           text NOT NULL,
	commodity        text NOT NULL,
	min_price        numeric(12,2) NOT NULL CHECK (min_price > 0),
	max_price        numeric(12,2) NOT NULL CHECK (max_price >= min_price),
	modal_price      numeric(12,2) NOT NULL CHECK (modal_price BETWEEN min_price AND max_price),
	arrival_quantity numeric(12,2) NOT NULL DEFAULT 0,
	price_date       date NOT NULL,
	contributor_id   uuid NOT NULL,
	inserted_at      timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS curated_prices_lookup
	ON curated_prices (commodity, district, price_date DESC);
`

// CuratedStore queries and writes curated price records.
type CuratedStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// New creates a CuratedStore on an existing pool.
func New(db *pgxpool.Pool, logger *slog.Logger) *CuratedStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CuratedStore{db: db, logger: logger}
}

// EnsureSchema creates the curated price table if it does not exist.
func (s *CuratedStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return &StorageError{Op: "ensure schema", Err: err}
	}
	return nil
}

const selectColumns = `
	id, district, market, commodity,
	min_price::text, max_price::text, modal_price::text, arrival_quantity::text,
	price_date, contributor_id, inserted_at`

// FindRecent returns curated records for a commodity and district observed
// within the last withinDays days, newest first, capped at 20. An empty
// slice (not an error) means no match.
func (s *CuratedStore) FindRecent(ctx context.Context, commodity, district string, withinDays int) ([]model.CuratedRecord, error) {
	query := `SELECT` + selectColumns + `
		FROM curated_prices
		WHERE commodity = $1 AND district = $2 AND price_date >= $3
		ORDER BY price_date DESC, inserted_at DESC
		LIMIT 20`
	return s.queryRecords(ctx, "find recent", query, commodity, district, cutoff(withinDays))
}

// History returns all curated records in the window, newest first and
// uncapped, for trend views.
func (s *CuratedStore) History(ctx context.Context, commodity, district string, withinDays int) ([]model.CuratedRecord, error) {
	query := `SELECT` + selectColumns + `
		FROM curated_prices
		WHERE commodity = $1 AND district = $2 AND price_date >= $3
		ORDER BY price_date DESC, inserted_at DESC`
	return s.queryRecords(ctx, "history", query, commodity, district, cutoff(withinDays))
}

// Insert persists a new manually entered observation. The record is
// validated before writing; a zero ID is assigned.
func (s *CuratedStore) Insert(ctx context.Context, rec model.CuratedRecord) (model.CuratedRecord, error) {
	if err := rec.Validate(); err != nil {
		return model.CuratedRecord{}, fmt.Errorf("invalid curated record: %w", err)
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.PriceDate = model.DateOnly(rec.PriceDate)

	_, err := s.db.Exec(ctx, `
		INSERT INTO curated_prices
			(id, district, market, commodity, min_price, max_price, modal_price,
			 arrival_quantity, price_date, contributor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.District, rec.Market, rec.Commodity,
		rec.MinPrice.String(), rec.MaxPrice.String(), rec.ModalPrice.String(),
		rec.ArrivalQuantity.String(), rec.PriceDate, rec.ContributorID,
	)
	if err != nil {
		return model.CuratedRecord{}, &StorageError{Op: "insert", Err: err}
	}

	s.logger.Info("curated record stored",
		"commodity", rec.Commodity,
		"district", rec.District,
		"market", rec.Market,
		"price_date", rec.PriceDate.Format("2006-01-02"),
	)
	return rec, nil
}

func (s *CuratedStore) queryRecords(ctx context.Context, op, query string, args ...any) ([]model.CuratedRecord, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	defer rows.Close()

	var records []model.CuratedRecord
	for rows.Next() {
		var (
			rec                      model.CuratedRecord
			minStr, maxStr, modalStr string
			arrivalStr               string
		)
		if err := rows.Scan(
			&rec.ID, &rec.District, &rec.Market, &rec.Commodity,
			&minStr, &maxStr, &modalStr, &arrivalStr,
			&rec.PriceDate, &rec.ContributorID, &rec.InsertedAt,
		); err != nil {
			return nil, &StorageError{Op: op + " scan", Err: err}
		}
		if rec.MinPrice, err = decimal.NewFromString(minStr); err != nil {
			return nil, &StorageError{Op: op + " parse min_price", Err: err}
		}
		if rec.MaxPrice, err = decimal.NewFromString(maxStr); err != nil {
			return nil, &StorageError{Op: op + " parse max_price", Err: err}
		}
		if rec.ModalPrice, err = decimal.NewFromString(modalStr); err != nil {
			return nil, &StorageError{Op: op + " parse modal_price", Err: err}
		}
		if rec.ArrivalQuantity, err = decimal.NewFromString(arrivalStr); err != nil {
			return nil, &StorageError{Op: op + " parse arrival_quantity", Err: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	return records, nil
}

func cutoff(withinDays int) time.Time {
	if withinDays < 1 {
		withinDays = 1
	}
	return model.DateOnly(time.Now().AddDate(0, 0, -withinDays))
}
