package govapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krishimitra/mandi-data/internal/catalog"
	"github.com/krishimitra/mandi-data/internal/model"
	"github.com/krishimitra/mandi-data/internal/source"
)

// apiResponse is the envelope returned by the resource endpoint.
type apiResponse struct {
	Records []apiRecord `json:"records"`
}

// apiRecord is one raw row. Every field arrives as a string.
type apiRecord struct {
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	Variety     string `json:"variety"`
	ArrivalDate string `json:"arrival_date"` // DD/MM/YYYY
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	ModalPrice  string `json:"modal_price"`
}

// FetchPrices queries the mandi price resource for a state/district/commodity
// and returns normalized quotes, newest first, capped at the configured
// result limit. Failures come back as a typed *source.QueryError; the method
// never panics past its boundary.
func (c *Client) FetchPrices(ctx context.Context, state, district, commodity string) ([]model.PriceQuote, *source.QueryError) {
	if c.apiKey == "" {
		// No key at all: skip the source without a network call.
		return nil, source.MissingCredential(sourceName)
	}

	query := url.Values{}
	query.Set("api-key", c.apiKey)
	query.Set("format", "json")
	query.Set("limit", strconv.Itoa(c.pageSize))
	if state != "" {
		query.Set("filters[state]", state)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, source.ParseFailure(sourceName, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, source.FromTransport(sourceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, source.FromStatus(sourceName, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, source.FromTransport(sourceName, err)
	}

	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, source.ParseFailure(sourceName, err)
	}
	if len(payload.Records) == 0 {
		return nil, source.NoData(sourceName)
	}

	rows := applyFilters(payload.Records, district, commodity)
	if len(rows) == 0 {
		return nil, source.NoData(sourceName)
	}

	quotes := c.normalize(rows, district)
	if len(quotes) == 0 {
		// Rows survived filtering but none parsed cleanly.
		return nil, source.NoData(sourceName)
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].AsOfDate.After(quotes[j].AsOfDate)
	})
	if len(quotes) > c.resultCap {
		quotes = quotes[:c.resultCap]
	}

	c.logger.Debug("market api quotes fetched",
		"commodity", commodity,
		"district", district,
		"rows", len(payload.Records),
		"quotes", len(quotes),
	)
	return quotes, nil
}

// normalize maps surviving raw rows to validated quotes. Malformed rows are
// treated as absent, never as a failure.
func (c *Client) normalize(rows []apiRecord, requestedDistrict string) []model.PriceQuote {
	retrievedAt := time.Now()
	quotes := make([]model.PriceQuote, 0, len(rows))
	for _, row := range rows {
		q, ok := rowToQuote(row, retrievedAt)
		if !ok {
			c.logger.Debug("dropping malformed api row",
				"market", row.Market,
				"arrival_date", row.ArrivalDate,
			)
			continue
		}
		if q.District == "" {
			q.District = requestedDistrict
		}
		quotes = append(quotes, q)
	}
	return quotes
}

func rowToQuote(row apiRecord, retrievedAt time.Time) (model.PriceQuote, bool) {
	minP, err := decimal.NewFromString(strings.TrimSpace(row.MinPrice))
	if err != nil {
		return model.PriceQuote{}, false
	}
	maxP, err := decimal.NewFromString(strings.TrimSpace(row.MaxPrice))
	if err != nil {
		return model.PriceQuote{}, false
	}
	modal, err := decimal.NewFromString(strings.TrimSpace(row.ModalPrice))
	if err != nil {
		return model.PriceQuote{}, false
	}

	asOf, ok := parseArrivalDate(row.ArrivalDate)
	if !ok {
		return model.PriceQuote{}, false
	}

	commodity := row.Commodity
	if canonical, ok := catalog.Canonical(commodity); ok {
		commodity = canonical
	}

	q := model.PriceQuote{
		Commodity:   commodity,
		District:    row.District,
		MarketName:  row.Market,
		MinPrice:    minP,
		MaxPrice:    maxP,
		ModalPrice:  modal,
		AsOfDate:    asOf,
		SourceTier:  model.TierGovernmentAPI,
		RetrievedAt: retrievedAt,
	}
	if err := q.Validate(); err != nil {
		return model.PriceQuote{}, false
	}
	return q, true
}

// parseArrivalDate accepts the feed's DD/MM/YYYY form and the ISO form some
// mirrors use.
func parseArrivalDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DateOnly(t), true
		}
	}
	return time.Time{}, false
}
