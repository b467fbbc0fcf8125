package scrape

import (
	"context"
	"net/http"
	"time"

	"github.com/krishimitra/mandi-data/internal/model"
	"github.com/krishimitra/mandi-data/internal/source"
)

// FetchPrices fetches the listing page and returns quotes for every row
// matching the commodity's aliases. Failures come back as a typed
// *source.QueryError; the method never panics past its boundary.
func (c *Client) FetchPrices(ctx context.Context, commodity, district string) ([]model.PriceQuote, *source.QueryError) {
	release, err := c.acquireSlot(ctx)
	if err != nil {
		return nil, source.FromTransport(sourceName, err)
	}
	defer release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.path, nil)
	if err != nil {
		return nil, source.ParseFailure(sourceName, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	c.lastRequest = time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, source.FromTransport(sourceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, source.FromStatus(sourceName, resp.StatusCode)
	}

	rows, perr := parseListing(resp.Body)
	if perr != nil {
		return nil, source.ParseFailure(sourceName, perr)
	}

	quotes := normalizeRows(rows, commodity, district)
	if len(quotes) == 0 {
		// Reachable and well-formed, just nothing relevant.
		return nil, source.NoData(sourceName)
	}

	c.logger.Debug("scraped quotes parsed",
		"commodity", commodity,
		"district", district,
		"rows", len(rows),
		"quotes", len(quotes),
	)
	return quotes, nil
}
