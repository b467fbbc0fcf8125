package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/krishimitra/mandi-data/internal/model"
	"github.com/krishimitra/mandi-data/internal/source"
)

const listingPage = `<html><body>
<table>
<tr><th>Commodity</th><th>Market</th><th>Price</th><th>Date</th></tr>
<tr><td>Onion (Red)</td><td>Lasalgaon APMC</td><td>1800</td><td>14/03/2026</td></tr>
<tr><td>Kanda Local</td><td>Nashik APMC</td><td>1750</td><td>14/03/2026</td></tr>
<tr><td>Potato</td><td>Nashik APMC</td><td>1100</td><td>14/03/2026</td></tr>
<tr><td>Onion</td><td>Sinnar APMC</td></tr>
<tr><td>Onion</td><td>Broken APMC</td><td>N/A</td><td>14/03/2026</td></tr>
</table>
</body></html>`

func newTestClient(url string, opts ...ClientOption) *Client {
	base := []ClientOption{WithCooldown(time.Millisecond)}
	return NewClient(url, "/listing", append(base, opts...)...)
}

func TestFetchPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("request missing User-Agent")
		}
		w.Write([]byte(listingPage))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	quotes, qerr := c.FetchPrices(context.Background(), "Onion", "Nashik")
	if qerr != nil {
		t.Fatalf("FetchPrices returned error: %v", qerr)
	}
	// Two alias-matched well-formed rows: header skipped (no alias match on
	// "Commodity"), Potato skipped, short row skipped, bad price skipped.
	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(quotes))
	}
	if quotes[0].MarketName != "Lasalgaon APMC" {
		t.Errorf("first market = %q, want Lasalgaon APMC", quotes[0].MarketName)
	}
	for _, q := range quotes {
		if q.SourceTier != model.TierScraped {
			t.Errorf("SourceTier = %v, want TierScraped", q.SourceTier)
		}
		if q.District != "Nashik" {
			t.Errorf("District = %q, want Nashik", q.District)
		}
		if err := q.Validate(); err != nil {
			t.Errorf("quote invalid: %v", err)
		}
	}
}

func TestFetchPricesNoMatchingData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><table><tr><td>Potato</td><td>X</td><td>900</td><td>14/03/2026</td></tr></table></html>`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	_, qerr := c.FetchPrices(context.Background(), "Onion", "Nashik")
	if qerr == nil || qerr.Kind != source.KindNoMatchingData {
		t.Errorf("qerr = %v, want NoMatchingData", qerr)
	}
}

func TestFetchPricesStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   source.ErrorKind
	}{
		{http.StatusNotFound, source.KindNotFound},
		{http.StatusForbidden, source.KindAccessRestricted},
		{http.StatusBadGateway, source.KindHTTPError},
	}
	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		c := newTestClient(server.URL)
		_, qerr := c.FetchPrices(context.Background(), "Onion", "Nashik")
		if qerr == nil || qerr.Kind != tt.want {
			t.Errorf("status %d: qerr = %v, want %v", tt.status, qerr, tt.want)
		}
		server.Close()
	}
}

func TestFetchPricesTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := newTestClient(server.URL, WithTimeout(20*time.Millisecond))

	_, qerr := c.FetchPrices(context.Background(), "Onion", "Nashik")
	if qerr == nil || qerr.Kind != source.KindTimeout {
		t.Errorf("qerr = %v, want Timeout", qerr)
	}
}

func TestCooldownSerializesRequests(t *testing.T) {
	const cooldown = 80 * time.Millisecond

	var mu sync.Mutex
	var requestTimes []time.Time

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requestTimes = append(requestTimes, time.Now())
		mu.Unlock()
		w.Write([]byte(listingPage))
	}))
	defer server.Close()

	c := NewClient(server.URL, "/listing", WithCooldown(cooldown))

	// Two concurrent callers must be spaced by at least the cooldown.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.FetchPrices(context.Background(), "Onion", "Nashik")
		}()
	}
	wg.Wait()

	if len(requestTimes) != 2 {
		t.Fatalf("server saw %d requests, want 2", len(requestTimes))
	}
	gap := requestTimes[1].Sub(requestTimes[0])
	if gap < cooldown-5*time.Millisecond {
		t.Errorf("requests %v apart, want >= %v", gap, cooldown)
	}
}

func TestCooldownWaitHonorsCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingPage))
	}))
	defer server.Close()

	c := NewClient(server.URL, "/listing", WithCooldown(5*time.Second))

	// First fetch stamps the cooldown clock.
	if _, qerr := c.FetchPrices(context.Background(), "Onion", "Nashik"); qerr != nil {
		t.Fatalf("first fetch failed: %v", qerr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, qerr := c.FetchPrices(ctx, "Onion", "Nashik")
	if qerr == nil {
		t.Fatal("second fetch should fail while cooling down")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancelled fetch took %v, should abandon the wait promptly", elapsed)
	}
}

func TestParseListingMalformedDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Tag soup still parses; alias matching just finds nothing.
		w.Write([]byte("<table><tr><td>garbage"))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	_, qerr := c.FetchPrices(context.Background(), "Onion", "Nashik")
	if qerr == nil || qerr.Kind != source.KindNoMatchingData {
		t.Errorf("qerr = %v, want NoMatchingData for irrelevant soup", qerr)
	}
}
