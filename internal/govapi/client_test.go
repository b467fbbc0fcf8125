package govapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/krishimitra/mandi-data/internal/model"
	"github.com/krishimitra/mandi-data/internal/source"
)

func serveRecords(t *testing.T, records []apiRecord) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api-key") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(apiResponse{Records: records})
	}))
}

func record(district, market, commodity, date, min, max, modal string) apiRecord {
	return apiRecord{
		State:       "Maharashtra",
		District:    district,
		Market:      market,
		Commodity:   commodity,
		ArrivalDate: date,
		MinPrice:    min,
		MaxPrice:    max,
		ModalPrice:  modal,
	}
}

func TestFetchPrices(t *testing.T) {
	server := serveRecords(t, []apiRecord{
		record("Nashik", "Lasalgaon APMC", "Onion", "14/03/2026", "1200", "2400", "1800"),
		record("Nashik", "Nashik APMC", "Onion", "15/03/2026", "1300", "2500", "1900"),
		record("Pune", "Pune Market Yard", "Potato", "15/03/2026", "800", "1400", "1100"),
	})
	defer server.Close()

	c := NewClient(server.URL, "test-key", WithTimeout(5*time.Second))

	quotes, qerr := c.FetchPrices(context.Background(), "Maharashtra", "Nashik", "Onion")
	if qerr != nil {
		t.Fatalf("FetchPrices returned error: %v", qerr)
	}
	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(quotes))
	}
	// Newest first.
	if quotes[0].MarketName != "Nashik APMC" {
		t.Errorf("first quote market = %q, want newest (Nashik APMC)", quotes[0].MarketName)
	}
	for _, q := range quotes {
		if q.SourceTier != model.TierGovernmentAPI {
			t.Errorf("SourceTier = %v, want TierGovernmentAPI", q.SourceTier)
		}
		if err := q.Validate(); err != nil {
			t.Errorf("quote invalid: %v", err)
		}
	}
}

func TestFetchPricesCascadingDistrict(t *testing.T) {
	// No row matches the requested district, but rows match the state:
	// the district filter must be skipped, not enforced.
	server := serveRecords(t, []apiRecord{
		record("Pune", "Pune Market Yard", "Onion", "14/03/2026", "1100", "2100", "1600"),
		record("Solapur", "Solapur APMC", "Onion", "13/03/2026", "1000", "2000", "1500"),
	})
	defer server.Close()

	c := NewClient(server.URL, "test-key")

	quotes, qerr := c.FetchPrices(context.Background(), "Maharashtra", "Nashik", "Onion")
	if qerr != nil {
		t.Fatalf("FetchPrices returned error: %v", qerr)
	}
	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2 state-matched quotes", len(quotes))
	}
}

func TestFetchPricesCommoditySubstring(t *testing.T) {
	// Exact commodity match fails, substring match should be tried.
	server := serveRecords(t, []apiRecord{
		record("Nashik", "Lasalgaon APMC", "Onion (Red)", "14/03/2026", "1200", "2400", "1800"),
	})
	defer server.Close()

	c := NewClient(server.URL, "test-key")

	quotes, qerr := c.FetchPrices(context.Background(), "Maharashtra", "Nashik", "Onion")
	if qerr != nil {
		t.Fatalf("FetchPrices returned error: %v", qerr)
	}
	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want 1 substring-matched quote", len(quotes))
	}
}

func TestFetchPricesNoMatchingData(t *testing.T) {
	server := serveRecords(t, []apiRecord{
		record("Nashik", "Nashik APMC", "Potato", "14/03/2026", "800", "1400", "1100"),
	})
	defer server.Close()

	c := NewClient(server.URL, "test-key")

	quotes, qerr := c.FetchPrices(context.Background(), "Maharashtra", "Nashik", "Onion")
	if quotes != nil {
		t.Errorf("quotes = %v, want nil", quotes)
	}
	if qerr == nil || qerr.Kind != source.KindNoMatchingData {
		t.Errorf("qerr = %v, want NoMatchingData", qerr)
	}
	if qerr != nil && !qerr.Healthy() {
		t.Error("NoMatchingData should report a healthy source")
	}
}

func TestFetchPricesResultCap(t *testing.T) {
	var records []apiRecord
	for day := 1; day <= 25; day++ {
		records = append(records, record(
			"Nashik", "Nashik APMC", "Onion",
			time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC).Format("02/01/2006"),
			"1200", "2400", "1800",
		))
	}
	server := serveRecords(t, records)
	defer server.Close()

	c := NewClient(server.URL, "test-key", WithResultCap(20))

	quotes, qerr := c.FetchPrices(context.Background(), "Maharashtra", "Nashik", "Onion")
	if qerr != nil {
		t.Fatalf("FetchPrices returned error: %v", qerr)
	}
	if len(quotes) != 20 {
		t.Errorf("got %d quotes, want cap of 20", len(quotes))
	}
	// Descending by arrival date.
	for i := 1; i < len(quotes); i++ {
		if quotes[i].AsOfDate.After(quotes[i-1].AsOfDate) {
			t.Errorf("quotes not sorted newest first at index %d", i)
		}
	}
}

func TestFetchPricesMissingCredential(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := NewClient(server.URL, "")

	_, qerr := c.FetchPrices(context.Background(), "Maharashtra", "Nashik", "Onion")
	if qerr == nil || qerr.Kind != source.KindMissingCredential {
		t.Errorf("qerr = %v, want MissingCredential", qerr)
	}
	if called {
		t.Error("no network call should be made without a credential")
	}
}

func TestFetchPricesErrorMapping(t *testing.T) {
	t.Run("http 403", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		c := NewClient(server.URL, "bad-key")
		_, qerr := c.FetchPrices(context.Background(), "Maharashtra", "Nashik", "Onion")
		if qerr == nil || qerr.Kind != source.KindAccessRestricted {
			t.Errorf("qerr = %v, want AccessRestricted", qerr)
		}
	})

	t.Run("http 404", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		c := NewClient(server.URL, "test-key")
		_, qerr := c.FetchPrices(context.Background(), "Maharashtra", "Nashik", "Onion")
		if qerr == nil || qerr.Kind != source.KindNotFound {
			t.Errorf("qerr = %v, want NotFound", qerr)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		c := NewClient(server.URL, "test-key")
		_, qerr := c.FetchPrices(context.Background(), "Maharashtra", "Nashik", "Onion")
		if qerr == nil || qerr.Kind != source.KindParseFailure {
			t.Errorf("qerr = %v, want ParseFailure", qerr)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		c := NewClient(server.URL, "test-key", WithTimeout(20*time.Millisecond))
		_, qerr := c.FetchPrices(context.Background(), "Maharashtra", "Nashik", "Onion")
		if qerr == nil || qerr.Kind != source.KindTimeout {
			t.Errorf("qerr = %v, want Timeout", qerr)
		}
	})

	t.Run("connection failure", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", "test-key", WithTimeout(time.Second))
		_, qerr := c.FetchPrices(context.Background(), "Maharashtra", "Nashik", "Onion")
		if qerr == nil {
			t.Fatal("want transport error")
		}
		if qerr.Kind != source.KindConnectionFailure && qerr.Kind != source.KindTimeout {
			t.Errorf("qerr = %v, want connection failure or timeout", qerr)
		}
	})
}

func TestFetchPricesMalformedRowsDropped(t *testing.T) {
	server := serveRecords(t, []apiRecord{
		record("Nashik", "Nashik APMC", "Onion", "14/03/2026", "1200", "2400", "1800"),
		record("Nashik", "Bad Row APMC", "Onion", "14/03/2026", "NR", "2400", "1800"),    // unparseable min
		record("Nashik", "Bad Date APMC", "Onion", "yesterday", "1200", "2400", "1800"),  // unparseable date
		record("Nashik", "Inverted APMC", "Onion", "14/03/2026", "2400", "1200", "1800"), // min > max
	})
	defer server.Close()

	c := NewClient(server.URL, "test-key")

	quotes, qerr := c.FetchPrices(context.Background(), "Maharashtra", "Nashik", "Onion")
	if qerr != nil {
		t.Fatalf("FetchPrices returned error: %v", qerr)
	}
	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want 1 (malformed rows dropped)", len(quotes))
	}
	if quotes[0].MarketName != "Nashik APMC" {
		t.Errorf("surviving quote market = %q, want Nashik APMC", quotes[0].MarketName)
	}
}
