// pricetest resolves prices for one commodity/district from the live
// sources and prints the result to console. It skips the curated store so
// it can run without a database.
// Usage: go run ./cmd/pricetest --commodity Onion --district Nashik
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/krishimitra/mandi-data/internal/config"
	"github.com/krishimitra/mandi-data/internal/estimator"
	"github.com/krishimitra/mandi-data/internal/govapi"
	"github.com/krishimitra/mandi-data/internal/model"
	"github.com/krishimitra/mandi-data/internal/resolver"
	"github.com/krishimitra/mandi-data/internal/scrape"
)

// emptyStore stands in for the curated store.
type emptyStore struct{}

func (emptyStore) FindRecent(ctx context.Context, commodity, district string, withinDays int) ([]model.CuratedRecord, error) {
	return nil, nil
}

func (emptyStore) History(ctx context.Context, commodity, district string, withinDays int) ([]model.CuratedRecord, error) {
	return nil, nil
}

func main() {
	commodity := flag.String("commodity", "Onion", "commodity to resolve")
	district := flag.String("district", "Nashik", "district to resolve")
	apiKey := flag.String("api-key", "", "data.gov.in API key (empty uses the public demo key)")
	verbose := flag.Bool("verbose", false, "print full quote JSON")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	key := *apiKey
	if key == "" {
		key = config.DefaultAPIDemoKey
	}

	apiClient := govapi.NewClient(
		config.DefaultAPIBaseURL,
		key,
		govapi.WithLogger(logger),
	)

	scrapeClient := scrape.NewClient(
		config.DefaultScrapeBaseURL,
		config.DefaultScrapePath,
		scrape.WithLogger(logger),
	)

	res := resolver.New(resolver.DefaultConfig(), emptyStore{}, apiClient, scrapeClient, estimator.New(), logger)

	quotes, failures := res.ResolveDetailed(context.Background(), *commodity, *district)

	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "source %s failed: %v\n", f.Tier, f.Err)
	}

	fmt.Printf("resolved %d quotes for %s / %s (tier: %s)\n",
		len(quotes), *commodity, *district, quotes[0].SourceTier)

	for _, q := range quotes {
		if *verbose {
			data, _ := json.MarshalIndent(q, "", "  ")
			fmt.Println(string(data))
			continue
		}
		fmt.Printf("%s  %-30s min=%8s  modal=%8s  max=%8s\n",
			q.AsOfDate.Format("2006-01-02"), q.MarketName, q.MinPrice, q.ModalPrice, q.MaxPrice)
	}
}
