package scrape

import (
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"github.com/krishimitra/mandi-data/internal/catalog"
	"github.com/krishimitra/mandi-data/internal/model"
)

// parseListing extracts every table row from the document as a slice of
// trimmed cell texts.
func parseListing(r io.Reader) ([][]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			if cells := rowCells(n); len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return rows, nil
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for child := tr.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && (child.Data == "td" || child.Data == "th") {
			cells = append(cells, strings.TrimSpace(nodeText(child)))
		}
	}
	return cells
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

// normalizeRows keeps rows whose first cell matches a commodity alias and
// maps the remaining cells positionally: market, price, date. Rows with
// fewer than 4 cells are skipped silently.
func normalizeRows(rows [][]string, commodity, district string) []model.PriceQuote {
	canonical := commodity
	if name, ok := catalog.Canonical(commodity); ok {
		canonical = name
	}

	retrievedAt := time.Now()
	var quotes []model.PriceQuote
	for _, cells := range rows {
		if len(cells) < 4 {
			continue
		}
		if !catalog.MatchesAlias(commodity, cells[0]) {
			continue
		}

		market := cells[1]
		price, err := decimal.NewFromString(strings.TrimSpace(cells[2]))
		if err != nil {
			continue
		}
		asOf, ok := parseRowDate(cells[3])
		if !ok {
			continue
		}

		q := model.PriceQuote{
			Commodity:   canonical,
			District:    district,
			MarketName:  market,
			MinPrice:    price,
			MaxPrice:    price,
			ModalPrice:  price,
			AsOfDate:    asOf,
			SourceTier:  model.TierScraped,
			RetrievedAt: retrievedAt,
		}
		if err := q.Validate(); err != nil {
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes
}

func parseRowDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"02/01/2006", "2006-01-02", "02-Jan-2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DateOnly(t), true
		}
	}
	return time.Time{}, false
}
