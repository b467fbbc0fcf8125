// Package scrape fetches and parses the commodity listing page of the
// statistics portal.
//
// The portal has no API and no authentication, so the client identifies
// itself with a descriptive User-Agent and enforces a process-wide minimum
// delay between requests. The cooldown slot is shared by every caller:
// concurrent fetches serialize on it, and a caller that gives up while
// waiting releases its claim immediately.
//
// Rows are matched against the commodity alias table by case-insensitive
// substring on the first cell, then mapped positionally. A malformed row is
// treated as absent, never as a failure.
package scrape
