// Package resolver orchestrates the price sources in strict priority order:
// curated store, government API, scrape, synthetic estimate. The first
// source to produce data wins; a failed source is equivalent to an empty
// one. Resolve never returns an empty result and never errors outward:
// the worst case is a synthetic quote with its tier disclosed.
package resolver
