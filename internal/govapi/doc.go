// Package govapi provides the client for the data.gov.in daily mandi price
// resource.
//
// The endpoint is keyed by a simple api-key query parameter; a documented
// public demo key is used when no key is configured. Returned rows carry
// every field as a string, so normalization validates each row and drops
// malformed ones rather than failing the whole response.
//
// Filtering is cascading: the most specific constraint is relaxed first
// whenever enforcing it would leave zero rows, so that approximate data is
// preferred over none.
package govapi
