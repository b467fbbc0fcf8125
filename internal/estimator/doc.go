// Package estimator produces synthetic price quotes when every live source
// is unavailable. It is the terminal fallback: it never fails, and every
// quote it emits is tagged TierSynthetic so consumers can see exactly how
// much to trust it.
//
// Output is deterministic: the variation for a (commodity, market, date)
// triple is seeded from those values, so repeated calls on the same day
// produce identical quotes.
package estimator
