// Package catalog holds the static crop and market reference data: canonical
// commodity names with alias spellings, reference price bands, and the
// district to mandi (APMC market) mapping for Maharashtra.
//
// All data is compiled in, loaded once, and never mutated at runtime.
package catalog
