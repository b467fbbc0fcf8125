// Package source defines the shared error taxonomy for external price
// sources. Every client converts its failures into a typed *QueryError at
// its own boundary; the resolver treats any source error as an empty result
// and falls through to the next source.
package source
