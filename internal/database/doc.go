// Package database manages the PostgreSQL connection pool backing the
// curated price store.
package database
