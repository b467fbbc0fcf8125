// Package store implements the curated-record store: persisted, manually
// entered price observations queried read-mostly by the resolver.
//
// Records are immutable once written; newer records with the same
// (district, market, commodity) key supersede older ones by date. Storage
// faults surface as *StorageError, which is the one failure in the pipeline
// that indicates the local system rather than an external source is broken.
package store
