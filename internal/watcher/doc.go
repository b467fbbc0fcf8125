// Package watcher periodically re-resolves a configured list of
// commodity/district watches and dispatches an alert whenever the latest
// modal price crosses an entry's target.
package watcher
