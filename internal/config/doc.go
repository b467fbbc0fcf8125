// Package config loads and validates the resolver YAML configuration.
//
// Load order: read file, expand ${VAR} environment references, unmarshal,
// apply defaults, validate. Secrets (API key, database password) are
// expected to arrive via environment expansion rather than literals.
package config
