// Package config provides server configuration for webfront.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (addresses, TLS pair, fallback, plugins)
//   - load.go: Layered loading through internal/infra/confloader
//   - sanitize.go: Masking of secret-looking values before logging
//
// Sources, highest priority first: WEBFRONT_ environment variables,
// NODE_ENV, the YAML file, defaults.
package config
