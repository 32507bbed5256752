// Package config loads and merges prdoc configuration from defaults, a JSON
// config file, PRDOC_* environment variables, and CLI flag overrides, in
// that order of precedence.
package config
