// Package config loads, validates, and defaults Pigeonhole's TOML
// configuration.
//
// Configuration resolves from an explicit --config path, then
// ~/.config/pigeonhole/config.toml, then ./pigeonhole.toml, falling back to
// built-in defaults that match the documented command-line behaviour exactly.
// All path values are tilde-expanded and made absolute during normalization so
// downstream packages never re-resolve them.
package config
