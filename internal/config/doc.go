// Package config loads, validates, and normalizes cliprelay's TOML
// configuration. Defaults cover every field so the pipeline runs without a
// config file; Load expands ~ paths and rejects unusable values up front so
// later stages can treat the config as trusted, immutable input.
package config
