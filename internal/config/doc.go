// Package config loads and validates the TOML configuration for arbor.
//
// Configuration is resolved from an explicit --config path or the default
// ~/.config/arbor/config.toml. Missing files fall back to built-in defaults
// so commands that only read local state work without a config file; the
// storage credentials are validated because every command ultimately talks
// to the content database or the remote store.
package config
