// Package config loads, normalizes, and validates clipvault configuration.
//
// Configuration lives in a TOML file (default ~/.config/clipvault/config.toml,
// falling back to ./clipvault.toml). Load applies defaults, expands ~ paths to
// absolute locations, pulls credentials from the environment when the file
// omits them, and validates the result so downstream packages can trust every
// field.
package config
