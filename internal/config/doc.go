// Package config loads, normalizes, and validates readq configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// READQ_API_TOKEN. The Config type centralizes every knob the CLI and the
// HTTP server need: where the note database lives, which scheduling policies
// apply when nothing is specified, which review kinds count toward scoring,
// and how logs are written.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, parsed policies, and clear validation errors.
package config
