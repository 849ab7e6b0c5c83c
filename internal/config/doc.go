// Package config loads shopkeep's configuration: a TOML file for the API
// location and cache tuning, overlaid with SHOPKEEP_* environment variables.
// The basic-auth credentials are environment-only and required; they are
// handed to the API client at construction rather than read ambiently.
package config
