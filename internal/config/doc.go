// Package config loads server settings from defaults, an optional YAML file,
// SCRY_* environment variables and command line flags, then validates them
// with struct tags before any component is built.
package config
