// Package config loads, normalizes, and validates opensound configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENSOUND_FFMPEG. The Config type centralizes every knob the build needs:
// where the manifests live, where the scratch workspace and outputs go, which
// external tools to run, and how to log.
//
// Always obtain settings through this package so downstream code receives
// absolute paths and clear validation errors.
package config
