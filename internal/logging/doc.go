// Package logging builds the slog loggers used by opensound.
//
// Console output is one line per record with the component, the short build
// id and the package being assembled up front. JSON output keeps the standard
// slog shape with an RFC 3339 "ts" key. WithContext copies the build id, stage
// and package from a context onto a logger.
package logging
