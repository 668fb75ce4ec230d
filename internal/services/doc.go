// Package services defines shared utilities consumed by the packaging
// pipeline and the wrappers around external tools.
//
// Key responsibilities:
//   - Context helpers that stamp build IDs, stage names, and package names
//     so log lines can be correlated across one run.
//   - Structured error markers (ErrIO, ErrParse, ErrToolNotFound,
//     ErrProcessFailed, ...) with typed detail errors, plus the Wrap helper
//     that adds stage/operation context while keeping the marker matchable.
//
// Every error produced by the pipeline is fatal; these types exist so callers
// and tests can classify a failure, not so they can recover from it.
package services
