// Package preflight provides readiness checks for the filesystem paths a
// build reads and writes.
//
// These checks run in two contexts:
//   - "opensound build" runs RunAll first and logs every failure as a warning.
//     The build still proceeds so the failing step reports its own error.
//   - "opensound deps" prints the results next to the binary availability table.
package preflight
