// Package history persists a record of every pipeline run in SQLite.
//
// Each run is a row in builds keyed by its uuid; each package the run
// produced is a row in build_packages. Schema changes ship as numbered files
// under migrations/ and are applied once, in order, when the store opens.
package history
