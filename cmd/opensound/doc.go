// Package main hosts the opensound CLI entrypoint and command graph.
//
// The root command (and its "build" alias) runs the packaging pipeline: it
// transcodes the object and asset pack samples, writes .parkobj and .parkap
// archives into the output directory and bundles them into the final
// distributable. Supporting commands report external tool availability,
// scaffold and validate configuration, and list past builds from the history
// database.
package main
