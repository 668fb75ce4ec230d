// Package manifest reads, edits, and writes the JSON manifests that describe
// an audio object (object.json) or an asset pack (openrct2.sound.json).
//
// A manifest is kept as its original JSON text. Typed views expose the few
// fields the packager consumes (id and the sample lists) and edits are
// applied to the text in place, so every other field is re-emitted exactly
// as authored and in its original key order. Saving re-indents the document
// with four spaces and a single trailing newline.
package manifest
