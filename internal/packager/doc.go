// Package packager builds the two package kinds: single-object packages
// (.parkobj) and asset packs (.parkap).
//
// Each build resets the shared workspace, transcodes every file sample of the
// manifest into it as canonical WAV, writes the rewritten manifest next to
// them and archives the workspace's top-level entries into the output root.
// Reference markers ("$name") stay in the manifest untouched and are never
// transcoded or archived.
package packager
