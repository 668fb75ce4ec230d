package manifest

import (
	"os"
	"strings"
)

// ReferencePrefix marks a sample supplied by another package at runtime.
const ReferencePrefix = "$"

// TranscodedExtension is the extension every transcoded sample receives.
const TranscodedExtension = ".wav"

// IsReference reports whether sample names a runtime-supplied sound rather
// than a file in the source directory.
func IsReference(sample string) bool {
	return strings.HasPrefix(sample, ReferencePrefix)
}

// ChangeExtension replaces the extension of the final path segment with ext.
// When that segment has no '.', ext is appended. ext should start with '.'.
func ChangeExtension(path, ext string) string {
	start := strings.LastIndexByte(path, '/') + 1
	if os.PathSeparator != '/' {
		if i := strings.LastIndexByte(path, os.PathSeparator) + 1; i > start {
			start = i
		}
	}
	if dot := strings.LastIndexByte(path[start:], '.'); dot != -1 {
		return path[:start+dot] + ext
	}
	return path + ext
}
