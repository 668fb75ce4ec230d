package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"opensound/internal/config"
)

// WriteTree writes files (slash-separated names relative to root) with the
// given contents, creating parent directories as needed.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

// ObjectManifest is the object.json written by SeedSources.
const ObjectManifest = `{
    "id": "test",
    "authors": ["OpenSound"],
    "sourceGame": "custom",
    "objectType": "audio",
    "samples": [
        "one.ogg",
        "sub/two.mp3"
    ]
}
`

// AssetPackManifest is the openrct2.sound.json written by SeedSources.
const AssetPackManifest = `{
    "id": "openrct2.sound",
    "name": "Default sounds",
    "objects": [
        {
            "id": "rct2.audio.base",
            "samples": ["$engine_default", "base/lift.flac"]
        },
        {
            "id": "rct2.audio.extra",
            "samples": ["extra/scream.ogg"]
        }
    ]
}
`

// SeedSources writes a small object source and asset pack source into the
// directories named by cfg.
func SeedSources(t testing.TB, cfg *config.Config) {
	t.Helper()
	WriteTree(t, cfg.Paths.ObjectSourceDir, map[string]string{
		"object.json": ObjectManifest,
		"one.ogg":     "ONE",
		"sub/two.mp3": "TWO",
	})
	WriteTree(t, cfg.Paths.AssetPackSourceDir, map[string]string{
		"openrct2.sound.json": AssetPackManifest,
		"base/lift.flac":      "LIFT",
		"extra/scream.ogg":    "SCREAM",
	})
}
