package manifest

import (
	"encoding/json"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func samplePath() *rapid.Generator[string] {
	segment := rapid.StringMatching(`[a-z0-9_]{1,8}(\.[a-z0-9]{1,4}){0,2}`)
	return rapid.Custom(func(t *rapid.T) string {
		parts := rapid.SliceOfN(segment, 1, 3).Draw(t, "segments")
		return strings.Join(parts, "/")
	})
}

func TestChangeExtensionIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := samplePath().Draw(t, "path")
		once := ChangeExtension(p, TranscodedExtension)
		if twice := ChangeExtension(once, TranscodedExtension); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", p, once, twice)
		}
		if !strings.HasSuffix(once, TranscodedExtension) {
			t.Fatalf("%q does not end with %s", once, TranscodedExtension)
		}
	})
}

func TestAssetPackRewritePreservesShape(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sample := rapid.OneOf(samplePath(), rapid.StringMatching(`\$[a-z_]{1,12}`))
		objects := rapid.SliceOfN(rapid.SliceOfN(sample, 0, 4), 0, 4).Draw(t, "objects")

		type object struct {
			Samples []string `json:"samples"`
		}
		src := struct {
			ID      string   `json:"id"`
			Objects []object `json:"objects"`
		}{ID: "pack"}
		for _, samples := range objects {
			src.Objects = append(src.Objects, object{Samples: samples})
		}
		raw, err := json.Marshal(src)
		if err != nil {
			t.Fatal(err)
		}
		doc, err := Parse("generated", raw)
		if err != nil {
			t.Fatal(err)
		}
		m, err := NewAssetPack(doc)
		if err != nil {
			t.Fatal(err)
		}
		for oi, obj := range m.Objects {
			for si, s := range obj.Samples {
				if IsReference(s) {
					continue
				}
				if err := m.SetSample(oi, si, ChangeExtension(s, TranscodedExtension)); err != nil {
					t.Fatal(err)
				}
			}
		}

		reloaded, err := Parse("reloaded", m.Document().Format())
		if err != nil {
			t.Fatal(err)
		}
		got, err := NewAssetPack(reloaded)
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Objects) != len(objects) {
			t.Fatalf("object count %d, want %d", len(got.Objects), len(objects))
		}
		for oi, samples := range objects {
			if len(got.Objects[oi].Samples) != len(samples) {
				t.Fatalf("object %d has %d samples, want %d", oi, len(got.Objects[oi].Samples), len(samples))
			}
			for si, s := range samples {
				out := got.Objects[oi].Samples[si]
				if IsReference(s) {
					if out != s {
						t.Fatalf("marker changed: %q -> %q", s, out)
					}
					continue
				}
				if !strings.HasSuffix(out, TranscodedExtension) {
					t.Fatalf("sample %q rewritten to %q", s, out)
				}
			}
		}
	})
}
