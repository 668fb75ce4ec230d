package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"opensound/internal/services"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ObjectFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	path := writeManifest(t, `{"id": "x", "samples": [`)
	_, err := Load(path)
	require.Error(t, err)
	require.True(t, errors.Is(err, services.ErrParse))

	var parseErr *services.ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, path, parseErr.Path)
}

func TestLoadRejectsNonObjectRoot(t *testing.T) {
	_, err := Load(writeManifest(t, `["a", "b"]`))
	require.ErrorIs(t, err, services.ErrParse)
}

func TestLoadMissingFileIsIOError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, services.ErrIO)
}

func TestLoadToleratesByteOrderMark(t *testing.T) {
	doc, err := Load(writeManifest(t, "\xEF\xBB\xBF{\"id\": \"bom\"}"))
	require.NoError(t, err)
	require.Equal(t, "bom", doc.Get("id").String())
}

func TestSaveUsesFourSpaceIndentAndTrailingNewline(t *testing.T) {
	doc, err := Parse("inline", []byte(`{"id":"a","samples":["x.ogg","y.ogg"],"empty":[],"nested":{"k":1}}`))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Save(path, doc))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "{\n" +
		"    \"id\": \"a\",\n" +
		"    \"samples\": [\n" +
		"        \"x.ogg\",\n" +
		"        \"y.ogg\"\n" +
		"    ],\n" +
		"    \"empty\": [],\n" +
		"    \"nested\": {\n" +
		"        \"k\": 1\n" +
		"    }\n" +
		"}\n"
	require.Equal(t, want, string(got))
}

func TestSavePreservesKeyOrderAndOpaqueFields(t *testing.T) {
	src := `{
  "zeta": {"b": 2, "a": 1},
  "id": "rct2.audio.extra",
  "authors": ["Someone", "Other"],
  "samples": ["sounds/one.ogg"],
  "version": "1.0",
  "alpha": null,
  "ratio": 1.50
}`
	m, err := NewObject(mustParse(t, src))
	require.NoError(t, err)
	require.NoError(t, m.SetSample(0, "sounds/one.wav"))

	reloaded, err := Parse("reloaded", m.Document().Format())
	require.NoError(t, err)

	require.Equal(t, []string{"zeta", "id", "authors", "samples", "version", "alpha", "ratio"}, keysOf(gjson.ParseBytes(reloaded.Bytes())))
	require.Equal(t, []string{"b", "a"}, keysOf(reloaded.Get("zeta")))
	require.Equal(t, "1.50", reloaded.Get("ratio").Raw)
	require.Equal(t, "sounds/one.wav", reloaded.Get("samples.0").String())
}

func TestSaveOverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "object.json")
	require.NoError(t, os.WriteFile(path, []byte("old content that is longer than the new one"), 0o644))
	require.NoError(t, Save(path, mustParse(t, `{"id":"n"}`)))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{\n    \"id\": \"n\"\n}\n", string(got))
}

func TestSaveToMissingDirectoryIsIOError(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "missing", "object.json"), mustParse(t, `{"id":"n"}`))
	require.ErrorIs(t, err, services.ErrIO)
}

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse("test", []byte(src))
	require.NoError(t, err)
	return doc
}

func keysOf(value gjson.Result) []string {
	var keys []string
	value.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}
