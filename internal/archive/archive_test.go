package archive

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"opensound/internal/services"
)

func makeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(dir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func readZip(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	out := make(map[string]string)
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			out[f.Name] = ""
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out[f.Name] = string(data)
	}
	return out
}

func zipNames(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func TestNativeArchivesListedEntriesOnly(t *testing.T) {
	cwd := t.TempDir()
	makeTree(t, cwd, map[string]string{
		"object.json":  "{}",
		"sounds/b.wav": "bb",
		"sounds/a.wav": "aa",
		"unlisted.txt": "skip",
	})
	out := filepath.Join(t.TempDir(), "pkg", "x.parkobj")

	err := NewNative(nil).Archive(context.Background(), cwd, out, []string{"sounds", "object.json"})
	require.NoError(t, err)

	require.Equal(t, []string{"object.json", "sounds/", "sounds/a.wav", "sounds/b.wav"}, zipNames(t, out))
	contents := readZip(t, out)
	require.Equal(t, "{}", contents["object.json"])
	require.Equal(t, "aa", contents["sounds/a.wav"])
	require.NotContains(t, contents, "unlisted.txt")
}

func TestNativeIsDeterministic(t *testing.T) {
	cwd := t.TempDir()
	makeTree(t, cwd, map[string]string{"a.wav": "aa", "dir/b.wav": "bb"})
	outDir := t.TempDir()
	first := filepath.Join(outDir, "first.zip")
	second := filepath.Join(outDir, "second.zip")

	archiver := NewNative(nil)
	require.NoError(t, archiver.Archive(context.Background(), cwd, first, []string{"dir", "a.wav"}))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(cwd, "a.wav"), later, later))
	require.NoError(t, archiver.Archive(context.Background(), cwd, second, []string{"a.wav", "dir"}))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	require.Equal(t, a, b)

	r, err := zip.OpenReader(first)
	require.NoError(t, err)
	defer r.Close()
	for _, f := range r.File {
		require.True(t, f.Modified.Equal(epoch), "entry %s modified %v", f.Name, f.Modified)
	}
}

func TestNativeReplacesExistingOutputAndResolvesRelativePath(t *testing.T) {
	root := t.TempDir()
	cwd := filepath.Join(root, "out")
	makeTree(t, cwd, map[string]string{"assetpack/p.parkap": "pp"})
	makeTree(t, root, map[string]string{"artifacts/opensound.zip": "stale bytes"})

	err := NewNative(nil).Archive(context.Background(), cwd, filepath.Join("..", "artifacts", "opensound.zip"), []string{"assetpack"})
	require.NoError(t, err)

	contents := readZip(t, filepath.Join(root, "artifacts", "opensound.zip"))
	require.Equal(t, "pp", contents["assetpack/p.parkap"])
}

func TestNativeMissingEntryIsIOError(t *testing.T) {
	err := NewNative(nil).Archive(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "x.zip"), []string{"missing"})
	require.ErrorIs(t, err, services.ErrIO)
}

type recordingRunner struct {
	name string
	args []string
	dir  string
}

func (r *recordingRunner) Run(_ context.Context, name string, args []string, dir string) ([]byte, error) {
	r.name, r.args, r.dir = name, args, dir
	return nil, nil
}

func TestExternalZipArguments(t *testing.T) {
	cwd := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "object", "official", "audio")
	out := filepath.Join(outDir, "x.parkobj")
	makeTree(t, outDir, map[string]string{"x.parkobj": "stale"})

	runner := &recordingRunner{}
	archiver := NewExternal("", FlavorZip, runner, nil)
	require.NoError(t, archiver.Archive(context.Background(), cwd, out, []string{"a.wav", "object.json"}))

	require.Equal(t, "zip", runner.name)
	require.Equal(t, []string{"-r", out, "a.wav", "object.json"}, runner.args)
	require.Equal(t, cwd, runner.dir)
	_, err := os.Stat(out)
	require.True(t, os.IsNotExist(err), "stale archive should be removed before archiving")
}

func TestExternalSevenZipArguments(t *testing.T) {
	archiver := NewExternal("", FlavorSevenZip, &recordingRunner{}, nil)
	require.Equal(t, []string{"a", "-r", "-tzip", "out.zip", "a", "b"}, archiver.Args("out.zip", []string{"a", "b"}))
	require.Equal(t, "7z", archiver.binary)
}

func TestHostFlavor(t *testing.T) {
	want := FlavorZip
	if runtime.GOOS == "windows" {
		want = FlavorSevenZip
	}
	require.Equal(t, want, HostFlavor())
}
