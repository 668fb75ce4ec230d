package archive

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"opensound/internal/logging"
	"opensound/internal/services"
)

// epoch is the earliest timestamp the zip format can represent; every entry
// carries it so identical trees produce identical archives.
var epoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Native archives in-process with archive/zip.
type Native struct {
	logger *slog.Logger
}

// NewNative builds a Native archiver.
func NewNative(logger *slog.Logger) *Native {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Native{logger: logger}
}

type member struct {
	name  string
	path  string
	isDir bool
}

func (n *Native) Archive(ctx context.Context, cwd, output string, entries []string) error {
	logger := logging.WithContext(ctx, n.logger)
	if abs, err := filepath.Abs(cwd); err == nil {
		cwd = abs
	}
	resolved, err := prepareOutput(cwd, output, logger)
	if err != nil {
		return err
	}

	members, err := collectMembers(cwd, resolved, entries)
	if err != nil {
		return err
	}

	file, err := os.Create(resolved)
	if err != nil {
		return services.NewIOError("create", resolved, err)
	}
	zw := zip.NewWriter(file)
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			_ = file.Close()
			return err
		}
		if err := writeMember(zw, m); err != nil {
			_ = zw.Close()
			_ = file.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		_ = file.Close()
		return services.NewIOError("write", resolved, err)
	}
	if err := file.Close(); err != nil {
		return services.NewIOError("close", resolved, err)
	}
	logger.Debug("archive written",
		logging.String("path", resolved),
		logging.Int("entries", len(members)),
	)
	return nil
}

func collectMembers(cwd, output string, entries []string) ([]member, error) {
	seen := make(map[string]bool)
	var members []member
	for _, entry := range entries {
		root := filepath.Join(cwd, entry)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return services.NewIOError("walk", path, err)
			}
			if path == output {
				return nil
			}
			rel, err := filepath.Rel(cwd, path)
			if err != nil {
				return services.NewIOError("walk", path, err)
			}
			name := filepath.ToSlash(rel)
			if seen[name] {
				return nil
			}
			seen[name] = true
			members = append(members, member{name: name, path: path, isDir: d.IsDir()})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].name < members[j].name })
	return members, nil
}

func writeMember(zw *zip.Writer, m member) error {
	header := &zip.FileHeader{Name: m.name, Modified: epoch}
	if m.isDir {
		header.Name += "/"
		header.Method = zip.Store
		header.SetMode(fs.ModeDir | 0o755)
		if _, err := zw.CreateHeader(header); err != nil {
			return services.NewIOError("write", m.name, err)
		}
		return nil
	}

	header.Method = zip.Deflate
	header.SetMode(0o644)
	w, err := zw.CreateHeader(header)
	if err != nil {
		return services.NewIOError("write", m.name, err)
	}
	src, err := os.Open(m.path)
	if err != nil {
		return services.NewIOError("open", m.path, err)
	}
	defer src.Close()
	if _, err := io.Copy(w, src); err != nil {
		return services.NewIOError("write", m.name, err)
	}
	return nil
}
