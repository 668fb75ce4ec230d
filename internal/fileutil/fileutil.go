// Package fileutil holds the filesystem primitives the packaging pipeline is
// built on: idempotent directory creation and removal, workspace resets, and
// sorted directory listings.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"opensound/internal/logging"
	"opensound/internal/services"
)

// EnsureDirectory creates path and any missing ancestors. It is a no-op when
// path already exists as a directory.
func EnsureDirectory(path string, logger *slog.Logger) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return services.NewIOError("mkdir", path, fmt.Errorf("%w: not a directory", fs.ErrExist))
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return services.NewIOError("stat", path, err)
	}
	if logger != nil {
		logger.Debug("creating directory", logging.String("path", path))
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return services.NewIOError("mkdir", path, err)
	}
	return nil
}

// EnsureParent creates the directory containing path.
func EnsureParent(path string, logger *slog.Logger) error {
	return EnsureDirectory(filepath.Dir(path), logger)
}

// RemovePath deletes path. Directories are removed recursively; a missing path
// is not an error.
func RemovePath(path string, logger *slog.Logger) error {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return services.NewIOError("stat", path, err)
	}
	if logger != nil {
		logger.Debug("deleting", logging.String("path", path))
	}
	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return services.NewIOError("remove", path, err)
	}
	return nil
}

// ResetDirectory leaves path as an existing, empty directory.
func ResetDirectory(path string, logger *slog.Logger) error {
	if err := RemovePath(path, logger); err != nil {
		return err
	}
	return EnsureDirectory(path, logger)
}

// ListOptions shapes the output of ListTree.
type ListOptions struct {
	IncludeDirectories bool
	IncludeFiles       bool
	Recurse            bool
	// UseFullPath reports root-joined paths instead of bare entry names.
	UseFullPath bool
}

// ListTree returns the entries under root selected by opts, sorted
// lexicographically by the reported name. Entries are stat'ed concurrently;
// an entry that disappears or cannot be stat'ed mid-listing is skipped.
func ListTree(root string, opts ListOptions) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, services.NewIOError("list", root, err)
	}

	l := &lister{opts: opts}
	l.visit(root, entries)
	l.wg.Wait()

	sort.Strings(l.results)
	return l.results, nil
}

type lister struct {
	opts    ListOptions
	wg      sync.WaitGroup
	mu      sync.Mutex
	results []string
}

func (l *lister) visit(dir string, entries []os.DirEntry) {
	for _, entry := range entries {
		fullPath := filepath.Join(dir, entry.Name())
		name := entry.Name()
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			info, err := os.Stat(fullPath)
			if err != nil {
				return
			}
			result := name
			if l.opts.UseFullPath {
				result = fullPath
			}
			if info.IsDir() {
				if l.opts.IncludeDirectories {
					l.add(result)
				}
				if l.opts.Recurse {
					children, err := os.ReadDir(fullPath)
					if err != nil {
						return
					}
					l.visit(fullPath, children)
				}
				return
			}
			if l.opts.IncludeFiles {
				l.add(result)
			}
		}()
	}
}

func (l *lister) add(result string) {
	l.mu.Lock()
	l.results = append(l.results, result)
	l.mu.Unlock()
}
