// Package images indexes the workspace images that IMG_ cells refer to.
package images

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultGlobs match every image format Probe can decode
var DefaultGlobs = []string{"**/*.{png,gif,jpg,jpeg,bmp,tiff,webp}"}

// ErrNotFound indicates an image name that matches no indexed file
var ErrNotFound = errors.New("image not found")

// Info describes an image file without decoding its pixels
type Info struct {
	// Path is the slash-separated path relative to the index root
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type probeEntry struct {
	modTime time.Time
	info    Info
}

// Index maps image names to files under a workspace root.
// It is safe for concurrent use.
type Index struct {
	mu     sync.RWMutex
	root   string
	globs  []string
	paths  []string            // sorted relative slash paths
	byBase map[string][]string // base name -> relative paths
	probes map[string]probeEntry
}

// NewIndex creates an empty index. Call Refresh to populate it.
func NewIndex() *Index {
	return &Index{
		byBase: make(map[string][]string),
		probes: make(map[string]probeEntry),
	}
}

// Refresh rescans root for files matching globs. Patterns that fail are
// reported together; files matched by the others are still indexed.
func (x *Index) Refresh(root string, globs []string) error {
	if len(globs) == 0 {
		globs = DefaultGlobs
	}

	var paths []string
	var errs []error
	if root != "" {
		fsys := os.DirFS(root)
		for _, pattern := range globs {
			matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
			if err != nil {
				errs = append(errs, fmt.Errorf("glob %q: %w", pattern, err))
				continue
			}
			paths = append(paths, matches...)
		}
	}
	slices.Sort(paths)
	paths = slices.Compact(paths)

	byBase := make(map[string][]string, len(paths))
	for _, p := range paths {
		base := path.Base(p)
		byBase[base] = append(byBase[base], p)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if x.root != root {
		x.probes = make(map[string]probeEntry)
	}
	x.root = root
	x.globs = globs
	x.paths = paths
	x.byBase = byBase

	return errors.Join(errs...)
}

// Root returns the directory the index was built from
func (x *Index) Root() string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.root
}

// Paths returns every indexed image as a relative slash path, sorted
func (x *Index) Paths() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return slices.Clone(x.paths)
}

// Len returns the number of indexed images
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.paths)
}

// Matches reports whether a relative path would be picked up by the index globs
func (x *Index) Matches(rel string) bool {
	x.mu.RLock()
	globs := x.globs
	x.mu.RUnlock()
	if len(globs) == 0 {
		globs = DefaultGlobs
	}

	rel = filepath.ToSlash(rel)
	for _, pattern := range globs {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Lookup resolves the text of an IMG_ cell to an indexed relative path.
// An exact relative path wins; otherwise the name is matched by base name,
// preferring the shallowest file.
func (x *Index) Lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	name = path.Clean(filepath.ToSlash(name))

	x.mu.RLock()
	defer x.mu.RUnlock()

	if _, found := slices.BinarySearch(x.paths, name); found {
		return name, true
	}

	candidates := x.byBase[path.Base(name)]
	if len(candidates) == 0 {
		return "", false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if depth(c) < depth(best) {
			best = c
		}
	}
	return best, true
}

func depth(p string) int {
	n := 0
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			n++
		}
	}
	return n
}

// Probe reads the header of the named image. Results are cached until the
// file's modification time changes.
func (x *Index) Probe(name string) (Info, error) {
	rel, ok := x.Lookup(name)
	if !ok {
		return Info{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	abs := filepath.Join(x.Root(), filepath.FromSlash(rel))
	stat, err := os.Stat(abs)
	if err != nil {
		return Info{}, fmt.Errorf("stat %s: %w", rel, err)
	}

	x.mu.RLock()
	cached, hit := x.probes[rel]
	x.mu.RUnlock()
	if hit && cached.modTime.Equal(stat.ModTime()) {
		return cached.info, nil
	}

	info, err := probeFile(abs)
	if err != nil {
		return Info{}, err
	}
	info.Path = rel

	x.mu.Lock()
	x.probes[rel] = probeEntry{modTime: stat.ModTime(), info: info}
	x.mu.Unlock()

	return info, nil
}

// Forget drops cached header data for a relative path
func (x *Index) Forget(rel string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.probes, filepath.ToSlash(rel))
}

func probeFile(abs string) (Info, error) {
	f, err := os.Open(abs)
	if err != nil {
		return Info{}, err
	}
	defer func() { _ = f.Close() }()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("decode %s: %w", filepath.Base(abs), err)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
