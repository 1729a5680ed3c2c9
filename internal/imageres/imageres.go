// Package imageres resolves image references of a document to files and
// reads their pixel size.
package imageres

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type entry struct {
	path   string
	width  int
	height int
	ok     bool
}

// Resolver maps references relative to a base directory and caches the
// decoded dimensions per reference.
type Resolver struct {
	base string
	log  *zap.Logger

	mu    sync.Mutex
	cache map[string]entry
}

// New creates a resolver for documents in dir.
func New(dir string, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{base: dir, log: log, cache: make(map[string]entry)}
}

// Resolve reports the file raw refers to and its size in pixels. Remote
// references and unreadable files are not resolved.
func (r *Resolver) Resolve(raw string) (string, int, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.cache[raw]; ok {
		return e.path, e.width, e.height, e.ok
	}
	e := r.lookup(raw)
	r.cache[raw] = e
	return e.path, e.width, e.height, e.ok
}

// Invalidate forgets every cached result.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.cache = make(map[string]entry)
	r.mu.Unlock()
}

func (r *Resolver) lookup(raw string) entry {
	path, ok := r.path(raw)
	if !ok {
		return entry{}
	}
	w, h, err := decodeSize(path)
	if err != nil {
		r.log.Debug("image size", zap.String("path", path), zap.Error(err))
		return entry{path: path}
	}
	return entry{path: path, width: w, height: h, ok: true}
}

func (r *Resolver) path(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return "", false
	}
	raw = strings.TrimPrefix(raw, "file:")
	if strings.HasPrefix(raw, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		raw = filepath.Join(home, raw[2:])
	}
	if !filepath.IsAbs(raw) {
		raw = filepath.Join(r.base, raw)
	}
	return filepath.Clean(raw), true
}

func decodeSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}
