// Package assets resolves logo references into values usable as an image
// source: remote URLs pass through, local files are embedded as data URIs.
package assets

import (
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
)

// Resolver turns logo references into image sources. Local files are read
// once and cached by path; missing files are looked up again on each call.
type Resolver struct {
	root string

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]string
}

// NewResolver creates a Resolver. Relative local references are tried as
// given first and then under root.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root, cache: make(map[string]string)}
}

// Source returns the image source for ref, or "" when the asset cannot be
// read. A missing asset is never an error.
func (r *Resolver) Source(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if catalog.IsRemote(ref) {
		return ref
	}

	r.mu.RLock()
	src, ok := r.cache[ref]
	r.mu.RUnlock()
	if ok {
		return src
	}

	v, _, _ := r.group.Do(ref, func() (any, error) {
		src, err := r.embed(ref)
		if err != nil {
			// Not cached, so a logo added later is picked up.
			zap.L().Debug("assets: unresolved logo", zap.String("ref", ref), zap.Error(err))
			return "", nil
		}
		r.mu.Lock()
		r.cache[ref] = src
		r.mu.Unlock()
		return src, nil
	})
	return v.(string)
}

// Exists reports whether a local reference points at a readable file.
// Remote references are assumed to exist.
func (r *Resolver) Exists(ref string) bool {
	if catalog.IsRemote(ref) {
		return true
	}
	_, err := r.locate(ref)
	return err == nil
}

func (r *Resolver) embed(ref string) (string, error) {
	path, err := r.locate(ref)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "assets: read %s", path)
	}
	return "data:" + MediaType(path) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (r *Resolver) locate(ref string) (string, error) {
	candidates := []string{ref}
	if r.root != "" && !filepath.IsAbs(ref) {
		candidates = append(candidates, filepath.Join(r.root, ref))
	}
	for _, c := range candidates {
		info, err := os.Stat(c)
		if err == nil && !info.IsDir() {
			return c, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", eris.Wrapf(err, "assets: stat %s", c)
		}
	}
	return "", eris.Wrapf(fs.ErrNotExist, "assets: %s", ref)
}

// MediaType picks the data URI media type from the file extension.
func MediaType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
