// Package gltfcache provides a filesystem-backed core.SourceCache for
// source glTF image payloads.  File-backed entries resolve against the glTF
// root directory; embedded and buffer-backed payloads are held in memory
// under synthetic "bin/image<N>" names.
package gltfcache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Skryldev/texture-pipeline/codec"
	"github.com/Skryldev/texture-pipeline/core"
	apperrors "github.com/Skryldev/texture-pipeline/errors"
)

// Entry describes one source image payload.
type Entry struct {
	Name string // source-relative name, e.g. "textures/albedo.png"
	MIME string
	Path string // absolute on-disk path; empty for embedded payloads
	Data []byte // embedded payload; nil for file-backed entries
}

// Cache maps ImageIDs to payloads.  It is read-only to the pipeline.
type Cache struct {
	rootDir string
	entries map[core.ImageID]Entry
}

// New creates an empty cache rooted at the glTF directory.
func New(rootDir string) *Cache {
	return &Cache{rootDir: rootDir, entries: make(map[core.ImageID]Entry)}
}

// AddFile registers a file-backed image under its source-relative name.
func (c *Cache) AddFile(id core.ImageID, name string) {
	c.entries[id] = Entry{
		Name: name,
		MIME: codec.MimeForPath(name),
		Path: filepath.Join(c.rootDir, filepath.FromSlash(name)),
	}
}

// AddEmbedded registers an in-memory payload under a synthetic name derived
// from the image index and MIME type.
func (c *Cache) AddEmbedded(id core.ImageID, index int, mime string, data []byte) {
	c.entries[id] = Entry{
		Name: fmt.Sprintf("bin/image%d%s", index, codec.ExtensionForMime(mime)),
		MIME: mime,
		Data: data,
	}
}

// ImageName implements core.SourceCache.
func (c *Cache) ImageName(id core.ImageID) (string, string) {
	e, ok := c.entries[id]
	if !ok {
		return "", ""
	}
	return e.Name, e.MIME
}

// ImageBytes implements core.SourceCache.
func (c *Cache) ImageBytes(id core.ImageID) ([]byte, string, bool) {
	e, ok := c.entries[id]
	if !ok {
		return nil, "", false
	}
	if e.Data != nil {
		return e.Data, e.MIME, true
	}
	data, err := os.ReadFile(e.Path)
	if err != nil {
		return nil, "", false
	}
	return data, e.MIME, true
}

// ImageExists implements core.SourceCache.
func (c *Cache) ImageExists(id core.ImageID) bool {
	e, ok := c.entries[id]
	if !ok {
		return false
	}
	if e.Data != nil {
		return true
	}
	_, err := os.Stat(e.Path)
	return err == nil
}

// CopyImage implements core.SourceCache.
func (c *Cache) CopyImage(id core.ImageID, dstPath string) error {
	data, _, ok := c.ImageBytes(id)
	if !ok {
		return apperrors.New(apperrors.CategoryStorage, "cache.copy", apperrors.ErrMissingImage)
	}
	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "cache.copy", err)
	}
	return nil
}

// IsSourcePath implements core.SourceCache.
func (c *Cache) IsSourcePath(path string) bool {
	clean := filepath.Clean(path)
	for _, e := range c.entries {
		if e.Path != "" && filepath.Clean(e.Path) == clean {
			return true
		}
	}
	return false
}

// IsImageAtPath implements core.SourceCache.
func (c *Cache) IsImageAtPath(id core.ImageID, dir, name string) bool {
	e, ok := c.entries[id]
	if !ok || e.Path == "" {
		return false
	}
	return filepath.Clean(filepath.Join(dir, name)) == filepath.Clean(e.Path)
}

var _ core.SourceCache = (*Cache)(nil)
