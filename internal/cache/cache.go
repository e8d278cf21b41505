// Package cache is a best-effort replay cache of raw remote documents,
// one JSON file per problem slug. It makes repeated runs resumable
// without re-hitting the remote API; entries have no expiry and are
// trusted once written.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Kind selects the per-slug subdirectory a document belongs to.
type Kind string

const (
	KindProblem Kind = "problems"
	KindArticle Kind = "articles"
)

const catalogFile = "problems.json"

// Cache stores raw JSON documents under a data directory.
type Cache struct {
	dir string
}

// New creates the data directory layout and returns a cache rooted there.
func New(dir string) (*Cache, error) {
	for _, sub := range []string{"", string(KindProblem), string(KindArticle)} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the root data directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Read returns the cached document for a slug, or ok=false when the
// file is missing, unreadable, or not valid JSON. A file that exists
// but cannot be parsed is treated as a miss so the pipeline refetches,
// but the corruption is logged rather than swallowed silently.
func (c *Cache) Read(kind Kind, slug string) (json.RawMessage, bool) {
	return c.read(c.path(kind, slug))
}

// Write stores a document for a slug, overwriting any existing file.
// Unlike reads, write failures are fatal for the item being fetched.
func (c *Cache) Write(kind Kind, slug string, doc json.RawMessage) error {
	return c.write(c.path(kind, slug), doc)
}

// ReadCatalog returns the cached problem catalog snapshot, if any.
func (c *Cache) ReadCatalog() (json.RawMessage, bool) {
	return c.read(filepath.Join(c.dir, catalogFile))
}

// WriteCatalog stores the problem catalog snapshot.
func (c *Cache) WriteCatalog(doc json.RawMessage) error {
	return c.write(filepath.Join(c.dir, catalogFile), doc)
}

func (c *Cache) path(kind Kind, slug string) string {
	return filepath.Join(c.dir, string(kind), slug+".json")
}

func (c *Cache) read(path string) (json.RawMessage, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read cache file", "path", path, "error", err)
		}
		return nil, false
	}

	var doc json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("Cache file is corrupt, treating as missing", "path", path, "error", err)
		return nil, false
	}
	return doc, true
}

func (c *Cache) write(path string, doc json.RawMessage) error {
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file %s: %w", path, err)
	}
	return nil
}
