// Package assets handles scene and texture file loading and caching.
package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/yasf/pkg/yasf"
)

// DefaultMaxConcurrentLoads bounds parallel texture reads.
const DefaultMaxConcurrentLoads = 8

// ErrNotFound is returned when a file is in none of the search roots.
var ErrNotFound = errors.New("file not found")

// Options configures a Manager.
type Options struct {
	MaxConcurrentLoads int
	// VerifyTextures checks that texture files hold image (or video) data.
	VerifyTextures bool
	Logger         *zap.Logger
}

// Manager handles file loading from a set of search roots.
type Manager struct {
	roots []string
	cache *Cache
	opts  Options
	log   *zap.Logger
	mu    sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager(opts Options) *Manager {
	if opts.MaxConcurrentLoads <= 0 {
		opts.MaxConcurrentLoads = DefaultMaxConcurrentLoads
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{
		cache: NewCache(),
		opts:  opts,
		log:   opts.Logger,
	}
}

// AddRoot adds a search directory to the manager.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding root %s: not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()

	return nil
}

// Roots returns the search roots in priority order, highest first.
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.roots))
	for i := len(m.roots) - 1; i >= 0; i-- {
		out = append(out, m.roots[i])
	}
	return out
}

// Load loads a file. Absolute paths are read as is; relative paths are
// looked up in the search roots.
func (m *Manager) Load(path string) ([]byte, error) {
	// Check cache first
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	if filepath.IsAbs(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		m.cache.Set(path, data)
		return data, nil
	}

	for _, root := range m.Roots() {
		data, err := os.ReadFile(filepath.Join(root, path))
		if err == nil {
			m.cache.Set(path, data)
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// LoadScene reads and parses a scene document. The scene's directory
// becomes a search root for its textures.
func (m *Manager) LoadScene(ctx context.Context, path string) (*yasf.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	doc, err := yasf.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if !m.hasRoot(dir) {
		if err := m.AddRoot(dir); err != nil {
			return nil, err
		}
	}

	m.log.Debug("Scene loaded",
		zap.String("path", path),
		zap.Int("nodes", len(doc.Graph.Nodes)),
		zap.Int("materials", len(doc.Materials)),
		zap.Int("textures", len(doc.Textures)))
	return doc, nil
}

func (m *Manager) hasRoot(dir string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.roots {
		if r == dir {
			return true
		}
	}
	return false
}

// Texture is a loaded texture file.
type Texture struct {
	ID      string
	Path    string
	MIME    string // Empty when the type was not sniffed
	Data    []byte
	Mipmaps [][]byte
}

// LoadTextures reads every texture of a document, including explicit
// mipmap levels, with bounded parallelism. The first failure cancels the
// remaining reads.
func (m *Manager) LoadTextures(ctx context.Context, doc *yasf.Document) (map[string]*Texture, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.MaxConcurrentLoads)

	var mu sync.Mutex
	out := make(map[string]*Texture, len(doc.Textures))

	for id, tex := range doc.Textures {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			loaded, err := m.loadTexture(tex)
			if err != nil {
				return fmt.Errorf("texture %s: %w", id, err)
			}
			mu.Lock()
			out[id] = loaded
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hits, misses := m.cache.Stats()
	m.log.Debug("Textures loaded",
		zap.Int("count", len(out)),
		zap.Int("cache_hits", hits),
		zap.Int("cache_misses", misses))
	return out, nil
}

func (m *Manager) loadTexture(tex *yasf.Texture) (*Texture, error) {
	data, err := m.Load(tex.FilePath)
	if err != nil {
		return nil, err
	}
	out := &Texture{ID: tex.ID, Path: tex.FilePath, Data: data}
	if out.MIME, err = m.sniff(tex.FilePath, data, tex.IsVideo); err != nil {
		return nil, err
	}

	for _, p := range tex.Mipmaps {
		level, err := m.Load(p)
		if err != nil {
			return nil, err
		}
		if _, err := m.sniff(p, level, false); err != nil {
			return nil, err
		}
		out.Mipmaps = append(out.Mipmaps, level)
	}
	return out, nil
}

// sniff returns the MIME type of data, and when verification is on,
// rejects files that are not images (or videos).
func (m *Manager) sniff(path string, data []byte, video bool) (string, error) {
	kind, _ := filetype.Match(data)
	mime := ""
	if kind != filetype.Unknown {
		mime = kind.MIME.Value
	}
	if !m.opts.VerifyTextures {
		return mime, nil
	}

	if video {
		if !filetype.IsVideo(data) {
			return "", fmt.Errorf("%s is not a video file", path)
		}
	} else if !filetype.IsImage(data) {
		return "", fmt.Errorf("%s is not an image file", path)
	}
	return mime, nil
}

// Close drops cached data and search roots.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roots = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded files.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Invalidate removes one item, so the next load reads it again.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Cache returns the manager's file cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}
