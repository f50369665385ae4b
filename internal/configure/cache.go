package configure

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/whiskeyjimb/sitetools/internal/meta"
)

// Cache stores probe outcomes so repeated configure runs skip compiling
// programs whose inputs did not change.
type Cache struct {
	// Entries maps a probe key (see Key) to its cached outcome.
	Entries map[string]CacheEntry `json:"entries"`
}

// CacheEntry is one cached probe outcome. Compiler metadata invalidates the
// entry when the compiler binary changes.
type CacheEntry struct {
	Compiler        string    `json:"compiler"`
	CompilerModTime time.Time `json:"compiler_mod_time"`
	CompilerSize    int64     `json:"compiler_size"`
	OK              bool      `json:"ok"`
	Output          string    `json:"output"`
}

// NewCache creates a new, empty cache.
func NewCache() *Cache {
	return &Cache{
		Entries: make(map[string]CacheEntry),
	}
}

// LoadCache reads the probe cache from disk.
// Returns an empty cache if the file does not exist or is invalid.
func LoadCache(path string) *Cache {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewCache()
	}

	var cache Cache
	if err := json.Unmarshal(data, &cache); err != nil {
		return NewCache()
	}

	if cache.Entries == nil {
		cache.Entries = make(map[string]CacheEntry)
	}

	return &cache
}

// Save writes the probe cache to disk.
func (c *Cache) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Key hashes a probe's command line and source text.
func Key(args []string, source string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(args, "\x00")))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the entry for key if it was recorded against the same
// compiler binary (path, size and modification time).
func (c *Cache) Lookup(key, compiler string) (CacheEntry, bool) {
	entry, ok := c.Entries[key]
	if !ok || entry.Compiler != compiler {
		return CacheEntry{}, false
	}
	info, err := os.Stat(compiler)
	if err != nil {
		return CacheEntry{}, false
	}
	if info.Size() != entry.CompilerSize || !info.ModTime().Equal(entry.CompilerModTime) {
		return CacheEntry{}, false
	}
	return entry, true
}

// Store records an outcome for key. Only successful probes are kept: a
// failure may be fixed by installing a header or library, which the key
// does not cover. Probes whose compiler cannot be stat'ed are not cached.
func (c *Cache) Store(key, compiler string, ok bool, output string) {
	if !ok {
		return
	}
	info, err := os.Stat(compiler)
	if err != nil {
		return
	}
	c.Entries[key] = CacheEntry{
		Compiler:        compiler,
		CompilerModTime: info.ModTime(),
		CompilerSize:    info.Size(),
		OK:              ok,
		Output:          output,
	}
}

// DefaultCachePath returns the default location for the probe cache.
// ~/.sitetools/probe_cache.json
func DefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+meta.AppName, "probe_cache.json")
	}
	return filepath.Join(home, "."+meta.AppName, "probe_cache.json")
}
