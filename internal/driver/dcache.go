package driver

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"pasclang/internal/diag"
	"pasclang/internal/source"
)

// Current schema version - increment when DiskPayload format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores front-end results keyed by source content hash, so an
// unchanged file can replay its diagnostics without re-running the front
// end. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedDiag is the serialized form of one diagnostic.
type CachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	HasSpan  bool
}

// DiskPayload stores the cached front-end outcome for one source file.
type DiskPayload struct {
	// Schema version for safe invalidation when the format changes
	Schema uint16

	Path     string
	Diags    []CachedDiag
	Category int
}

// OpenDiskCache initializes and returns a disk cache at the standard
// location ($XDG_CACHE_HOME/<app> or ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key [32]byte) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "fe", hexKey+".msgpack")
}

// Load returns the payload recorded for key, if present and readable with
// the current schema.
func (c *DiskCache) Load(key [32]byte) (*DiskPayload, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// #nosec G304 -- path is derived from the content hash
	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	var payload DiskPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false
	}
	return &payload, true
}

// Store writes the payload for key, creating the subdirectory on demand.
func (c *DiskCache) Store(key [32]byte, payload *DiskPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = diskCacheSchemaVersion
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return err
	}
	target := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o600)
}

// Clear removes every cached entry.
func (c *DiskCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.RemoveAll(filepath.Join(c.dir, "fe"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// PackDiags converts bag contents to the serialized form.
func PackDiags(bag *diag.Bag) []CachedDiag {
	items := bag.Items()
	out := make([]CachedDiag, 0, len(items))
	for _, d := range items {
		out = append(out, CachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			HasSpan:  d.HasSpan,
		})
	}
	return out
}

// UnpackDiags rebuilds a Bag from the serialized form. Every span refers to
// fileID, the re-loaded copy of the cached source.
func UnpackDiags(cached []CachedDiag, fileID source.FileID, max int) *diag.Bag {
	bag := diag.NewBag(max)
	for _, d := range cached {
		bag.Add(diag.Diagnostic{
			Severity: diag.Severity(d.Severity),
			Code:     diag.Code(d.Code),
			Message:  d.Message,
			Primary:  source.Span{File: fileID, Start: d.Start, End: d.End},
			HasSpan:  d.HasSpan,
		})
	}
	return bag
}
