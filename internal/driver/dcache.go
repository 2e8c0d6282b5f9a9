package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"codex/internal/diag"
	"codex/internal/project"
	"codex/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты анализа файлов на диске, ключ - хеш
// содержимого вместе с отпечатком настроек.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores the diagnostics of one analyzed file.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Lines       uint32
	Diagnostics []CachedDiagnostic
}

// CachedDiagnostic is a diagnostic without its FileID; every position
// refers to the file the payload was stored for.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Line     uint32
	Col      uint32
	Message  string
	Excerpt  string
	Notes    []CachedNote
	Fixes    []diag.Fix
}

type CachedNote struct {
	Line uint32
	Col  uint32
	Msg  string
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache root.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первым двум символам, чтобы не копить тысячи файлов в одном
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Payloads of a
// different schema count as misses.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// cacheKey combines the file content hash with the analysis settings.
func cacheKey(file *source.File, fingerprint project.Digest) project.Digest {
	return project.Combine(project.Digest(file.Hash), fingerprint)
}

func toPayload(lines uint32, diags []diag.Diagnostic) *DiskPayload {
	payload := &DiskPayload{
		Lines:       lines,
		Diagnostics: make([]CachedDiagnostic, len(diags)),
	}
	for i, d := range diags {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Line:     d.Primary.Line,
			Col:      d.Primary.Col,
			Message:  d.Message,
			Excerpt:  d.Excerpt,
			Fixes:    d.Fixes,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Line: n.Pos.Line, Col: n.Pos.Col, Msg: n.Msg})
		}
		payload.Diagnostics[i] = cd
	}
	return payload
}

// fromPayload rebuilds diagnostics for file id.
func fromPayload(id source.FileID, payload *DiskPayload) []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(payload.Diagnostics))
	for i, cd := range payload.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), source.At(id, cd.Line, cd.Col), cd.Message)
		d.Excerpt = cd.Excerpt
		d.Fixes = cd.Fixes
		for _, n := range cd.Notes {
			d = d.WithNote(source.At(id, n.Line, n.Col), n.Msg)
		}
		out[i] = d
	}
	return out
}
