// Package cache stores per-file scan results on disk so unchanged files
// can be reported without rescanning.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"srccheck/internal/diag"
)

// Current schema version - increment when Payload format changes
const schemaVersion uint16 = 1

// Key identifies the scan result of one file content under one rule configuration.
type Key [32]byte

// NewKey derives a key from the file hash and the rule options fingerprint.
func NewKey(contentHash [32]byte, fingerprint string) Key {
	h := sha256.New()
	h.Write([]byte{byte(schemaVersion >> 8), byte(schemaVersion)})
	h.Write(contentHash[:])
	h.Write([]byte(fingerprint))
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// Entry is one cached diagnostic; the path is supplied on replay.
type Entry struct {
	Code    uint16
	Line    uint32
	Message string
}

// Payload is the on-disk record.
type Payload struct {
	Schema  uint16
	Entries []Entry
}

// FromDiagnostics converts the diagnostics of one file into a payload.
func FromDiagnostics(ds []diag.Diagnostic) *Payload {
	p := &Payload{Schema: schemaVersion, Entries: make([]Entry, len(ds))}
	for i, d := range ds {
		p.Entries[i] = Entry{Code: uint16(d.Code), Line: d.Line, Message: d.Message}
	}
	return p
}

// Replay reports the cached diagnostics under path, in stored order.
func (p *Payload) Replay(path string, r diag.Reporter) {
	for _, e := range p.Entries {
		r.Report(diag.Diagnostic{Code: diag.Code(e.Code), Path: path, Line: e.Line, Message: e.Message})
	}
}

// Disk is a msgpack file cache. Safe for concurrent access.
type Disk struct {
	mu  sync.RWMutex
	dir string
}

// Open returns a cache rooted at dir, or at $XDG_CACHE_HOME/<app> when dir is empty.
func Open(app, dir string) (*Disk, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Disk) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Disk) pathFor(key Key) string {
	return filepath.Join(c.dir, "files", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload, replacing the file atomically.
func (c *Disk) Put(key Key, payload *Payload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = fmt.Errorf("failed to remove temp file: %w", rmErr)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or one written with another schema is a miss.
func (c *Disk) Get(key Key) (*Payload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var out Payload
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != schemaVersion {
		return nil, false, nil
	}
	return &out, true, nil
}

// DropAll removes every cached entry.
func (c *Disk) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

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
