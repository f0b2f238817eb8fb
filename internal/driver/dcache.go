package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"sweep/internal/engine"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest identifies a file content / policy combination.
type Digest [sha256.Size]byte

// DiskCache запоминает, какие файлы уже находятся в неподвижной точке при
// данной политике, чтобы повторные прогоны не запускали анализатор заново.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached record for one clean file.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// Fingerprint repeats the cache key so a truncated or foreign record
	// can never be mistaken for a hit.
	Fingerprint Digest

	// CheckedAt is the unix time of the run that produced the record.
	CheckedAt int64
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
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства читаемости/очистки — подкаталог "clean".
	return filepath.Join(c.dir, "clean", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
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
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "failed to remove temp file: %v\n", rmErr)
		}
	}()

	enc := msgpack.NewEncoder(f)
	err = enc.Encode(payload)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			panic(closeErr)
		}
	}()
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим в фоне
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// CacheKey hashes file content together with the removal policy: the same
// bytes under a stricter policy are a different cache entry.
func CacheKey(content []byte, p engine.Policy) Digest {
	h := sha256.New()
	h.Write(content)
	fmt.Fprintf(h, "|all=%t|vars=%t", p.RemoveAllImports, p.RemoveVariables)
	additional := append([]string(nil), p.AdditionalImports...)
	sort.Strings(additional)
	for _, name := range additional {
		_, _ = io.WriteString(h, "|"+name)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// CleanPayload builds the record stored for a file at its fixed point.
func CleanPayload(key Digest) *DiskPayload {
	return &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Fingerprint: key,
		CheckedAt:   time.Now().Unix(),
	}
}

// ValidPayload reports whether a cached record may be trusted for key.
func ValidPayload(p *DiskPayload, key Digest) bool {
	return p != nil && p.Schema == diskCacheSchemaVersion && p.Fingerprint == key
}
