// Package driver turns the single-buffer engine into a file tool: encoding
// round-trips, the clean-file cache, directory walking and the parallel
// runner.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"sweep/internal/difffmt"
	"sweep/internal/engine"
)

// Driver fixes files on disk with one shared engine.
type Driver struct {
	Engine *engine.Engine
	// Cache, when set, skips files already known to be at their fixed
	// point under the engine's policy.
	Cache *DiskCache
	// InPlace writes changes back; otherwise results carry a diff.
	InPlace bool
}

// Result of fixing one file. Err is per-file: one unreadable file does not
// abort a batch.
type Result struct {
	Path    string
	Changed bool   // the fix run produced different text
	Cached  bool   // skipped via the clean-file cache
	Diff    string // unified diff, set only when not in-place
	Err     error
}

// FixFile runs the full per-file pipeline: read, cache check, decode, fix,
// and either write back or render a diff.
func (d *Driver) FixFile(ctx context.Context, path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Err: err}
	}

	key := CacheKey(data, d.Engine.Policy)
	if d.Cache != nil {
		var payload DiskPayload
		if ok, _ := d.Cache.Get(key, &payload); ok && ValidPayload(&payload, key) {
			return Result{Path: path, Cached: true}
		}
	}

	text, fe := Decode(data)

	fixed, err := d.Engine.FixCode(ctx, text)
	if err != nil {
		return Result{Path: path, Err: err}
	}

	if fixed == text {
		// Кэшируем только чистые файлы: изменённые получат новый ключ.
		_ = d.Cache.Put(key, CleanPayload(key))
		return Result{Path: path}
	}

	if !d.InPlace {
		diff, err := difffmt.Unified(path, text, fixed)
		if err != nil {
			return Result{Path: path, Err: err}
		}
		return Result{Path: path, Changed: true, Diff: diff}
	}

	out, err := fe.Encode(fixed)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("%s: %w", path, err)}
	}
	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, out, mode); err != nil {
		return Result{Path: path, Err: err}
	}
	_ = d.Cache.Put(CacheKey(out, d.Engine.Policy), CleanPayload(CacheKey(out, d.Engine.Policy)))
	return Result{Path: path, Changed: true}
}
