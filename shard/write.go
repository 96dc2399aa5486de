package shard

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-bundler/errors"
	"github.com/wippyai/wasm-bundler/internal/fsutil"
)

// Write materializes set in dir and returns the written paths, shards first
// and the aggregator last. dir is created if needed. Existing files with the
// same names are overwritten, and shard files beyond the new count left by an
// earlier run are removed so the directory matches the aggregator.
func Write(set *Set, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.IO(errors.PhaseWrite, dir, err)
	}

	paths := make([]string, 0, len(set.Shards)+1)
	for _, f := range set.Shards {
		p := filepath.Join(dir, f.Name)
		if err := fsutil.WriteFileSync(p, f.Source); err != nil {
			return paths, errors.IO(errors.PhaseWrite, p, err)
		}
		Logger().Debug("wrote shard",
			zap.String("path", p),
			zap.Int("index", f.Index),
			zap.Int("bytes", len(f.Chunk)))
		paths = append(paths, p)
	}

	p := filepath.Join(dir, set.Index.Name)
	if err := fsutil.WriteFileSync(p, set.Index.Source); err != nil {
		return paths, errors.IO(errors.PhaseWrite, p, err)
	}
	paths = append(paths, p)

	if err := removeStale(dir, set); err != nil {
		return paths, err
	}
	return paths, nil
}

func removeStale(dir string, set *Set) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.IO(errors.PhaseWrite, dir, err)
	}

	suffix := "." + set.Ext
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, set.Prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		num := strings.TrimSuffix(strings.TrimPrefix(name, set.Prefix), suffix)
		n, err := strconv.Atoi(num)
		if err != nil || n < len(set.Shards) || strconv.Itoa(n) != num {
			continue
		}
		p := filepath.Join(dir, name)
		if err := os.Remove(p); err != nil {
			return errors.IO(errors.PhaseWrite, p, err)
		}
		Logger().Debug("removed stale shard", zap.String("path", p))
	}
	return nil
}
