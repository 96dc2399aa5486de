package bundler

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-bundler/errors"
	"github.com/wippyai/wasm-bundler/internal/fsutil"
	"github.com/wippyai/wasm-bundler/payload"
	"github.com/wippyai/wasm-bundler/rewrite"
	"github.com/wippyai/wasm-bundler/shard"
)

// Result summarizes a completed run.
type Result struct {
	PayloadDigest string
	Compression   payload.Compression
	ImportPath    string
	IndexPath     string
	BindingPath   string
	ShardPaths    []string
	PayloadSize   int
	EncodedLength int
	Duration      time.Duration
}

// Bundler runs the pipeline for one Config.
type Bundler struct {
	rewriter   *rewrite.Rewriter
	importPath string
	cfg        Config
}

// New validates cfg and prepares a Bundler.
func New(cfg Config) (*Bundler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	importPath, err := cfg.aggregatorImportPath()
	if err != nil {
		return nil, err
	}
	rw, err := rewrite.New(cfg.rewriteOptions(importPath))
	if err != nil {
		return nil, err
	}
	return &Bundler{cfg: cfg, importPath: importPath, rewriter: rw}, nil
}

// Config returns the configuration of b.
func (b *Bundler) Config() Config {
	return b.cfg
}

// Run executes the pipeline once.
func (b *Bundler) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	log := Logger()

	data, err := os.ReadFile(b.cfg.PayloadPath)
	if err != nil {
		return nil, errors.IO(errors.PhaseRead, b.cfg.PayloadPath, err)
	}
	digest := payload.Digest(data)
	log.Info("read payload",
		zap.String("path", b.cfg.PayloadPath),
		zap.Int("bytes", len(data)),
		zap.String("blake3", digest))

	if err := checkpoint(ctx, errors.PhaseEncode); err != nil {
		return nil, err
	}
	text, err := payload.Encode(data, b.cfg.Compression)
	if err != nil {
		return nil, err
	}
	log.Debug("encoded payload",
		zap.Stringer("compression", b.cfg.Compression),
		zap.Int("chars", len(text)))

	if err := checkpoint(ctx, errors.PhaseShard); err != nil {
		return nil, err
	}
	set, err := shard.Build(text, shard.Options{MaxChars: b.cfg.MaxChars, Ext: b.cfg.ext()})
	if err != nil {
		return nil, err
	}
	paths, err := shard.Write(set, b.cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	log.Info("wrote shards",
		zap.String("dir", b.cfg.OutputDir),
		zap.Int("shards", len(set.Shards)),
		zap.Int("max_chars", b.cfg.MaxChars))

	if err := checkpoint(ctx, errors.PhaseRead); err != nil {
		return nil, err
	}
	binding, err := os.ReadFile(b.cfg.BindingPath)
	if err != nil {
		return nil, errors.IO(errors.PhaseRead, b.cfg.BindingPath, err)
	}
	rewritten, err := b.rewriter.Rewrite(ctx, binding)
	if err != nil {
		return nil, withFile(err, b.cfg.BindingPath)
	}

	if err := fsutil.WriteFileSync(b.cfg.BindingPath, rewritten); err != nil {
		return nil, errors.IO(errors.PhaseWrite, b.cfg.BindingPath, err)
	}
	log.Info("rewrote binding",
		zap.String("path", b.cfg.BindingPath),
		zap.String("import", b.importPath))

	return &Result{
		PayloadSize:   len(data),
		PayloadDigest: digest,
		EncodedLength: len(text),
		Compression:   b.cfg.Compression,
		ShardPaths:    paths[:len(set.Shards)],
		IndexPath:     paths[len(paths)-1],
		BindingPath:   b.cfg.BindingPath,
		ImportPath:    b.importPath,
		Duration:      time.Since(start),
	}, nil
}

func checkpoint(ctx context.Context, phase errors.Phase) error {
	if err := ctx.Err(); err != nil {
		return errors.Canceled(phase, err)
	}
	return nil
}

// withFile attaches the binding path to rewrite and parse errors.
func withFile(err error, file string) error {
	if e, ok := err.(*errors.Error); ok && e.File == "" {
		e.File = file
	}
	return err
}
