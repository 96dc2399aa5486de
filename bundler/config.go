package bundler

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/wippyai/wasm-bundler/errors"
	"github.com/wippyai/wasm-bundler/payload"
	"github.com/wippyai/wasm-bundler/rewrite"
	"github.com/wippyai/wasm-bundler/shard"
)

// Default layout, relative to the bundler's own directory.
const (
	DefaultPackageDir  = "../../rust-rng/pkg"
	DefaultPayloadName = "rust_rng_bg.wasm"
	DefaultBindingName = "rust_rng.js"
	DefaultOutputDir   = "wasm"
	DefaultExt         = "js"
)

// Config holds every input of a run. Paths may be relative to the working
// directory; DefaultConfig anchors them to a base directory.
type Config struct {
	PayloadPath string
	BindingPath string
	OutputDir   string

	// ImportPath is the specifier the binding uses for the aggregator.
	// Empty means the relative path from the binding to OutputDir/index.<Ext>.
	ImportPath string

	Ext         string
	LoadName    string
	InitName    string
	ImportName  string
	Compression payload.Compression

	MaxChars int
	// InitStatement is the index of the init statement to drop. The zero
	// value is a valid index, so build configs from DefaultConfig.
	InitStatement int
}

// DefaultConfig returns the fixed layout rooted at baseDir.
func DefaultConfig(baseDir string) Config {
	pkg := filepath.Join(baseDir, filepath.FromSlash(DefaultPackageDir))
	return Config{
		PayloadPath:   filepath.Join(pkg, DefaultPayloadName),
		BindingPath:   filepath.Join(pkg, DefaultBindingName),
		OutputDir:     filepath.Join(baseDir, DefaultOutputDir),
		Ext:           DefaultExt,
		MaxChars:      shard.DefaultMaxChars,
		LoadName:      rewrite.DefaultLoadName,
		InitName:      rewrite.DefaultInitName,
		InitStatement: rewrite.DefaultInitStatement,
		ImportName:    rewrite.DefaultImportName,
		Compression:   payload.CompressionNone,
	}
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	switch {
	case c.PayloadPath == "":
		return errors.InvalidInput(errors.PhaseConfig, "payload path is empty")
	case c.BindingPath == "":
		return errors.InvalidInput(errors.PhaseConfig, "binding path is empty")
	case c.OutputDir == "":
		return errors.InvalidInput(errors.PhaseConfig, "output directory is empty")
	case c.MaxChars <= 0:
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.MaxChars).
			Detail("shard size must be positive, got %d", c.MaxChars).
			Build()
	}
	if _, err := payload.ParseCompression(c.Compression.String()); err != nil {
		return err
	}
	return nil
}

// aggregatorImportPath resolves ImportPath, computing it from the binding
// and output locations when unset.
func (c Config) aggregatorImportPath() (string, error) {
	if c.ImportPath != "" {
		return c.ImportPath, nil
	}

	bindingDir, err := filepath.Abs(filepath.Dir(c.BindingPath))
	if err != nil {
		return "", errors.IO(errors.PhaseConfig, c.BindingPath, err)
	}
	outDir, err := filepath.Abs(c.OutputDir)
	if err != nil {
		return "", errors.IO(errors.PhaseConfig, c.OutputDir, err)
	}
	rel, err := filepath.Rel(bindingDir, outDir)
	if err != nil {
		return "", errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err,
			"output directory is not reachable from the binding")
	}

	p := path.Join(filepath.ToSlash(rel), shard.IndexName+"."+c.ext())
	if !strings.HasPrefix(p, "../") {
		p = "./" + p
	}
	return p, nil
}

func (c Config) ext() string {
	if c.Ext == "" {
		return DefaultExt
	}
	return c.Ext
}

func (c Config) rewriteOptions(importPath string) rewrite.Options {
	opts := rewrite.DefaultOptions()
	if c.LoadName != "" {
		opts.LoadName = c.LoadName
	}
	if c.InitName != "" {
		opts.InitName = c.InitName
	}
	if c.ImportName != "" {
		opts.ImportName = c.ImportName
	}
	opts.InitStatement = c.InitStatement
	opts.ImportPath = importPath
	opts.Compression = c.Compression
	return opts
}
