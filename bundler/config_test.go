package bundler

import (
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/wippyai/wasm-bundler/errors"
	"github.com/wippyai/wasm-bundler/payload"
	"github.com/wippyai/wasm-bundler/rewrite"
	"github.com/wippyai/wasm-bundler/shard"
)

func TestDefaultConfig(t *testing.T) {
	base := filepath.Join("repo", "packages", "wasm-bundler")
	cfg := DefaultConfig(base)

	if want := filepath.Join("repo", "rust-rng", "pkg", "rust_rng_bg.wasm"); cfg.PayloadPath != want {
		t.Errorf("PayloadPath = %s, want %s", cfg.PayloadPath, want)
	}
	if want := filepath.Join("repo", "rust-rng", "pkg", "rust_rng.js"); cfg.BindingPath != want {
		t.Errorf("BindingPath = %s, want %s", cfg.BindingPath, want)
	}
	if want := filepath.Join(base, "wasm"); cfg.OutputDir != want {
		t.Errorf("OutputDir = %s, want %s", cfg.OutputDir, want)
	}
	if cfg.MaxChars != shard.DefaultMaxChars || cfg.MaxChars != 1<<20 {
		t.Errorf("MaxChars = %d", cfg.MaxChars)
	}
	if cfg.InitStatement != rewrite.DefaultInitStatement {
		t.Errorf("InitStatement = %d", cfg.InitStatement)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]func(*Config){
		"no payload":      func(c *Config) { c.PayloadPath = "" },
		"no binding":      func(c *Config) { c.BindingPath = "" },
		"no output":       func(c *Config) { c.OutputDir = "" },
		"zero shard size": func(c *Config) { c.MaxChars = 0 },
		"bad compression": func(c *Config) { c.Compression = "xz" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig(t.TempDir())
			mutate(&cfg)
			err := cfg.Validate()
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindInvalidInput}) {
				t.Errorf("err = %v, want config invalid_input", err)
			}
			if _, err := New(cfg); err == nil {
				t.Error("New accepted an invalid config")
			}
		})
	}
}

func TestConfig_ImportPath(t *testing.T) {
	base := t.TempDir()
	tests := []struct {
		name     string
		binding  string
		out      string
		ext      string
		explicit string
		want     string
	}{
		{
			name:    "output next to binding",
			binding: filepath.Join(base, "pkg", "rust_rng.js"),
			out:     filepath.Join(base, "pkg", "wasm"),
			want:    "./wasm/index.js",
		},
		{
			name:    "same directory",
			binding: filepath.Join(base, "pkg", "rust_rng.js"),
			out:     filepath.Join(base, "pkg"),
			ext:     "mjs",
			want:    "./index.mjs",
		},
		{
			name:    "default layout",
			binding: filepath.Join(base, "rust-rng", "pkg", "rust_rng.js"),
			out:     filepath.Join(base, "packages", "wasm-bundler", "wasm"),
			want:    "../../packages/wasm-bundler/wasm/index.js",
		},
		{
			name:     "explicit",
			binding:  filepath.Join(base, "pkg", "rust_rng.js"),
			out:      filepath.Join(base, "elsewhere"),
			explicit: "./wasm/index.js",
			want:     "./wasm/index.js",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(base)
			cfg.BindingPath = tt.binding
			cfg.OutputDir = tt.out
			cfg.ImportPath = tt.explicit
			if tt.ext != "" {
				cfg.Ext = tt.ext
			}
			got, err := cfg.aggregatorImportPath()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("import path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_RewriteOptions(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	cfg.LoadName = "__wbg_load"
	cfg.InitName = "__wbg_init"
	cfg.Compression = payload.CompressionZlib

	opts := cfg.rewriteOptions("./x/index.js")
	if opts.LoadName != "__wbg_load" || opts.InitName != "__wbg_init" {
		t.Errorf("names = %s/%s", opts.LoadName, opts.InitName)
	}
	if opts.ImportPath != "./x/index.js" || opts.ImportName != rewrite.DefaultImportName {
		t.Errorf("import = %s from %s", opts.ImportName, opts.ImportPath)
	}
	if opts.Compression != payload.CompressionZlib || opts.InitStatement != 2 {
		t.Errorf("opts = %+v", opts)
	}
}
