// wasm-bundle packages a wasm-bindgen build for consumers that cannot import
// .wasm files. It base64-encodes the module into shard modules plus an
// aggregator and patches the generated binding to load from them.
//
// With no flags it uses the fixed layout relative to the working directory:
//
//	../../rust-rng/pkg/rust_rng_bg.wasm   payload
//	../../rust-rng/pkg/rust_rng.js        binding, rewritten in place
//	./wasm/                               shard0.js ... and index.js
//
// Every path and knob can be overridden for other layouts.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/wasm-bundler/bundler"
	"github.com/wippyai/wasm-bundler/payload"
	"github.com/wippyai/wasm-bundler/rewrite"
	"github.com/wippyai/wasm-bundler/shard"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(ctx, os.Args[1:], os.Stdout, styled); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, styled bool) error {
	var (
		base        string
		payloadPath string
		bindingPath string
		outDir      string
		importPath  string
		ext         string
		compress    string
		loadName    string
		initName    string
		importName  string
		shardSize   int
		initIndex   int
		verbose     bool
		quiet       bool
	)

	flags := pflag.NewFlagSet("wasm-bundle", pflag.ContinueOnError)
	flags.SetOutput(stdout)
	flags.StringVar(&base, "base", ".", "directory the default layout is resolved against")
	flags.StringVar(&payloadPath, "payload", "", "compiled wasm module (default: <base>/"+bundler.DefaultPackageDir+"/"+bundler.DefaultPayloadName+")")
	flags.StringVar(&bindingPath, "binding", "", "generated JS binding, rewritten in place (default: <base>/"+bundler.DefaultPackageDir+"/"+bundler.DefaultBindingName+")")
	flags.StringVar(&outDir, "out", "", "output directory for shards (default: <base>/"+bundler.DefaultOutputDir+")")
	flags.StringVar(&importPath, "import-path", "", "aggregator specifier used in the binding (default: computed)")
	flags.StringVar(&ext, "ext", bundler.DefaultExt, "extension of generated modules")
	flags.StringVar(&compress, "compress", string(payload.CompressionNone), "compress before encoding: none or zlib")
	flags.StringVar(&loadName, "load-name", rewrite.DefaultLoadName, "binding function whose body is replaced")
	flags.StringVar(&initName, "init-name", rewrite.DefaultInitName, "binding function losing the fetch statement")
	flags.StringVar(&importName, "import-name", rewrite.DefaultImportName, "local name of the aggregator import")
	flags.IntVar(&shardSize, "shard-size", shard.DefaultMaxChars, "maximum characters per shard")
	flags.IntVar(&initIndex, "init-statement", rewrite.DefaultInitStatement, "index of the init statement to drop")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	flags.BoolVarP(&quiet, "quiet", "q", false, "no logging")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flags.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", flags.Args())
	}

	logger, err := newLogger(verbose, quiet)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	bundler.SetLogger(logger)
	shard.SetLogger(logger.Named("shard"))
	rewrite.SetLogger(logger.Named("rewrite"))

	c, err := payload.ParseCompression(compress)
	if err != nil {
		return err
	}

	cfg := bundler.DefaultConfig(base)
	if payloadPath != "" {
		cfg.PayloadPath = payloadPath
	}
	if bindingPath != "" {
		cfg.BindingPath = bindingPath
	}
	if outDir != "" {
		cfg.OutputDir = outDir
	}
	cfg.ImportPath = importPath
	cfg.Ext = ext
	cfg.Compression = c
	cfg.LoadName = loadName
	cfg.InitName = initName
	cfg.ImportName = importName
	cfg.MaxChars = shardSize
	cfg.InitStatement = initIndex

	b, err := bundler.New(cfg)
	if err != nil {
		return err
	}
	res, err := b.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprint(stdout, renderSummary(res, styled))
	return nil
}

func newLogger(verbose, quiet bool) (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	return cfg.Build()
}
