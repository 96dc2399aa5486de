// Package bundler runs the whole packaging step: it encodes a compiled wasm
// module as base64, writes it out as size-bounded JavaScript shard modules plus
// an aggregator, and rewrites the generated binding so it loads the module
// from the aggregator instead of fetching a .wasm file.
//
// # Pipeline
//
//  1. Read Config.PayloadPath.
//  2. payload.Encode, optionally zlib-compressing first.
//  3. shard.Build and shard.Write into Config.OutputDir.
//  4. Read Config.BindingPath and rewrite it with package rewrite.
//  5. Overwrite Config.BindingPath with the result.
//
// Steps run strictly in order on the calling goroutine. Every file is fsynced
// before the next step starts, and the binding is only touched once the
// shards and aggregator are on disk. A failing step aborts the run; nothing
// is retried and a rerun overwrites every artifact.
//
// Two runs against the same output directory must not overlap.
package bundler
