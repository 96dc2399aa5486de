// Package wasmbundler packages a compiled WebAssembly module and its generated
// JavaScript binding so that any JavaScript consumer can load the module
// without a bundler plugin or a fetch of a .wasm asset.
//
// # Overview
//
// The module bytes are base64-encoded and cut into shard modules of at most
// 1 MiB of characters each, plus an aggregator module that concatenates them.
// The generated binding is then rewritten so that its load function decodes
// the aggregator string and instantiates the module from those bytes.
//
//	wasmbundler/
//	├── payload/         base64 encoding, optional zlib, BLAKE3 digest
//	├── shard/           splitting, shard and aggregator modules, writing
//	├── rewrite/         tree-sitter based rewrite of the generated binding
//	├── bundler/         Config and the end-to-end pipeline
//	├── errors/          structured error types
//	└── cmd/wasm-bundle  command line entry point
//
// # Quick Start
//
//	cfg := bundler.DefaultConfig(".")
//	b, err := bundler.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := b.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(res.ShardPaths), "shards")
//
// # Generated Files
//
// For an output directory wasm/ the step writes
//
//	wasm/shard0.js   export default function () { return "AGFzbQ..."; }
//	wasm/shard1.js   ...
//	wasm/index.js    import shard0 from "./shard0.js"; ...
//	                 export default "" + shard0() + shard1();
//
// and the binding gains
//
//	import wasmBase64 from "./wasm/index.js";
//
// # Limitations
//
// The init statement that is dropped is chosen by position, matching the
// shape of wasm-bindgen output. Bindings of any other shape are rejected.
// Concurrent runs against one output directory are not supported.
package wasmbundler
