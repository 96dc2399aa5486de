// Package rewrite patches a generated wasm-bindgen style JavaScript binding so
// that it loads its wasm module from the base64 aggregator produced by package
// shard instead of fetching a .wasm file.
//
// The binding is parsed with tree-sitter and two top-level function
// declarations are located by name:
//
//   - load: its whole statement body is replaced by a snippet that decodes the
//     aggregator string (inflating it when compression is on) and returns
//     WebAssembly.instantiate(bytes, imports). The snippet is itself parsed,
//     and it uses the imports parameter name of the original function.
//   - init: the statement at a fixed index (2 for wasm-bindgen output, the
//     fetch of the default .wasm URL) becomes an empty statement.
//
// Everything else is preserved byte for byte. An import of the aggregator is
// prepended, after a hashbang line if there is one. A binding that already
// starts with that exact import is treated as previously rewritten: the import
// is dropped before parsing, so rewriting it again gives identical output.
//
// The init index is positional. It follows the shape wasm-bindgen emits and
// has to be checked again whenever the generator changes its output. A binding
// that does not have the expected shape is rejected with a shape_mismatch
// error rather than passed through.
package rewrite
