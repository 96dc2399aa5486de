// Package payload turns an opaque binary module into text that can be embedded
// in a JavaScript string literal, and back.
//
// The mapping is standard padded base64 without line wrapping. When
// compression is enabled the bytes are zlib-compressed first; consumers then
// inflate with DecompressionStream("deflate") after base64 decoding.
//
// Nothing in this package interprets the payload. A wasm module, an empty
// file and random noise are all encoded the same way.
package payload
