package rewrite

import (
	"fmt"

	"github.com/wippyai/wasm-bundler/errors"
	"github.com/wippyai/wasm-bundler/payload"
)

// Replacement bodies for load. Neither uses await, so they stay valid whether
// or not the generated load is async; both return a promise of
// {instance, module}.
const (
	plainLoad = `async function load(module, imports) {
    const wasmBytes = Uint8Array.from(atob(%[1]s), (c) => c.charCodeAt(0));
    return WebAssembly.instantiate(wasmBytes, %[2]s);
}
`

	zlibLoad = `async function load(module, imports) {
    const wasmBytes = Uint8Array.from(atob(%[1]s), (c) => c.charCodeAt(0));
    const inflated = new Blob([wasmBytes]).stream().pipeThrough(new DecompressionStream("deflate"));
    return new Response(inflated).arrayBuffer().then((buffer) => WebAssembly.instantiate(buffer, %[2]s));
}
`
)

func loadSnippet(c payload.Compression, base64Name, importsName string) (string, error) {
	switch c {
	case "", payload.CompressionNone:
		return fmt.Sprintf(plainLoad, base64Name, importsName), nil
	case payload.CompressionZlib:
		return fmt.Sprintf(zlibLoad, base64Name, importsName), nil
	}
	return "", errors.Unsupported(errors.PhaseRewrite, "load snippet for compression "+c.String())
}
