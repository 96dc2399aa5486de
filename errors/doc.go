// Package errors provides structured error types for the wasm-bundler packages.
//
// Errors are categorized by Phase (which pipeline step failed) and Kind (error category).
// The Error type carries the offending file, the JavaScript declaration involved,
// a path inside that declaration, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRewrite, errors.KindShapeMismatch).
//		File("pkg/rust_rng.js").
//		Decl("init").
//		Path("init", "body").
//		Detail("expected at least 3 statements, found 2").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseRewrite, "function declaration", "load")
//	err := errors.IO(errors.PhaseRead, path, cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
