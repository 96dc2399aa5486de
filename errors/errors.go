package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
)

// Phase indicates which pipeline step produced the error
type Phase string

const (
	PhaseConfig  Phase = "config"  // configuration validation
	PhaseRead    Phase = "read"    // reading payload or binding
	PhaseEncode  Phase = "encode"  // bytes to text
	PhaseDecode  Phase = "decode"  // text to bytes
	PhaseShard   Phase = "shard"   // splitting and rendering shard modules
	PhaseParse   Phase = "parse"   // JavaScript parsing
	PhaseRewrite Phase = "rewrite" // binding transformation
	PhaseWrite   Phase = "write"   // writing artifacts
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindIO            Kind = "io"
	KindInvalidInput  Kind = "invalid_input"
	KindInvalidData   Kind = "invalid_data"
	KindShapeMismatch Kind = "shape_mismatch"
	KindParse         Kind = "parse"
	KindUnsupported   Kind = "unsupported"
	KindCanceled      Kind = "canceled"
)

// Error is the structured error type used throughout the bundler
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	File   string
	Decl   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.File != "" || e.Decl != "" {
		b.WriteString(": ")
		if e.File != "" && e.Decl != "" {
			b.WriteString("file ")
			b.WriteString(e.File)
			b.WriteString(", declaration ")
			b.WriteString(e.Decl)
		} else if e.File != "" {
			b.WriteString("file ")
			b.WriteString(e.File)
		} else {
			b.WriteString("declaration ")
			b.WriteString(e.Decl)
		}
	}

	if e.Detail != "" {
		if e.File != "" || e.Decl != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the path inside the declaration
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// File sets the file the error concerns
func (b *Builder) File(name string) *Builder {
	b.err.File = name
	return b
}

// Decl sets the JavaScript declaration name
func (b *Builder) Decl(name string) *Builder {
	b.err.Decl = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// IO wraps a filesystem failure. Missing files are reported as KindNotFound
// so callers can tell a precondition failure from other I/O errors.
func IO(phase Phase, file string, cause error) *Error {
	kind := KindIO
	if stderrors.Is(cause, fs.ErrNotExist) {
		kind = KindNotFound
	}
	return &Error{
		Phase: phase,
		Kind:  kind,
		File:  file,
		Cause: cause,
	}
}

// NotFound creates a not found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Decl:   name,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ShapeMismatch reports generated code that does not have the expected structure
func ShapeMismatch(decl string, path []string, detail string) *Error {
	return &Error{
		Phase:  PhaseRewrite,
		Kind:   KindShapeMismatch,
		Decl:   decl,
		Path:   path,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// ParseFailed creates a JavaScript parse error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindParse,
		Detail: fmt.Sprintf("failed to parse %s", what),
		Cause:  cause,
	}
}

// Canceled wraps a context cancellation observed between pipeline steps
func Canceled(phase Phase, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindCanceled,
		Cause: cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
