package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseFold      Phase = "fold"      // reflect traversal of the input value
	PhaseEncode    Phase = "encode"    // visitor events to wire bytes
	PhaseTranscode Phase = "transcode" // JSON input parsing
	PhaseWrite     Phase = "write"     // sink I/O
)

// Kind categorizes the error
type Kind string

const (
	KindTopLevel    Kind = "top_level"    // value is not struct/map-like
	KindKeyType     Kind = "key_type"     // map key is not stringifiable
	KindNonFinite   Kind = "non_finite"   // float is NaN or infinite
	KindSink        Kind = "sink"         // output sink failure
	KindDepth       Kind = "depth"        // nesting limit exceeded
	KindUnsupported Kind = "unsupported"  // value shape has no representation
	KindInvalidUTF8 Kind = "invalid_utf8" // string is not valid UTF-8
	KindState       Kind = "state"        // visitor protocol violation
	KindSyntax      Kind = "syntax"       // malformed transcode input
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
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

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
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

// Convenience constructors for common error patterns

// NotObject creates a top-level shape error: the encoded value must be a
// struct or map
func NotObject(phase Phase, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTopLevel,
		GoType: goType,
		Detail: "top-level value must be a struct or map",
	}
}

// KeyType creates a non-stringifiable map key error
func KeyType(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindKeyType,
		Path:   path,
		GoType: goType,
		Detail: "map key must be a string or stringifiable scalar",
	}
}

// NonFinite creates an error for a NaN or infinite float, which has no JSON
// representation
func NonFinite(phase Phase, path []string, value float64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNonFinite,
		Path:   path,
		Detail: fmt.Sprintf("float %v has no JSON representation", value),
		Value:  value,
	}
}

// Sink wraps an output sink failure, preserving the cause verbatim
func Sink(cause error) *Error {
	return &Error{
		Phase:  PhaseWrite,
		Kind:   KindSink,
		Detail: "writing to the underlying sink failed",
		Cause:  cause,
	}
}

// Depth creates a nesting limit error
func Depth(phase Phase, path []string, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDepth,
		Path:   path,
		Detail: fmt.Sprintf("nesting exceeds depth limit %d", limit),
		Value:  limit,
	}
}

// Unsupported creates an unsupported value shape error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// State creates a visitor protocol violation error
func State(path []string, detail string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindState,
		Path:   path,
		Detail: detail,
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
