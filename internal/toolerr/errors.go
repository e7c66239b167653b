// Package toolerr defines the error kinds returned at the external tool boundary.
package toolerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a tool-boundary failure.
type Kind int

const (
	KindToolMissing Kind = iota + 1
	KindToolExecutionFailed
	KindParseFailed
	KindDurationUnavailable
	KindInvalidRequest
	KindFallbackExhausted
)

func (k Kind) String() string {
	switch k {
	case KindToolMissing:
		return "tool missing"
	case KindToolExecutionFailed:
		return "tool execution failed"
	case KindParseFailed:
		return "parse failed"
	case KindDurationUnavailable:
		return "duration unavailable"
	case KindInvalidRequest:
		return "invalid request"
	case KindFallbackExhausted:
		return "fallback exhausted"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is.
var (
	ErrToolMissing         = &Error{Kind: KindToolMissing}
	ErrToolExecutionFailed = &Error{Kind: KindToolExecutionFailed}
	ErrParseFailed         = &Error{Kind: KindParseFailed}
	ErrDurationUnavailable = &Error{Kind: KindDurationUnavailable}
	ErrInvalidRequest      = &Error{Kind: KindInvalidRequest}
	ErrFallbackExhausted   = &Error{Kind: KindFallbackExhausted}
)

// Error is a classified failure. Detail carries tool stderr or a reason.
type Error struct {
	Kind   Kind
	Tool   string // program name, e.g. "ffmpeg"
	Op     string // operation, e.g. "probe", "download"
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Tool != "" {
		fmt.Fprintf(&b, " (%s)", e.Tool)
	}
	if d := strings.TrimSpace(e.Detail); d != "" {
		b.WriteString(": ")
		b.WriteString(d)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func ToolMissing(tool string, err error) *Error {
	return &Error{Kind: KindToolMissing, Tool: tool, Err: err}
}

func ExecutionFailed(tool, op, stderr string) *Error {
	return &Error{Kind: KindToolExecutionFailed, Tool: tool, Op: op, Detail: stderr}
}

func ParseFailed(tool, op string, err error) *Error {
	return &Error{Kind: KindParseFailed, Tool: tool, Op: op, Err: err}
}

func DurationUnavailable(path string) *Error {
	return &Error{Kind: KindDurationUnavailable, Tool: "ffprobe", Op: "probe", Detail: path}
}

// Invalid builds an InvalidRequest error with a formatted reason.
func Invalid(op, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidRequest, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// FallbackExhausted carries the stderr of both download attempts.
func FallbackExhausted(tool, primaryStderr, fallbackStderr string) *Error {
	detail := "primary attempt:\n" + strings.TrimSpace(primaryStderr) +
		"\nfallback attempt:\n" + strings.TrimSpace(fallbackStderr)
	return &Error{Kind: KindFallbackExhausted, Tool: tool, Op: "download", Detail: detail}
}
