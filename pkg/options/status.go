// Package options implements the reflective configuration engine that
// turns textual option strings and string-keyed maps into live, typed
// configuration trees for mantisDB's database, column-family, and
// pluggable subsystem options, and reverses that transform for
// diagnostics, persistence, and equality comparison.
package options

import "fmt"

// Kind categorizes the failure modes a Configurable operation can
// surface. Callers should test with IsNotFound, IsInvalidArgument,
// etc. rather than comparing Kind directly, since a Status may be
// wrapped.
type Kind int

const (
	// KindOK is never attached to a returned error; nil means OK.
	KindOK Kind = iota
	KindInvalidArgument
	KindNotFound
	KindNotSupported
	KindIOError
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "OK"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindNotFound:
		return "NotFound"
	case KindNotSupported:
		return "NotSupported"
	case KindIOError:
		return "IOError"
	default:
		return "Unknown"
	}
}

// Status is the error type returned by every fallible engine
// operation. It carries a Kind plus a human-readable message, and
// optionally wraps an underlying cause.
type Status struct {
	Kind    Kind
	Message string
	Cause   error
}

func (s *Status) Error() string {
	if s == nil {
		return "OK"
	}
	if s.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", s.Kind, s.Message, s.Cause)
	}
	return fmt.Sprintf("%s: %s", s.Kind, s.Message)
}

// Unwrap makes Status compatible with errors.Is/errors.As chains.
func (s *Status) Unwrap() error { return s.Cause }

// New creates a Status of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Status {
	return &Status{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a Status of the given kind, attaching cause as the
// underlying error.
func Wrap(kind Kind, cause error, format string, args ...any) *Status {
	return &Status{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// InvalidArgument builds a Status of KindInvalidArgument.
func InvalidArgument(format string, args ...any) *Status {
	return New(KindInvalidArgument, format, args...)
}

// NotFound builds a Status of KindNotFound.
func NotFound(format string, args ...any) *Status {
	return New(KindNotFound, format, args...)
}

// NotSupported builds a Status of KindNotSupported.
func NotSupported(format string, args ...any) *Status {
	return New(KindNotSupported, format, args...)
}

// IOError builds a Status of KindIOError.
func IOError(format string, args ...any) *Status {
	return New(KindIOError, format, args...)
}

// Is reports whether err is a *Status of the given kind.
func Is(err error, kind Kind) bool {
	s, ok := err.(*Status)
	if !ok {
		return false
	}
	return s.Kind == kind
}

// IsNotFound reports whether err is a NotFound Status.
func IsNotFound(err error) bool { return Is(err, KindNotFound) }

// IsInvalidArgument reports whether err is an InvalidArgument Status.
func IsInvalidArgument(err error) bool { return Is(err, KindInvalidArgument) }

// IsNotSupported reports whether err is a NotSupported Status.
func IsNotSupported(err error) bool { return Is(err, KindNotSupported) }

// IsIOError reports whether err is an IOError Status.
func IsIOError(err error) bool { return Is(err, KindIOError) }
