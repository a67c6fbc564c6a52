// Package parseerr defines the closed set of failure kinds a document parse
// can report.
package parseerr

import (
	"errors"
	"fmt"
)

// Kind classifies a parse failure.
type Kind int

const (
	Unknown Kind = iota
	FileNotFound
	UnsupportedFileType
	CorruptedFile
	PasswordProtected
	ParsingFailed
	InvalidConfiguration
)

func (k Kind) String() string {
	switch k {
	case FileNotFound:
		return "file not found"
	case UnsupportedFileType:
		return "unsupported file type"
	case CorruptedFile:
		return "corrupted file"
	case PasswordProtected:
		return "password protected"
	case ParsingFailed:
		return "parsing failed"
	case InvalidConfiguration:
		return "invalid configuration"
	default:
		return "unknown"
	}
}

// Error is the error type returned by the dispatcher, the format adapters
// and the report renderer.
type Error struct {
	Kind Kind
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Path == "" && t.Msg == "" && t.Err == nil
}

var (
	ErrFileNotFound         = &Error{Kind: FileNotFound}
	ErrUnsupportedFileType  = &Error{Kind: UnsupportedFileType}
	ErrCorruptedFile        = &Error{Kind: CorruptedFile}
	ErrPasswordProtected    = &Error{Kind: PasswordProtected}
	ErrParsingFailed        = &Error{Kind: ParsingFailed}
	ErrInvalidConfiguration = &Error{Kind: InvalidConfiguration}
)

// New builds an error of the given kind with a formatted message.
func New(kind Kind, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an error of the given kind around a cause.
func Wrap(kind Kind, path string, err error, msg string) *Error {
	return &Error{Kind: kind, Path: path, Msg: msg, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// IsParsingError reports whether err belongs to the document-parsing family.
// InvalidConfiguration is a sibling failure and is not included.
func IsParsingError(err error) bool {
	switch KindOf(err) {
	case FileNotFound, UnsupportedFileType, CorruptedFile, PasswordProtected, ParsingFailed:
		return true
	default:
		return false
	}
}
