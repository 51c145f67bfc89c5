// Package dvierr is the single error taxonomy visible at the decoder
// boundary: every exported function in dvi, tfm, internal/byteio and
// kpsewhich returns either nil or a *dvierr.Error.
package dvierr

import "fmt"

// Kind classifies what went wrong.
type Kind int

const (
	// IndexOutOfBounds means a Byte Reader read or skip would cross the end
	// of the buffer.
	IndexOutOfBounds Kind = iota
	// UnknownOpcode means the DVI decoder saw a leading byte in the
	// reserved 250..255 range.
	UnknownOpcode
	// TfmParse means a TFM file failed a declared-vs-actual length check or
	// another structural constraint.
	TfmParse
	// Utf8 means a TFM string field was not valid UTF-8.
	Utf8
	// Kpsewhich means the kpsewhich subprocess exited with a nonzero status
	// or printed no path.
	Kpsewhich
	// IO means a file read failed outside the core decoders.
	IO
)

func (k Kind) String() string {
	switch k {
	case IndexOutOfBounds:
		return "index out of bounds"
	case UnknownOpcode:
		return "unknown opcode"
	case TfmParse:
		return "tfm parse error"
	case Utf8:
		return "utf-8 error"
	case Kpsewhich:
		return "kpsewhich error"
	case IO:
		return "io error"
	default:
		return "dvierr"
	}
}

// Error is the one error type returned across the decoder boundary.
type Error struct {
	Kind Kind
	Msg  string

	// Opcode is set when Kind == UnknownOpcode.
	Opcode byte

	// Err is the underlying error, if any: the error passed to Utf8Error or
	// IOError. The other constructors leave it nil.
	Err error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Unwrap allows errors.Is/errors.As to see through to the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// OutOfBounds reports that a read or skip would cross the end of the buffer.
func OutOfBounds() error {
	return &Error{Kind: IndexOutOfBounds, Msg: "read would exceed buffer length"}
}

// UnknownOp reports a leading byte outside the defined DVI opcode ranges.
func UnknownOp(b byte) error {
	return &Error{
		Kind:   UnknownOpcode,
		Msg:    fmt.Sprintf("opcode byte %#02x is reserved", b),
		Opcode: b,
	}
}

// TfmParsef reports a TFM structural violation.
func TfmParsef(format string, a ...any) error {
	return &Error{Kind: TfmParse, Msg: fmt.Sprintf(format, a...)}
}

// Utf8Error wraps a UTF-8 decode failure for a TFM string field.
func Utf8Error(err error) error {
	return &Error{Kind: Utf8, Msg: "tfm header field is not valid utf-8", Err: err}
}

// Kpsewhichf reports that the kpsewhich subprocess could not resolve a name.
func Kpsewhichf(format string, a ...any) error {
	return &Error{Kind: Kpsewhich, Msg: fmt.Sprintf(format, a...)}
}

// IOError wraps a file I/O failure encountered outside the core decoders.
func IOError(err error) error {
	return &Error{Kind: IO, Msg: "i/o failure", Err: err}
}
