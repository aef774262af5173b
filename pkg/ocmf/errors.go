package ocmf

import (
	"errors"
	"fmt"
)

// ErrorKind classifies what went wrong while handling a record.
type ErrorKind uint8

const (
	// KindUnknown is the zero value and never produced by this package.
	KindUnknown ErrorKind = iota
	// KindFormat indicates a violation of the OCMF|payload|signature framing.
	KindFormat
	// KindPayload indicates the payload segment is not a usable JSON object.
	KindPayload
	// KindSignature indicates the signature segment is not a usable JSON object.
	KindSignature
	// KindValidation indicates a field-level schema violation. Field is set.
	KindValidation
	// KindEncoding indicates a hex or base64 decode failure.
	KindEncoding
	// KindPublicKey indicates an unparseable or unrecognized public key.
	KindPublicKey
	// KindCrypto indicates an unsupported algorithm or a missing backend.
	KindCrypto
	// KindVerification indicates a structural problem that prevented signature
	// verification; distinct from a legitimate false verdict.
	KindVerification
	// KindNotFound indicates required data (such as a public key) is absent.
	KindNotFound
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindFormat:
		return "format error"
	case KindPayload:
		return "payload error"
	case KindSignature:
		return "signature error"
	case KindValidation:
		return "validation error"
	case KindEncoding:
		return "encoding error"
	case KindPublicKey:
		return "public key error"
	case KindCrypto:
		return "crypto error"
	case KindVerification:
		return "signature verification error"
	case KindNotFound:
		return "data not found"
	default:
		return "unknown error"
	}
}

// Error is the tagged error type shared by the OCMF packages. Kind states the
// failure class; Field and Value carry the offending wire field and its
// content for validation errors.
type Error struct {
	Kind  ErrorKind
	Field string
	Value string
	Msg   string
	err   error
}

func (e *Error) Error() string {
	s := e.Kind.String() + ": "
	if e.Field != "" {
		s += e.Field + ": "
	}
	s += e.Msg
	if e.Value != "" {
		s += fmt.Sprintf(" (got %q)", e.Value)
	}
	if e.err != nil {
		s += ": " + e.err.Error()
	}
	return s
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Errorf builds an Error of the given kind.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// FieldErrorf builds a KindValidation Error naming the violating wire field
// and the offending value.
func FieldErrorf(field, value, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Value: value, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around an underlying cause.
func Wrap(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), err: err}
}

// KindOf returns the kind of err, or KindUnknown if err is not an Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is an Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
