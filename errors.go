package ppp

import "fmt"

//go:generate enumer -type ErrorKind

// ErrorKind classifies the ways a core operation can fail.
type ErrorKind uint8

const (
	// InvalidSecretsFormat: JSON parse/shape/base64 decode failure.
	InvalidSecretsFormat ErrorKind = iota
	// UnknownChannel: derive, encode or subscription target references a
	// channel absent from channel_keys.
	UnknownChannel
	// OversizedFrame: frame payload exceeds 64 bytes.
	OversizedFrame
	// OversizedSubscriptionRange: cover of [start, end] would exceed 126
	// vertices.
	OversizedSubscriptionRange
	// InvalidRange: start > end, or endpoints out of u64.
	InvalidRange
	// CryptoFailure: the signature or encryption primitive failed.
	CryptoFailure
)

// Error is the structured error type returned by every core operation.
type Error interface {
	error
	Kind() ErrorKind
	Inner() error // wrapped error, if any
}

type errorImpl struct {
	kind  ErrorKind
	msg   string
	inner error
}

func (err *errorImpl) Kind() ErrorKind { return err.kind }
func (err *errorImpl) Inner() error    { return err.inner }

func (err *errorImpl) Error() string {
	if err.inner != nil {
		return fmt.Sprintf("%s: %s", err.msg, err.inner.Error())
	}
	return err.msg
}

// errorf formats a new Error of the given kind.
func errorf(kind ErrorKind, format string, a ...interface{}) *errorImpl {
	return &errorImpl{kind: kind, msg: fmt.Sprintf(format, a...)}
}

// wrapErrorf formats a new Error of the given kind that wraps another.
func wrapErrorf(kind ErrorKind, err error, format string, a ...interface{}) *errorImpl {
	return &errorImpl{kind: kind, msg: fmt.Sprintf(format, a...), inner: err}
}
