// Package jdwperr classifies JDWP transport failures by how callers
// should react to them: retry, tear down the connection, accept a
// fresh connection, or give up on the transport entirely.
package jdwperr

import (
	"errors"
	"fmt"
)

// Kind partitions transport failures.
type Kind int

const (
	// KindTransient indicates infrastructure trouble expected to
	// clear on its own (broker not yet available, interrupted
	// syscalls). Retried, with backoff where appropriate.
	KindTransient Kind = iota
	// KindProtocol indicates a protocol violation (bad handshake
	// magic, short write). Fatal to the current connection.
	KindProtocol
	// KindPeerLoss indicates the connection was severed (EOF,
	// shutdown-induced errors, readiness-wait failure). A fresh
	// accept cycle may follow if the transport keeps running.
	KindPeerLoss
	// KindSetup indicates resource exhaustion or setup failure
	// (socket or pipe creation). Fatal to the whole transport.
	KindSetup
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindProtocol:
		return "protocol"
	case KindPeerLoss:
		return "peer loss"
	case KindSetup:
		return "setup"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a classified transport error.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("jdwp transport: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("jdwp transport: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind Kind, msg string, opts []Option) *Error {
	e := &Error{Kind: kind, Message: msg}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Transient returns a KindTransient error.
func Transient(msg string, opts ...Option) *Error { return newError(KindTransient, msg, opts) }

// Protocol returns a KindProtocol error.
func Protocol(msg string, opts ...Option) *Error { return newError(KindProtocol, msg, opts) }

// Severed returns a KindPeerLoss error.
func Severed(msg string, opts ...Option) *Error { return newError(KindPeerLoss, msg, opts) }

// Setup returns a KindSetup error.
func Setup(msg string, opts ...Option) *Error { return newError(KindSetup, msg, opts) }

// KindOf returns the classification of err, unwrapping as needed.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsSevered reports whether err indicates the debugger connection was
// lost.
func IsSevered(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindPeerLoss
}
