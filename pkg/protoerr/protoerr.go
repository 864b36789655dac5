// Package protoerr defines the stable error taxonomy of the log-sharing
// protocol. Every failure the protocol can produce carries one of these
// codes so callers (and tests across sibling implementations) can match on
// the failure kind rather than parsing message text.
package protoerr

import "errors"

// Code identifies a distinct protocol failure kind, independent of transport.
type Code string

const (
	// Decryption-side (DecryptionService, §4.6).
	CodeMalformedJwe              Code = "malformed_jwe"
	CodeDecryptionFailed          Code = "decryption_failed"
	CodeMalformedSharedLog        Code = "malformed_shared_log"
	CodeMalformedAccessLog        Code = "malformed_access_log"
	CodeUnknownUser               Code = "unknown_user"
	CodeUnauthorisedMonitor       Code = "unauthorised_monitor"
	CodeSharedLogSignatureInvalid Code = "shared_log_signature_invalid"
	CodeAccessLogSignatureInvalid Code = "access_log_signature_invalid"
	CodeMalformedData             Code = "malformed_data"

	// Encryption-side (EncryptionService, §4.4).
	CodeNoRecipients   Code = "no_recipients"
	CodeKeyUnavailable Code = "key_unavailable"
	CodeSigningFailed  Code = "signing_failed"

	// Key / identity import (§6.5).
	CodeBadKey Code = "bad_key"
)

// Error wraps a protocol failure with a stable code and a human-readable
// message. It is transport-agnostic; HTTP/CLI layers translate Code to
// their own status representation.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is to match by code alone, ignoring message and cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a protocol error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error, preserving the
// original code if err is already a protocol error.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// Recode replaces err's code unconditionally, keeping err as the cause.
// Unlike Wrap, it does not preserve an existing code — use it where the
// caller's layer determines the true failure kind (e.g. a generic JWS
// verification failure becoming SharedLogSignatureInvalid vs
// AccessLogSignatureInvalid depending on which layer is being verified).
func Recode(err error, code Code, msg string) error {
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether err is a protocol error carrying code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns err's protocol code, or "" if err is not a protocol error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
