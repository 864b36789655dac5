package protoerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ProtoErrSuite tests the protocol error primitives.
//
// Justification: every DecryptionService/EncryptionService failure path is
// asserted by code elsewhere; these tests guard the primitives those
// assertions rely on.
type ProtoErrSuite struct {
	suite.Suite
}

func TestProtoErrSuite(t *testing.T) {
	suite.Run(t, new(ProtoErrSuite))
}

func (s *ProtoErrSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeUnknownUser, Message: "unknown user: bob"}
		s.Equal("unknown user: bob", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeUnknownUser}
		s.Equal("unknown_user", err.Error())
	})
}

func (s *ProtoErrSuite) TestUnwrap() {
	inner := errors.New("aead open failed")
	err := &Error{Code: CodeDecryptionFailed, Err: inner}
	s.Equal(inner, errors.Unwrap(err))
}

func (s *ProtoErrSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeMalformedData, Message: "recipients mismatch"}
		err2 := &Error{Code: CodeMalformedData, Message: "owner mismatch"}
		s.True(err1.Is(err2))
	})

	s.Run("does not match different codes", func() {
		s.False((&Error{Code: CodeMalformedData}).Is(&Error{Code: CodeUnknownUser}))
	})

	s.Run("works through errors.Is chain", func() {
		inner := &Error{Code: CodeUnknownUser, Message: "original"}
		wrapped := &Error{Code: CodeMalformedData, Message: "wrapped", Err: inner}
		s.True(errors.Is(wrapped, &Error{Code: CodeUnknownUser}))
	})
}

func (s *ProtoErrSuite) TestWrapPreservesOriginalCode() {
	original := New(CodeUnknownUser, "unknown monitor")
	wrapped := Wrap(original, CodeMalformedData, "outer context")

	var pe *Error
	s.Require().True(errors.As(wrapped, &pe))
	s.Equal(CodeUnknownUser, pe.Code)
	s.Equal("outer context", pe.Message)
}

func (s *ProtoErrSuite) TestHasCode() {
	s.True(HasCode(New(CodeNoRecipients, "empty receivers"), CodeNoRecipients))
	s.False(HasCode(New(CodeNoRecipients, "empty receivers"), CodeKeyUnavailable))
	s.False(HasCode(errors.New("plain"), CodeNoRecipients))
	s.False(HasCode(nil, CodeNoRecipients))
}
