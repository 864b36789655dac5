// Package model holds the canonical JSON shapes of the log-sharing protocol:
// the AccessLog a monitor records and the SharedLog wrapping it. Keep these
// PII-light and stable; signatures cover the exact bytes toJson produces.
package model

import (
	"encoding/json"

	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

// AccessLog is a monitor's record that a tool accessed an owner's data.
// Field order here is the field order toJson emits; it must stay stable
// within this implementation, though cross-implementation equality is
// semantic, not byte-for-byte (spec.md §4.1).
type AccessLog struct {
	Monitor       string   `json:"monitor"`
	Owner         string   `json:"owner"`
	Tool          string   `json:"tool"`
	Justification string   `json:"justification"`
	Timestamp     int64    `json:"timestamp"`
	AccessKind    string   `json:"accessKind"`
	DataTypes     []string `json:"dataTypes"`
	ID            string   `json:"id"`
}

// ToJSON emits the canonical UTF-8 JSON encoding of the AccessLog.
func (a AccessLog) ToJSON() (string, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return "", protoerr.Wrap(err, protoerr.CodeMalformedAccessLog, "access log encode failed")
	}
	return string(b), nil
}

// AccessLogFromJSON parses s as an AccessLog, failing with CodeMalformedAccessLog
// on any shape error.
func AccessLogFromJSON(s string) (AccessLog, error) {
	var a AccessLog
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return AccessLog{}, protoerr.Wrap(err, protoerr.CodeMalformedAccessLog, "access log decode failed")
	}
	return a, nil
}

// AccessLogFromBytes decodes UTF-8 bytes as an AccessLog.
func AccessLogFromBytes(b []byte) (AccessLog, error) {
	return AccessLogFromJSON(string(b))
}
