package model

import (
	"encoding/json"

	"github.com/telekom-mms/go-it-crypto/internal/jose"
	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

// SharedLog is the wrapper a monitor's AccessLog travels in, signed by
// whoever shares it (the monitor delivering it to the owner, or the owner
// re-sharing it). Log carries the nested, still-signed
// AccessLog JWS verbatim; SharedLog signs over that plus the sharing
// metadata, so a receiver can verify both signatures independently
// (spec.md §3, entity SharedLog).
type SharedLog struct {
	Log        jose.FlattenedJWS `json:"log"`
	Creator    string            `json:"creator"`
	Owner      string            `json:"owner"`
	Recipients []string          `json:"recipients"`
	ID         string            `json:"id"`
}

// ToJSON emits the canonical UTF-8 JSON encoding of the SharedLog.
func (s SharedLog) ToJSON() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", protoerr.Wrap(err, protoerr.CodeMalformedSharedLog, "shared log encode failed")
	}
	return string(b), nil
}

// SharedLogFromJSON parses s as a SharedLog, failing with
// CodeMalformedSharedLog on any shape error.
func SharedLogFromJSON(s string) (SharedLog, error) {
	var sl SharedLog
	if err := json.Unmarshal([]byte(s), &sl); err != nil {
		return SharedLog{}, protoerr.Wrap(err, protoerr.CodeMalformedSharedLog, "shared log decode failed")
	}
	return sl, nil
}

// SharedLogFromBytes decodes UTF-8 bytes as a SharedLog.
func SharedLogFromBytes(b []byte) (SharedLog, error) {
	return SharedLogFromJSON(string(b))
}
