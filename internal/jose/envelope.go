package jose

import (
	"encoding/json"

	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

// EncodeProtectedHeader base64url-encodes header's canonical JSON encoding,
// producing the Envelope.Protected field.
func EncodeProtectedHeader(header ProtectedHeader) (string, error) {
	b, err := json.Marshal(header)
	if err != nil {
		return "", protoerr.Wrap(err, protoerr.CodeSigningFailed, "encode jwe protected header failed")
	}
	return ToB64URL(b), nil
}

// DecodeProtectedHeader reverses EncodeProtectedHeader.
func DecodeProtectedHeader(b64 string) (ProtectedHeader, error) {
	b, err := FromB64URL(b64)
	if err != nil {
		return ProtectedHeader{}, protoerr.New(protoerr.CodeMalformedJwe, "protected header is not valid base64url")
	}
	var header ProtectedHeader
	if err := json.Unmarshal(b, &header); err != nil {
		return ProtectedHeader{}, protoerr.New(protoerr.CodeMalformedJwe, "protected header is not valid json")
	}
	return header, nil
}

// AAD returns the JWE additional authenticated data: the ASCII bytes of the
// base64url-encoded protected header (RFC 7516 §5.1 step 14). Because the
// shared header and owner/recipients live inside the protected header, they
// are bound into the AEAD tag without being separately encrypted.
func AAD(protectedB64 string) []byte {
	return []byte(protectedB64)
}

// MarshalEnvelope serialises env as the flattened JSON form when it carries
// exactly one recipient and as the general form otherwise, matching spec.md
// §4.5: sibling implementations only emit the flattened single-recipient
// shape, never a one-element "recipients" array.
func MarshalEnvelope(env Envelope) ([]byte, error) {
	if len(env.Recipients) == 1 {
		flat := env
		flat.EncryptedKey = env.Recipients[0].EncryptedKey
		header := env.Recipients[0].Header
		flat.Header = &header
		flat.Recipients = nil
		b, err := json.Marshal(flat)
		if err != nil {
			return nil, protoerr.Wrap(err, protoerr.CodeSigningFailed, "encode jwe failed")
		}
		return b, nil
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeSigningFailed, "encode jwe failed")
	}
	return b, nil
}

// UnmarshalEnvelope parses a JWE in either on-wire shape and normalises it
// to the general multi-recipient form (spec.md §4.5).
func UnmarshalEnvelope(b []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Envelope{}, protoerr.Wrap(err, protoerr.CodeMalformedJwe, "jwe is not valid json")
	}
	Normalize(&env)
	if env.Protected == "" || env.IV == "" || env.Ciphertext == "" || env.Tag == "" || len(env.Recipients) == 0 {
		return Envelope{}, protoerr.New(protoerr.CodeMalformedJwe, "jwe is missing required fields")
	}
	return env, nil
}
