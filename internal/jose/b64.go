package jose

import "encoding/base64"

// ToB64URL encodes bytes as an unpadded base64url string, the encoding JWS
// and JWE use throughout (RFC 7515 §2).
func ToB64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// FromB64URL decodes an unpadded base64url string back to bytes.
func FromB64URL(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
