package identity

import (
	"github.com/telekom-mms/go-it-crypto/internal/jose"
	"github.com/telekom-mms/go-it-crypto/pkg/model"
	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

// SignedLog is an opaque handle around a flattened JWS whose payload is an
// AccessLog. Verification happens once, at construction (by the signer
// when signing, or by DecryptionService when decrypting); Extract never
// re-verifies (spec.md §4.2).
type SignedLog struct {
	jws jose.FlattenedJWS
}

// NewSignedLog wraps an already-signed AccessLog JWS. Callers outside this
// module's trust boundary (internal/cryptoservice) should not construct a
// SignedLog from an unverified JWS.
func NewSignedLog(jws jose.FlattenedJWS) SignedLog {
	return SignedLog{jws: jws}
}

// JWS returns the underlying flattened JWS, for EncryptionService to embed
// in a SharedLog.
func (s SignedLog) JWS() jose.FlattenedJWS {
	return s.jws
}

// Extract base64url-decodes the JWS payload and parses it as an AccessLog.
// It does not verify the signature.
func (s SignedLog) Extract() (model.AccessLog, error) {
	payload, err := jose.FromB64URL(s.jws.Payload)
	if err != nil {
		return model.AccessLog{}, protoerr.New(protoerr.CodeMalformedAccessLog, "access log payload is not valid base64url")
	}
	return model.AccessLogFromBytes(payload)
}
