package jose

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"math/big"

	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

const p256FieldBytes = 32

// SignES256 produces a flattened JWS over payload, signing with alg ES256
// (spec.md §6.2/§6.3: protected header is always exactly {"alg":"ES256"}).
func SignES256(priv *ecdsa.PrivateKey, payload []byte) (FlattenedJWS, error) {
	protected, err := json.Marshal(jwsProtectedHeader{Alg: algES256})
	if err != nil {
		return FlattenedJWS{}, protoerr.Wrap(err, protoerr.CodeSigningFailed, "encode jws header failed")
	}
	protectedB64 := ToB64URL(protected)
	payloadB64 := ToB64URL(payload)

	digest := sha256.Sum256([]byte(protectedB64 + "." + payloadB64))
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		return FlattenedJWS{}, protoerr.Wrap(err, protoerr.CodeSigningFailed, "ecdsa sign failed")
	}

	sig := make([]byte, 2*p256FieldBytes)
	r.FillBytes(sig[:p256FieldBytes])
	s.FillBytes(sig[p256FieldBytes:])

	return FlattenedJWS{
		Payload:   payloadB64,
		Protected: protectedB64,
		Signature: ToB64URL(sig),
	}, nil
}

// VerifyES256 checks jws's signature against pub and returns the decoded
// payload bytes. It fails closed: any structural, algorithm, or signature
// mismatch is returned as CodeMalformedData (callers recode it to the
// layer-specific error code, e.g. CodeAccessLogSignatureInvalid).
func VerifyES256(pub *ecdsa.PublicKey, jws FlattenedJWS) ([]byte, error) {
	headerBytes, err := FromB64URL(jws.Protected)
	if err != nil {
		return nil, protoerr.New(protoerr.CodeMalformedData, "jws protected header is not valid base64url")
	}
	var header jwsProtectedHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, protoerr.New(protoerr.CodeMalformedData, "jws protected header is not valid json")
	}
	if header.Alg != algES256 {
		return nil, protoerr.New(protoerr.CodeMalformedData, "unexpected jws algorithm: "+header.Alg)
	}

	sig, err := FromB64URL(jws.Signature)
	if err != nil || len(sig) != 2*p256FieldBytes {
		return nil, protoerr.New(protoerr.CodeMalformedData, "jws signature has unexpected length")
	}
	r := new(big.Int).SetBytes(sig[:p256FieldBytes])
	s := new(big.Int).SetBytes(sig[p256FieldBytes:])

	digest := sha256.Sum256([]byte(jws.Protected + "." + jws.Payload))
	if !ecdsa.Verify(pub, digest[:], r, s) {
		return nil, protoerr.New(protoerr.CodeMalformedData, "jws signature verification failed")
	}

	payload, err := FromB64URL(jws.Payload)
	if err != nil {
		return nil, protoerr.New(protoerr.CodeMalformedData, "jws payload is not valid base64url")
	}
	return payload, nil
}

// PeekPayload base64url-decodes a JWS payload WITHOUT verifying the
// signature. Used by DecryptionService to read the claimed creator/monitor
// before the corresponding verification certificate is known (spec.md §4.6
// steps 4 and 7).
func PeekPayload(jws FlattenedJWS) ([]byte, error) {
	payload, err := FromB64URL(jws.Payload)
	if err != nil {
		return nil, protoerr.New(protoerr.CodeMalformedData, "jws payload is not valid base64url")
	}
	return payload, nil
}
