package cryptoservice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/telekom-mms/go-it-crypto/internal/jose"
	"github.com/telekom-mms/go-it-crypto/pkg/identity"
	"github.com/telekom-mms/go-it-crypto/pkg/model"
	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

// Decrypt runs the state machine of spec.md §4.6: parse, AEAD-decrypt,
// verify the nested JWS chain, and enforce the cross-layer invariants
// I1-I5, returning the verified inner AccessLog as a SignedLog.
func Decrypt(ctx context.Context, token string, receiver identity.AuthenticatedUser, resolver identity.UserResolver) (identity.SignedLog, error) {
	// 1. Parse + normalise.
	env, err := jose.UnmarshalEnvelope([]byte(token))
	if err != nil {
		return identity.SignedLog{}, err
	}
	protectedHeader, err := jose.DecodeProtectedHeader(env.Protected)
	if err != nil {
		return identity.SignedLog{}, err
	}

	// 2. AEAD-decrypt: find the recipient entry addressed to receiver by its
	// position in the cleartext recipient list, then unwrap and open.
	idx := indexOf(protectedHeader.Recipients, receiver.ID)
	if idx < 0 || idx >= len(env.Recipients) {
		return identity.SignedLog{}, protoerr.New(protoerr.CodeDecryptionFailed, "no wrapped key addressed to this receiver")
	}
	cek, err := jose.UnwrapCEK(env.Recipients[idx], receiver.DecryptionKey)
	if err != nil {
		return identity.SignedLog{}, err
	}

	iv, err := jose.FromB64URL(env.IV)
	if err != nil {
		return identity.SignedLog{}, protoerr.New(protoerr.CodeMalformedJwe, "iv is not valid base64url")
	}
	ciphertext, err := jose.FromB64URL(env.Ciphertext)
	if err != nil {
		return identity.SignedLog{}, protoerr.New(protoerr.CodeMalformedJwe, "ciphertext is not valid base64url")
	}
	tag, err := jose.FromB64URL(env.Tag)
	if err != nil {
		return identity.SignedLog{}, protoerr.New(protoerr.CodeMalformedJwe, "tag is not valid base64url")
	}
	plaintext, err := jose.DecryptA256GCM(cek, iv, ciphertext, tag, jose.AAD(env.Protected))
	if err != nil {
		return identity.SignedLog{}, err
	}

	// 3. Parse inner JWS.
	var jwsSharedLog jose.FlattenedJWS
	if err := json.Unmarshal(plaintext, &jwsSharedLog); err != nil {
		return identity.SignedLog{}, protoerr.Wrap(err, protoerr.CodeMalformedSharedLog, "decrypted payload is not a flattened jws")
	}

	// 4. Claimed-creator lookup (unverified peek).
	claimedPayload, err := jose.PeekPayload(jwsSharedLog)
	if err != nil {
		return identity.SignedLog{}, protoerr.Recode(err, protoerr.CodeMalformedSharedLog, "shared log payload is not valid base64url")
	}
	claimedSharedLog, err := model.SharedLogFromBytes(claimedPayload)
	if err != nil {
		return identity.SignedLog{}, err
	}
	creator, err := resolver.Resolve(ctx, claimedSharedLog.Creator)
	if err != nil {
		return identity.SignedLog{}, protoerr.Recode(err, protoerr.CodeUnknownUser, fmt.Sprintf("unknown shared log creator %q", claimedSharedLog.Creator))
	}

	// 5. Verify SharedLog.
	creatorKey, err := creator.VerificationKey()
	if err != nil {
		return identity.SignedLog{}, protoerr.Recode(err, protoerr.CodeSharedLogSignatureInvalid, "shared log creator has no usable verification key")
	}
	verifiedSharedLogPayload, err := jose.VerifyES256(creatorKey, jwsSharedLog)
	if err != nil {
		return identity.SignedLog{}, protoerr.Recode(err, protoerr.CodeSharedLogSignatureInvalid, "shared log signature verification failed")
	}
	sharedLog, err := model.SharedLogFromBytes(verifiedSharedLogPayload)
	if err != nil {
		return identity.SignedLog{}, err
	}

	// 6. Extract inner AccessLog JWS.
	jwsAccessLog := sharedLog.Log

	// 7. Claimed-monitor lookup.
	claimedAccessLogPayload, err := jose.PeekPayload(jwsAccessLog)
	if err != nil {
		return identity.SignedLog{}, protoerr.Recode(err, protoerr.CodeMalformedAccessLog, "access log payload is not valid base64url")
	}
	claimedAccessLog, err := model.AccessLogFromBytes(claimedAccessLogPayload)
	if err != nil {
		return identity.SignedLog{}, err
	}
	monitor, err := resolver.Resolve(ctx, claimedAccessLog.Monitor)
	if err != nil {
		return identity.SignedLog{}, protoerr.Recode(err, protoerr.CodeUnknownUser, fmt.Sprintf("unknown access log monitor %q", claimedAccessLog.Monitor))
	}

	// 8. Authorise monitor (I1).
	if !monitor.IsMonitor() {
		return identity.SignedLog{}, protoerr.New(protoerr.CodeUnauthorisedMonitor, fmt.Sprintf("%q is not authorised to originate access logs", claimedAccessLog.Monitor))
	}

	// 9. Verify AccessLog.
	monitorKey, err := monitor.VerificationKey()
	if err != nil {
		return identity.SignedLog{}, protoerr.Recode(err, protoerr.CodeAccessLogSignatureInvalid, "access log monitor has no usable verification key")
	}
	verifiedAccessLogPayload, err := jose.VerifyES256(monitorKey, jwsAccessLog)
	if err != nil {
		return identity.SignedLog{}, protoerr.Recode(err, protoerr.CodeAccessLogSignatureInvalid, "access log signature verification failed")
	}
	accessLog, err := model.AccessLogFromBytes(verifiedAccessLogPayload)
	if err != nil {
		return identity.SignedLog{}, err
	}

	// 10. Cross-layer invariants.
	if err := checkInvariants(protectedHeader, sharedLog, accessLog, receiver.ID); err != nil {
		return identity.SignedLog{}, err
	}

	// 11. Emit.
	return identity.NewSignedLog(jwsAccessLog), nil
}

func checkInvariants(header jose.ProtectedHeader, sharedLog model.SharedLog, accessLog model.AccessLog, receiverID string) error {
	if header.Recipients == nil {
		return protoerr.New(protoerr.CodeMalformedData, "protected header is missing recipients")
	}
	// I4: recipient sequence equality, order-sensitive.
	if !sameSequence(sharedLog.Recipients, header.Recipients) {
		return protoerr.New(protoerr.CodeMalformedData, "shared log recipients do not match the protected header's recipient list")
	}
	if indexOf(sharedLog.Recipients, receiverID) < 0 {
		return protoerr.New(protoerr.CodeMalformedData, fmt.Sprintf("receiver %q is not among the declared recipients", receiverID))
	}
	// I5.
	if accessLog.Owner != header.Owner {
		return protoerr.New(protoerr.CodeMalformedData, "access log owner does not match the protected header's owner")
	}
	// I2.
	if sharedLog.Creator != accessLog.Owner && sharedLog.Creator != accessLog.Monitor {
		return protoerr.New(protoerr.CodeMalformedData, "shared log creator is neither the access log's owner nor its monitor")
	}
	// I3.
	if sharedLog.Creator == accessLog.Monitor {
		if len(sharedLog.Recipients) != 1 || sharedLog.Recipients[0] != accessLog.Owner {
			return protoerr.New(protoerr.CodeMalformedData, "a monitor-initiated share must target exactly the access log's owner")
		}
	}
	return nil
}

func sameSequence(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
