// Package cryptoservice implements the protocol's two stateless operations,
// EncryptionService (C5) and DecryptionService (C6): building and tearing
// down the nested sign-then-encrypt token spec.md §4.4/§4.6 describes. It
// is a pure function of its arguments plus the injected UserResolver.
package cryptoservice

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/telekom-mms/go-it-crypto/internal/jose"
	"github.com/telekom-mms/go-it-crypto/pkg/identity"
	"github.com/telekom-mms/go-it-crypto/pkg/model"
	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

type sharedHeaderClaims struct {
	ID         string   `json:"id"`
	Owner      string   `json:"owner"`
	Recipients []string `json:"recipients"`
}

// Encrypt builds the nested JWS-then-JWE token spec.md §4.4 describes:
// a signed SharedLog wrapping signedLog, sealed under a fresh CEK that is
// key-wrapped once per receiver.
func Encrypt(signedLog identity.SignedLog, sender identity.AuthenticatedUser, receivers []identity.RemoteUser) (string, error) {
	if len(receivers) == 0 {
		return "", protoerr.New(protoerr.CodeNoRecipients, "encryptLog requires at least one receiver")
	}

	accessLog, err := signedLog.Extract()
	if err != nil {
		return "", err
	}

	recipientIDs := make([]string, len(receivers))
	for i, r := range receivers {
		recipientIDs[i] = r.ID
	}

	sharedLog := model.SharedLog{
		Log:        signedLog.JWS(),
		Creator:    sender.ID,
		Owner:      accessLog.Owner,
		Recipients: recipientIDs,
		ID:         uuid.NewString(),
	}
	sharedLogJSON, err := sharedLog.ToJSON()
	if err != nil {
		return "", err
	}
	jwsSharedLog, err := jose.SignES256(sender.SigningKey, []byte(sharedLogJSON))
	if err != nil {
		return "", protoerr.Wrap(err, protoerr.CodeSigningFailed, "shared log signing failed")
	}

	headerClaims := sharedHeaderClaims{ID: sharedLog.ID, Owner: sharedLog.Owner, Recipients: recipientIDs}
	headerBytes, err := json.Marshal(headerClaims)
	if err != nil {
		return "", protoerr.Wrap(err, protoerr.CodeSigningFailed, "shared header encode failed")
	}
	jwsSharedHeader, err := jose.SignES256(sender.SigningKey, headerBytes)
	if err != nil {
		return "", protoerr.Wrap(err, protoerr.CodeSigningFailed, "shared header signing failed")
	}

	protected := jose.ProtectedHeader{
		Enc:          jose.EncAlgA256GCM,
		SharedHeader: jwsSharedHeader,
		Owner:        sharedLog.Owner,
		Recipients:   recipientIDs,
	}
	protectedB64, err := jose.EncodeProtectedHeader(protected)
	if err != nil {
		return "", err
	}
	aad := jose.AAD(protectedB64)

	cek, err := jose.NewCEK()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(jwsSharedLog)
	if err != nil {
		return "", protoerr.Wrap(err, protoerr.CodeSigningFailed, "shared log jws encode failed")
	}

	iv, ciphertext, tag, err := jose.EncryptA256GCM(cek, payload, aad)
	if err != nil {
		return "", protoerr.Recode(err, protoerr.CodeSigningFailed, "payload encryption failed")
	}

	recipients := make([]jose.Recipient, len(receivers))
	for i, r := range receivers {
		pub, err := r.EncryptionKey()
		if err != nil {
			return "", protoerr.Recode(err, protoerr.CodeKeyUnavailable, fmt.Sprintf("receiver %q has no usable encryption key", r.ID))
		}
		recipient, err := jose.WrapCEKForRecipient(cek, pub)
		if err != nil {
			return "", err
		}
		recipients[i] = recipient
	}

	env := jose.Envelope{
		Protected:  protectedB64,
		Recipients: recipients,
		IV:         jose.ToB64URL(iv),
		Ciphertext: jose.ToB64URL(ciphertext),
		Tag:        jose.ToB64URL(tag),
	}
	b, err := jose.MarshalEnvelope(env)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
