package cryptoservice

import (
	"github.com/telekom-mms/go-it-crypto/internal/jose"
	"github.com/telekom-mms/go-it-crypto/pkg/identity"
	"github.com/telekom-mms/go-it-crypto/pkg/model"
	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

// SignAccessLog produces a SignedLog: a flattened ES256 JWS over log's
// canonical JSON, signed by monitor's signing key (spec.md §4.3).
func SignAccessLog(monitor identity.AuthenticatedUser, log model.AccessLog) (identity.SignedLog, error) {
	payload, err := log.ToJSON()
	if err != nil {
		return identity.SignedLog{}, err
	}
	jws, err := jose.SignES256(monitor.SigningKey, []byte(payload))
	if err != nil {
		return identity.SignedLog{}, protoerr.Wrap(err, protoerr.CodeSigningFailed, "access log signing failed")
	}
	return identity.NewSignedLog(jws), nil
}
