package jose

import (
	"crypto/ecdh"
	"crypto/rand"

	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

const cekSize = 32 // A256GCM content-encryption key

// NewCEK generates a fresh random content-encryption key for one JWE.
func NewCEK() ([]byte, error) {
	cek := make([]byte, cekSize)
	if _, err := rand.Read(cek); err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeSigningFailed, "cek generation failed")
	}
	return cek, nil
}

// WrapCEKForRecipient produces one recipient entry: a fresh ephemeral
// ECDH-P256 keypair, the ECDH-ES+A256KW key-encryption key derived against
// recipientPub, and cek wrapped under it.
func WrapCEKForRecipient(cek []byte, recipientPub *ecdh.PublicKey) (Recipient, error) {
	ephemeral, err := GenerateP256ECDHKeypair()
	if err != nil {
		return Recipient{}, err
	}
	kek, err := DeriveKEKSender(ephemeral, recipientPub)
	if err != nil {
		return Recipient{}, err
	}
	wrapped, err := aesKeyWrap(kek, cek)
	if err != nil {
		return Recipient{}, err
	}
	return Recipient{
		EncryptedKey: ToB64URL(wrapped),
		Header: RecipientHeader{
			Alg: algECDHESA256KW,
			Epk: PublicKeyToJWK(ephemeral.PublicKey()),
		},
	}, nil
}

// UnwrapCEK recovers the content-encryption key from a recipient entry
// using the receiver's static private key, failing with
// CodeDecryptionFailed if the algorithm is unsupported or the wrap does
// not open under the derived key.
func UnwrapCEK(r Recipient, receiverPriv *ecdh.PrivateKey) ([]byte, error) {
	if r.Header.Alg != algECDHESA256KW {
		return nil, protoerr.New(protoerr.CodeDecryptionFailed, "unsupported recipient key-management algorithm")
	}
	ephemeralPub, err := JWKToPublicKey(r.Header.Epk)
	if err != nil {
		return nil, err
	}
	kek, err := DeriveKEKReceiver(receiverPriv, ephemeralPub)
	if err != nil {
		return nil, err
	}
	wrapped, err := FromB64URL(r.EncryptedKey)
	if err != nil {
		return nil, protoerr.New(protoerr.CodeDecryptionFailed, "encrypted_key is not valid base64url")
	}
	return aesKeyUnwrap(kek, wrapped)
}
