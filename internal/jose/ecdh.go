package jose

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"

	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

// GenerateP256ECDHKeypair creates an ephemeral ECDH-P256 keypair, used once
// per recipient per encrypt() call (spec.md §4.4 step 4).
func GenerateP256ECDHKeypair() (*ecdh.PrivateKey, error) {
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeSigningFailed, "ephemeral ecdh keygen failed")
	}
	return priv, nil
}

// PublicKeyToJWK encodes an ECDH-P256 public key as the minimal EC JWK
// spec.md §6.1 embeds in a recipient's header.
func PublicKeyToJWK(pub *ecdh.PublicKey) JWK {
	raw := pub.Bytes() // uncompressed point: 0x04 || X (32) || Y (32)
	x := raw[1:33]
	y := raw[33:65]
	return JWK{Kty: "EC", Crv: "P-256", X: ToB64URL(x), Y: ToB64URL(y)}
}

// JWKToPublicKey decodes the minimal EC JWK back into an ECDH-P256 public key.
func JWKToPublicKey(jwk JWK) (*ecdh.PublicKey, error) {
	if jwk.Kty != "EC" || jwk.Crv != "P-256" {
		return nil, protoerr.New(protoerr.CodeMalformedData, "unsupported epk kty/crv")
	}
	x, err := FromB64URL(jwk.X)
	if err != nil || len(x) != 32 {
		return nil, protoerr.New(protoerr.CodeMalformedData, "epk.x is malformed")
	}
	y, err := FromB64URL(jwk.Y)
	if err != nil || len(y) != 32 {
		return nil, protoerr.New(protoerr.CodeMalformedData, "epk.y is malformed")
	}
	raw := make([]byte, 0, 65)
	raw = append(raw, 0x04)
	raw = append(raw, x...)
	raw = append(raw, y...)
	pub, err := ecdh.P256().NewPublicKey(raw)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeMalformedData, "epk is not a valid P-256 point")
	}
	return pub, nil
}

// concatKDF implements the single-round NIST SP 800-56A Concat KDF that
// RFC 7518 §4.6.2 mandates for deriving an ECDH-ES key-encryption key. A
// single SHA-256 round suffices because A256KW needs exactly 32 key bytes.
func concatKDF(z []byte, algorithmID string) []byte {
	otherInfo := lengthPrefixed([]byte(algorithmID))
	otherInfo = append(otherInfo, lengthPrefixed(nil)...) // PartyUInfo (apu): absent
	otherInfo = append(otherInfo, lengthPrefixed(nil)...) // PartyVInfo (apv): absent
	otherInfo = append(otherInfo, suppPubInfo(256)...)    // key data length in bits

	h := sha256.New()
	counter := make([]byte, 4)
	binary.BigEndian.PutUint32(counter, 1)
	h.Write(counter)
	h.Write(z)
	h.Write(otherInfo)
	return h.Sum(nil)
}

func lengthPrefixed(b []byte) []byte {
	out := make([]byte, 4+len(b))
	binary.BigEndian.PutUint32(out, uint32(len(b)))
	copy(out[4:], b)
	return out
}

func suppPubInfo(bits uint32) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, bits)
	return out
}

// DeriveKEKSender computes the ECDH-ES+A256KW key-encryption key from the
// sender's ephemeral private key and the recipient's static public key.
func DeriveKEKSender(ephemeralPriv *ecdh.PrivateKey, recipientPub *ecdh.PublicKey) ([]byte, error) {
	z, err := ephemeralPriv.ECDH(recipientPub)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeSigningFailed, "ecdh agreement failed")
	}
	return concatKDF(z, algECDHESA256KW), nil
}

// DeriveKEKReceiver computes the same key-encryption key from the
// receiver's static private key and the sender's ephemeral public key.
func DeriveKEKReceiver(receiverPriv *ecdh.PrivateKey, ephemeralPub *ecdh.PublicKey) ([]byte, error) {
	z, err := receiverPriv.ECDH(ephemeralPub)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeDecryptionFailed, "ecdh agreement failed")
	}
	return concatKDF(z, algECDHESA256KW), nil
}
