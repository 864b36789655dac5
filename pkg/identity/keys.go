package identity

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"

	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

const ecPrivateKeyPEMType = "EC PRIVATE KEY"

// generateSigningKeypair creates a fresh ECDSA-P256 signing key, used by
// generateAuthenticatedUser and the bootstrap CLI.
func generateSigningKeypair() (*ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeBadKey, "signing keypair generation failed")
	}
	return key, nil
}

// generateEncryptionKeypair creates a fresh ECDH-P256 key, used by
// generateAuthenticatedUser and the bootstrap CLI.
func generateEncryptionKeypair() (*ecdh.PrivateKey, error) {
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeBadKey, "encryption keypair generation failed")
	}
	return key, nil
}

// EncodeSigningKeyPEM encodes an ECDSA private key as a PEM-wrapped PKCS#8
// document, the form ImportAuthenticatedUser and the CLI accept.
func EncodeSigningKeyPEM(key *ecdsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeBadKey, "signing key encode failed")
	}
	return pem.EncodeToMemory(&pem.Block{Type: ecPrivateKeyPEMType, Bytes: der}), nil
}

// DecodeSigningKeyPEM parses a PEM-wrapped ECDSA-P256 private key.
func DecodeSigningKeyPEM(pemBytes []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, protoerr.New(protoerr.CodeBadKey, "signing key is not valid PEM")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeBadKey, "signing key is not a valid PKCS8 document")
	}
	ecKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, protoerr.New(protoerr.CodeBadKey, "signing key is not ECDSA")
	}
	return ecKey, nil
}

// EncodeDecryptionKeyPEM encodes an ECDH private key as a PEM-wrapped
// PKCS#8 document.
func EncodeDecryptionKeyPEM(key *ecdh.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeBadKey, "decryption key encode failed")
	}
	return pem.EncodeToMemory(&pem.Block{Type: ecPrivateKeyPEMType, Bytes: der}), nil
}

// DecodeDecryptionKeyPEM parses a PEM-wrapped ECDH-P256 private key.
func DecodeDecryptionKeyPEM(pemBytes []byte) (*ecdh.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, protoerr.New(protoerr.CodeBadKey, "decryption key is not valid PEM")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeBadKey, "decryption key is not a valid PKCS8 document")
	}
	if ecKey, ok := key.(*ecdh.PrivateKey); ok {
		return ecKey, nil
	}
	ecdsaKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, protoerr.New(protoerr.CodeBadKey, "decryption key is not ECDH")
	}
	ecKey, err := ecdsaKey.ECDH()
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeBadKey, "decryption key is not on a Diffie-Hellman curve")
	}
	return ecKey, nil
}
