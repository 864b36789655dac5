// Package identity holds the principals of the log-sharing protocol:
// RemoteUser (an identity with verification/encryption certificates) and
// AuthenticatedUser (a RemoteUser that also owns the matching private keys),
// per spec.md §4.3.
package identity

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/x509"

	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

// RemoteUser is a principal known only by its public identity: an id, its
// verification and encryption certificates, and whether it is authorised to
// originate AccessLogs (invariant I1).
type RemoteUser struct {
	ID                      string
	VerificationCertificate *x509.Certificate
	EncryptionCertificate   *x509.Certificate
	Monitor                 bool
}

// ImportRemoteUser builds a RemoteUser from PEM-encoded certificates,
// failing with CodeBadKey if either certificate is malformed or carries the
// wrong key type.
func ImportRemoteUser(id string, verifyCertPEM []byte, isMonitor bool, encryptCertPEM []byte) (RemoteUser, error) {
	verifyCert, err := DecodeCertificatePEM(verifyCertPEM)
	if err != nil {
		return RemoteUser{}, err
	}
	if _, err := verificationKeyFromCertificate(verifyCert); err != nil {
		return RemoteUser{}, err
	}
	encryptCert, err := DecodeCertificatePEM(encryptCertPEM)
	if err != nil {
		return RemoteUser{}, err
	}
	if _, err := encryptionKeyFromCertificate(encryptCert); err != nil {
		return RemoteUser{}, err
	}
	return RemoteUser{
		ID:                      id,
		VerificationCertificate: verifyCert,
		EncryptionCertificate:   encryptCert,
		Monitor:                 isMonitor,
	}, nil
}

// IsMonitor reports whether this user may originate AccessLogs.
func (u RemoteUser) IsMonitor() bool { return u.Monitor }

// VerificationKey returns the ECDSA-P256 public key used to verify JWS
// signatures this user produced.
func (u RemoteUser) VerificationKey() (*ecdsa.PublicKey, error) {
	if u.VerificationCertificate == nil {
		return nil, protoerr.New(protoerr.CodeKeyUnavailable, "user has no verification certificate")
	}
	return verificationKeyFromCertificate(u.VerificationCertificate)
}

// EncryptionKey returns the ECDH-P256 public key used to wrap a CEK for
// this user.
func (u RemoteUser) EncryptionKey() (*ecdh.PublicKey, error) {
	if u.EncryptionCertificate == nil {
		return nil, protoerr.New(protoerr.CodeKeyUnavailable, "user has no encryption certificate")
	}
	return encryptionKeyFromCertificate(u.EncryptionCertificate)
}

// AuthenticatedUser is a RemoteUser that also holds its own private keys,
// able to sign AccessLogs and decrypt tokens addressed to it.
type AuthenticatedUser struct {
	RemoteUser
	SigningKey    *ecdsa.PrivateKey
	DecryptionKey *ecdh.PrivateKey
}

// UserOption customises construction of an AuthenticatedUser.
type UserOption func(*AuthenticatedUser)

// WithMonitor marks the constructed user as authorised to originate
// AccessLogs. Absent this option, isMonitor defaults to false (spec.md §4.3).
func WithMonitor(isMonitor bool) UserOption {
	return func(u *AuthenticatedUser) { u.Monitor = isMonitor }
}

// ImportAuthenticatedUser builds an AuthenticatedUser from PEM-encoded
// certificates and private keys, failing with CodeBadKey if any of them
// are malformed or mismatched.
func ImportAuthenticatedUser(id string, verifyCertPEM, encryptCertPEM, signingKeyPEM, decryptionKeyPEM []byte, opts ...UserOption) (AuthenticatedUser, error) {
	remote, err := ImportRemoteUser(id, verifyCertPEM, false, encryptCertPEM)
	if err != nil {
		return AuthenticatedUser{}, err
	}
	signingKey, err := DecodeSigningKeyPEM(signingKeyPEM)
	if err != nil {
		return AuthenticatedUser{}, err
	}
	decryptionKey, err := DecodeDecryptionKeyPEM(decryptionKeyPEM)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	verifyPub, err := verificationKeyFromCertificate(remote.VerificationCertificate)
	if err != nil {
		return AuthenticatedUser{}, err
	}
	if !signingKey.PublicKey.Equal(verifyPub) {
		return AuthenticatedUser{}, protoerr.New(protoerr.CodeBadKey, "signing key does not match verification certificate")
	}
	encryptPub, err := encryptionKeyFromCertificate(remote.EncryptionCertificate)
	if err != nil {
		return AuthenticatedUser{}, err
	}
	if !decryptionKey.PublicKey().Equal(encryptPub) {
		return AuthenticatedUser{}, protoerr.New(protoerr.CodeBadKey, "decryption key does not match encryption certificate")
	}

	user := AuthenticatedUser{RemoteUser: remote, SigningKey: signingKey, DecryptionKey: decryptionKey}
	for _, opt := range opts {
		opt(&user)
	}
	return user, nil
}

// GenerateAuthenticatedUser creates a fresh ECDSA-P256 signing keypair and
// ECDH-P256 encryption keypair with self-signed X.509 certificates for id.
// Intended for tests and bootstrap tooling (spec.md §4.3).
func GenerateAuthenticatedUser(id string, opts ...UserOption) (AuthenticatedUser, error) {
	signingKey, err := generateSigningKeypair()
	if err != nil {
		return AuthenticatedUser{}, err
	}
	decryptionKey, err := generateEncryptionKeypair()
	if err != nil {
		return AuthenticatedUser{}, err
	}

	verifyCert, err := selfSignCertificate(id, &signingKey.PublicKey, signingKey)
	if err != nil {
		return AuthenticatedUser{}, err
	}
	encryptCert, err := selfSignCertificate(id, decryptionKey.PublicKey(), signingKey)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	user := AuthenticatedUser{
		RemoteUser: RemoteUser{
			ID:                      id,
			VerificationCertificate: verifyCert,
			EncryptionCertificate:   encryptCert,
		},
		SigningKey:    signingKey,
		DecryptionKey: decryptionKey,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user, nil
}

// Remote strips the private keys, returning the RemoteUser view to hand to
// other parties as a receiver or for resolver lookups.
func (u AuthenticatedUser) Remote() RemoteUser { return u.RemoteUser }
