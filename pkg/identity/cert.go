package identity

import (
	"crypto"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"time"

	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

const certPEMType = "CERTIFICATE"

// selfSignCertificate issues a self-signed X.509 certificate for subjectID
// binding pub, signed by signer. pub and signer's key need not match: the
// encryption certificate embeds an ECDH public key but is signed by the
// user's ECDSA signing key, since ECDH keys cannot sign (spec.md §6.4).
func selfSignCertificate(subjectID string, pub crypto.PublicKey, signer crypto.Signer) (*x509.Certificate, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeBadKey, "certificate serial generation failed")
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: subjectID},
		Issuer:                pkix.Name{CommonName: subjectID},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.AddDate(10, 0, 0),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyAgreement,
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, pub, signer)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeBadKey, "self-signed certificate issuance failed")
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeBadKey, "self-signed certificate is unparsable")
	}
	return cert, nil
}

// EncodeCertificatePEM PEM-encodes an X.509 certificate.
func EncodeCertificatePEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: certPEMType, Bytes: cert.Raw})
}

// DecodeCertificatePEM parses a PEM-encoded X.509 certificate, failing with
// CodeBadKey on any malformed input.
func DecodeCertificatePEM(pemBytes []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil || block.Type != certPEMType {
		return nil, protoerr.New(protoerr.CodeBadKey, "certificate is not valid PEM")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeBadKey, "certificate is not a valid X.509 DER structure")
	}
	return cert, nil
}

// verificationKeyFromCertificate extracts the ECDSA-P256 public key a
// verification certificate must carry.
func verificationKeyFromCertificate(cert *x509.Certificate) (*ecdsa.PublicKey, error) {
	pub, ok := cert.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, protoerr.New(protoerr.CodeBadKey, "verification certificate does not carry an ECDSA public key")
	}
	if pub.Curve != elliptic.P256() {
		return nil, protoerr.New(protoerr.CodeBadKey, "verification certificate is not P-256")
	}
	return pub, nil
}

// encryptionKeyFromCertificate extracts the ECDH-P256 public key an
// encryption certificate must carry.
func encryptionKeyFromCertificate(cert *x509.Certificate) (*ecdh.PublicKey, error) {
	if pub, ok := cert.PublicKey.(*ecdh.PublicKey); ok {
		return pub, nil
	}
	ecdsaPub, ok := cert.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, protoerr.New(protoerr.CodeBadKey, "encryption certificate does not carry a P-256 public key")
	}
	pub, err := ecdsaPub.ECDH()
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeBadKey, "encryption certificate key is not on a Diffie-Hellman curve")
	}
	return pub, nil
}
