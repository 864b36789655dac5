package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/telekom-mms/go-it-crypto/pkg/identity"
)

// Each identity lives in keysDir as four PEM files named after its id:
// <id>.verify.pem, <id>.encrypt.pem, <id>.signing-key.pem,
// <id>.decryption-key.pem. This is a filesystem stand-in for the
// KeyStore/directory contract spec.md §1 leaves out of scope.

func writeAuthenticatedUser(keysDir string, user identity.AuthenticatedUser) error {
	if err := os.MkdirAll(keysDir, 0o755); err != nil {
		return fmt.Errorf("create keys dir: %w", err)
	}

	signingKeyPEM, err := identity.EncodeSigningKeyPEM(user.SigningKey)
	if err != nil {
		return err
	}
	decryptionKeyPEM, err := identity.EncodeDecryptionKeyPEM(user.DecryptionKey)
	if err != nil {
		return err
	}

	files := map[string][]byte{
		user.ID + ".verify.pem":         identity.EncodeCertificatePEM(user.VerificationCertificate),
		user.ID + ".encrypt.pem":        identity.EncodeCertificatePEM(user.EncryptionCertificate),
		user.ID + ".signing-key.pem":    signingKeyPEM,
		user.ID + ".decryption-key.pem": decryptionKeyPEM,
	}
	if user.Monitor {
		files[user.ID+".monitor"] = nil
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(keysDir, name), content, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

func readAuthenticatedUser(keysDir, id string, opts ...identity.UserOption) (identity.AuthenticatedUser, error) {
	verifyCertPEM, err := os.ReadFile(filepath.Join(keysDir, id+".verify.pem"))
	if err != nil {
		return identity.AuthenticatedUser{}, fmt.Errorf("read verify cert: %w", err)
	}
	encryptCertPEM, err := os.ReadFile(filepath.Join(keysDir, id+".encrypt.pem"))
	if err != nil {
		return identity.AuthenticatedUser{}, fmt.Errorf("read encrypt cert: %w", err)
	}
	signingKeyPEM, err := os.ReadFile(filepath.Join(keysDir, id+".signing-key.pem"))
	if err != nil {
		return identity.AuthenticatedUser{}, fmt.Errorf("read signing key: %w", err)
	}
	decryptionKeyPEM, err := os.ReadFile(filepath.Join(keysDir, id+".decryption-key.pem"))
	if err != nil {
		return identity.AuthenticatedUser{}, fmt.Errorf("read decryption key: %w", err)
	}

	monitor := false
	if _, err := os.Stat(filepath.Join(keysDir, id+".monitor")); err == nil {
		monitor = true
	}
	opts = append([]identity.UserOption{identity.WithMonitor(monitor)}, opts...)

	return identity.ImportAuthenticatedUser(id, verifyCertPEM, encryptCertPEM, signingKeyPEM, decryptionKeyPEM, opts...)
}

func readRemoteUser(keysDir, id string) (identity.RemoteUser, error) {
	verifyCertPEM, err := os.ReadFile(filepath.Join(keysDir, id+".verify.pem"))
	if err != nil {
		return identity.RemoteUser{}, fmt.Errorf("read verify cert: %w", err)
	}
	encryptCertPEM, err := os.ReadFile(filepath.Join(keysDir, id+".encrypt.pem"))
	if err != nil {
		return identity.RemoteUser{}, fmt.Errorf("read encrypt cert: %w", err)
	}
	monitor := false
	if _, err := os.Stat(filepath.Join(keysDir, id+".monitor")); err == nil {
		monitor = true
	}
	return identity.ImportRemoteUser(id, verifyCertPEM, monitor, encryptCertPEM)
}
