package jose

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

const (
	gcmIVSize  = 12
	gcmTagSize = 16
)

// EncryptA256GCM seals plaintext under key (32 bytes) with aad as the
// authenticated-but-not-encrypted data, returning the IV, detached
// ciphertext and detached tag spec.md §6.1 serialises separately.
func EncryptA256GCM(key, plaintext, aad []byte) (iv, ciphertext, tag []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, nil, protoerr.Wrap(err, protoerr.CodeSigningFailed, "aes cipher init failed")
	}
	gcm, err := cipher.NewGCMWithTagSize(block, gcmTagSize)
	if err != nil {
		return nil, nil, nil, protoerr.Wrap(err, protoerr.CodeSigningFailed, "gcm init failed")
	}

	iv = make([]byte, gcmIVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, nil, protoerr.Wrap(err, protoerr.CodeSigningFailed, "iv generation failed")
	}

	sealed := gcm.Seal(nil, iv, plaintext, aad)
	ciphertext = sealed[:len(sealed)-gcmTagSize]
	tag = sealed[len(sealed)-gcmTagSize:]
	return iv, ciphertext, tag, nil
}

// DecryptA256GCM opens a detached A256GCM ciphertext+tag under key, failing
// with CodeDecryptionFailed on any AEAD tag mismatch (spec.md §4.6 step 2).
func DecryptA256GCM(key, iv, ciphertext, tag, aad []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeDecryptionFailed, "aes cipher init failed")
	}
	gcm, err := cipher.NewGCMWithTagSize(block, gcmTagSize)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeDecryptionFailed, "gcm init failed")
	}
	if len(iv) != gcmIVSize {
		return nil, protoerr.New(protoerr.CodeDecryptionFailed, "iv has unexpected length")
	}

	combined := append(append([]byte{}, ciphertext...), tag...)
	plaintext, err := gcm.Open(nil, iv, combined, aad)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeDecryptionFailed, "aead tag verification failed")
	}
	return plaintext, nil
}
