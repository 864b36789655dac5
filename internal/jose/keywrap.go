package jose

import (
	"bytes"
	"crypto/aes"
	"encoding/binary"

	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

// defaultIV is the RFC 3394 §2.2.3.1 default integrity-check value AES Key
// Wrap (A256KW) prepends to every wrapped key.
var defaultIV = [8]byte{0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6}

// aesKeyWrap implements RFC 3394 key wrapping (alg A256KW): wraps cek (a
// multiple of 8 bytes) under kek (32 bytes).
func aesKeyWrap(kek, cek []byte) ([]byte, error) {
	if len(cek)%8 != 0 || len(cek) < 16 {
		return nil, protoerr.New(protoerr.CodeSigningFailed, "key wrap input must be a multiple of 8 bytes")
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeSigningFailed, "aes cipher init failed")
	}

	n := len(cek) / 8
	r := make([][8]byte, n)
	for i := 0; i < n; i++ {
		copy(r[i][:], cek[i*8:(i+1)*8])
	}

	a := defaultIV
	buf := make([]byte, 16)
	for j := 0; j <= 5; j++ {
		for i := 0; i < n; i++ {
			copy(buf[:8], a[:])
			copy(buf[8:], r[i][:])
			block.Encrypt(buf, buf)

			t := uint64(n*j + i + 1)
			var tBytes [8]byte
			binary.BigEndian.PutUint64(tBytes[:], t)
			for k := 0; k < 8; k++ {
				a[k] = buf[k] ^ tBytes[k]
			}
			copy(r[i][:], buf[8:])
		}
	}

	out := make([]byte, 8+len(cek))
	copy(out[:8], a[:])
	for i := 0; i < n; i++ {
		copy(out[8+i*8:8+(i+1)*8], r[i][:])
	}
	return out, nil
}

// aesKeyUnwrap reverses aesKeyWrap, failing with CodeDecryptionFailed if the
// integrity check value does not match (tampered or wrong key).
func aesKeyUnwrap(kek, wrapped []byte) ([]byte, error) {
	if len(wrapped)%8 != 0 || len(wrapped) < 24 {
		return nil, protoerr.New(protoerr.CodeDecryptionFailed, "wrapped key has unexpected length")
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, protoerr.Wrap(err, protoerr.CodeDecryptionFailed, "aes cipher init failed")
	}

	n := len(wrapped)/8 - 1
	var a [8]byte
	copy(a[:], wrapped[:8])
	r := make([][8]byte, n)
	for i := 0; i < n; i++ {
		copy(r[i][:], wrapped[8+i*8:8+(i+1)*8])
	}

	buf := make([]byte, 16)
	for j := 5; j >= 0; j-- {
		for i := n - 1; i >= 0; i-- {
			t := uint64(n*j + i + 1)
			var tBytes [8]byte
			binary.BigEndian.PutUint64(tBytes[:], t)

			var aXorT [8]byte
			for k := 0; k < 8; k++ {
				aXorT[k] = a[k] ^ tBytes[k]
			}
			copy(buf[:8], aXorT[:])
			copy(buf[8:], r[i][:])
			block.Decrypt(buf, buf)

			copy(a[:], buf[:8])
			copy(r[i][:], buf[8:])
		}
	}

	if !bytes.Equal(a[:], defaultIV[:]) {
		return nil, protoerr.New(protoerr.CodeDecryptionFailed, "key unwrap integrity check failed")
	}

	out := make([]byte, 0, n*8)
	for i := 0; i < n; i++ {
		out = append(out, r[i][:]...)
	}
	return out, nil
}
