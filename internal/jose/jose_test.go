package jose_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/telekom-mms/go-it-crypto/internal/jose"
)

type JoseSuite struct {
	suite.Suite
}

func TestJoseSuite(t *testing.T) {
	suite.Run(t, new(JoseSuite))
}

func (s *JoseSuite) TestSignVerifyRoundTrip() {
	priv, err := generateSigningKey()
	s.Require().NoError(err)

	jws, err := jose.SignES256(priv, []byte(`{"hello":"world"}`))
	s.Require().NoError(err)

	payload, err := jose.VerifyES256(&priv.PublicKey, jws)
	s.Require().NoError(err)
	s.Equal(`{"hello":"world"}`, string(payload))
}

func (s *JoseSuite) TestVerifyRejectsTamperedSignature() {
	priv, err := generateSigningKey()
	s.Require().NoError(err)
	jws, err := jose.SignES256(priv, []byte("payload"))
	s.Require().NoError(err)

	jws.Signature = jws.Signature[:len(jws.Signature)-2] + "aa"
	_, err = jose.VerifyES256(&priv.PublicKey, jws)
	s.Require().Error(err)
}

func (s *JoseSuite) TestAEADRoundTrip() {
	key := make([]byte, 32)
	aad := []byte("aad-bytes")
	iv, ciphertext, tag, err := jose.EncryptA256GCM(key, []byte("secret message"), aad)
	s.Require().NoError(err)

	plaintext, err := jose.DecryptA256GCM(key, iv, ciphertext, tag, aad)
	s.Require().NoError(err)
	s.Equal("secret message", string(plaintext))
}

func (s *JoseSuite) TestAEADTagMismatchFails() {
	key := make([]byte, 32)
	aad := []byte("aad-bytes")
	iv, ciphertext, tag, err := jose.EncryptA256GCM(key, []byte("secret message"), aad)
	s.Require().NoError(err)

	tag[0] ^= 0xFF
	_, err = jose.DecryptA256GCM(key, iv, ciphertext, tag, aad)
	s.Require().Error(err)
}

func (s *JoseSuite) TestECDHKeyWrapRoundTrip() {
	receiverPriv, err := jose.GenerateP256ECDHKeypair()
	s.Require().NoError(err)

	cek, err := jose.NewCEK()
	s.Require().NoError(err)

	recipient, err := jose.WrapCEKForRecipient(cek, receiverPriv.PublicKey())
	s.Require().NoError(err)

	unwrapped, err := jose.UnwrapCEK(recipient, receiverPriv)
	s.Require().NoError(err)
	s.Equal(cek, unwrapped)
}

func (s *JoseSuite) TestUnwrapFailsForWrongKey() {
	receiverPriv, err := jose.GenerateP256ECDHKeypair()
	s.Require().NoError(err)
	wrongPriv, err := jose.GenerateP256ECDHKeypair()
	s.Require().NoError(err)

	cek, err := jose.NewCEK()
	s.Require().NoError(err)
	recipient, err := jose.WrapCEKForRecipient(cek, receiverPriv.PublicKey())
	s.Require().NoError(err)

	_, err = jose.UnwrapCEK(recipient, wrongPriv)
	s.Require().Error(err)
}

func (s *JoseSuite) TestNormalizeFlattenedForm() {
	env := jose.Envelope{
		Protected:    "prot",
		EncryptedKey: "ek",
		Header:       &jose.RecipientHeader{Alg: "ECDH-ES+A256KW"},
		IV:           "iv",
		Ciphertext:   "ct",
		Tag:          "tag",
	}
	jose.Normalize(&env)

	s.Require().Len(env.Recipients, 1)
	s.Equal("ek", env.Recipients[0].EncryptedKey)
	s.Equal("", env.EncryptedKey)
	s.Nil(env.Header)
}

func (s *JoseSuite) TestNormalizeLeavesGeneralFormUnchanged() {
	env := jose.Envelope{
		Protected: "prot",
		Recipients: []jose.Recipient{
			{EncryptedKey: "ek1"},
			{EncryptedKey: "ek2"},
		},
	}
	jose.Normalize(&env)
	s.Require().Len(env.Recipients, 2)
}

func (s *JoseSuite) TestMarshalUnmarshalEnvelopeRoundTrip() {
	env := jose.Envelope{
		Protected: "prot",
		Recipients: []jose.Recipient{
			{EncryptedKey: "ek1", Header: jose.RecipientHeader{Alg: "ECDH-ES+A256KW"}},
		},
		IV:         "iv",
		Ciphertext: "ct",
		Tag:        "tag",
	}
	b, err := jose.MarshalEnvelope(env)
	s.Require().NoError(err)

	parsed, err := jose.UnmarshalEnvelope(b)
	s.Require().NoError(err)
	s.Equal("iv", parsed.IV)
	s.Require().Len(parsed.Recipients, 1)
	s.Equal("ek1", parsed.Recipients[0].EncryptedKey)
}
