// Package jose implements the slice of JWS/JWE (RFC 7515/7516) this protocol
// needs: flattened-JSON ES256 signatures and general-JSON ECDH-ES+A256KW /
// A256GCM encryption. No third-party library in the retrieval pack offers a
// JOSE implementation (see DESIGN.md), so this builds directly on
// crypto/ecdsa, crypto/ecdh, crypto/aes and crypto/cipher.
package jose

// FlattenedJWS is a compact, flattened-JSON JWS object: the three fields
// spec.md §4.2 says SignedLog wraps, and the shape of the inner signed
// SharedLog/AccessLog payloads described in §6.2/§6.3.
type FlattenedJWS struct {
	Payload   string `json:"payload"`
	Protected string `json:"protected"`
	Signature string `json:"signature"`
}

// jwsProtectedHeader is the sole protected header this protocol emits:
// every signature is ES256.
type jwsProtectedHeader struct {
	Alg string `json:"alg"`
}

const algES256 = "ES256"

// JWK is the minimal EC public-key JSON representation carried in a
// recipient's ephemeral public key (spec.md §6.1).
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

// RecipientHeader is the per-recipient unprotected header: the key
// agreement algorithm and the sender's ephemeral public key used to derive
// that recipient's key-encryption key.
type RecipientHeader struct {
	Alg string `json:"alg"`
	Epk JWK    `json:"epk"`
}

// Recipient is one entry of a general-JSON JWE's "recipients" array.
type Recipient struct {
	EncryptedKey string          `json:"encrypted_key"`
	Header       RecipientHeader `json:"header"`
}

// ProtectedHeader is the JWE protected header: AEAD-authenticated, and
// duplicating the shared header's owner/recipients in cleartext so parties
// can route before decrypting (spec.md §4.4 step 4).
type ProtectedHeader struct {
	Enc          string       `json:"enc"`
	SharedHeader FlattenedJWS `json:"sharedHeader"`
	Owner        string       `json:"owner"`
	Recipients   []string     `json:"recipients"`
}

const encA256GCM = "A256GCM"
const algECDHESA256KW = "ECDH-ES+A256KW"

// EncAlgA256GCM is the JWE "enc" value this protocol always uses, exported
// for callers building a ProtectedHeader.
const EncAlgA256GCM = encA256GCM

// Envelope is the on-wire JWE. It can appear in two shapes (spec.md §6.1):
// general form with a "recipients" array (|recipients| > 1), or flattened
// form with encrypted_key/header promoted to the top level (exactly one
// recipient). Normalize() (compat.go) rewrites either into the general form.
type Envelope struct {
	Protected string      `json:"protected"`
	Recipients []Recipient `json:"recipients,omitempty"`

	// Present only in the flattened, single-recipient shape.
	EncryptedKey string           `json:"encrypted_key,omitempty"`
	Header       *RecipientHeader `json:"header,omitempty"`

	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
	Tag        string `json:"tag"`
}
