package itcrypto_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

// flipLastByteOfField decodes token's flattened-JWE JSON, flips the last
// byte of the base64url-decoded value of field, and re-encodes it, for
// tamper-evidence tests (spec.md §8 P4).
func flipLastByteOfField(t *testing.T, token, field string) string {
	t.Helper()

	var env map[string]json.RawMessage
	if err := json.Unmarshal([]byte(token), &env); err != nil {
		t.Fatalf("unmarshal token: %v", err)
	}
	var encoded string
	if err := json.Unmarshal(env[field], &encoded); err != nil {
		t.Fatalf("unmarshal field %q: %v", field, err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode field %q: %v", field, err)
	}
	raw[len(raw)-1] ^= 0xFF
	env[field], err = json.Marshal(base64.RawURLEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("marshal tampered field %q: %v", field, err)
	}

	out, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal tampered token: %v", err)
	}
	return string(out)
}
