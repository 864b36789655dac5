package jose

// Normalize applies the single-recipient compatibility shim of spec.md §4.5:
// sibling implementations emit a flattened JWE (encrypted_key/header at the
// top level, no "recipients" array) when there is exactly one recipient.
// Normalize rewrites that shape into the general multi-recipient form so the
// rest of the pipeline only ever has to handle one shape. It is applied
// unconditionally and is idempotent on envelopes that already carry a
// "recipients" array.
func Normalize(env *Envelope) {
	if len(env.Recipients) > 0 {
		return
	}
	if env.Header == nil {
		return
	}
	env.Recipients = []Recipient{{
		EncryptedKey: env.EncryptedKey,
		Header:       *env.Header,
	}}
	env.EncryptedKey = ""
	env.Header = nil
}
