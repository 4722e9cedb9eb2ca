// Package cryptox holds the credential-obfuscation helpers for the offline
// login cache.
//
// This is deliberately NOT encryption. The stored form only avoids keeping a
// PIN in plain text inside the local database; it offers no protection
// against a compromised device. Offline login is a convenience fallback, and
// the server always re-verifies credentials when reachable.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// pad derives a repeatable XOR pad from the account identifier.
func pad(accountID string, n int) []byte {
	seed := sha256.Sum256([]byte("fieldsales/" + accountID))
	out := make([]byte, n)
	for i := range out {
		out[i] = seed[i%len(seed)]
	}
	return out
}

// Obfuscate returns a reversible, account-bound encoding of secret.
func Obfuscate(accountID string, secret []byte) string {
	p := pad(accountID, len(secret))
	mixed := make([]byte, len(secret))
	for i := range secret {
		mixed[i] = secret[i] ^ p[i]
	}
	return base64.StdEncoding.EncodeToString(mixed)
}

// Deobfuscate reverses Obfuscate.
func Deobfuscate(accountID string, stored string) ([]byte, error) {
	mixed, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return nil, err
	}
	p := pad(accountID, len(mixed))
	out := make([]byte, len(mixed))
	for i := range mixed {
		out[i] = mixed[i] ^ p[i]
	}
	return out, nil
}

// Verify compares a candidate secret against the stored obfuscated form in
// constant time.
func Verify(accountID string, candidate []byte, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(Obfuscate(accountID, candidate)), []byte(stored)) == 1
}
