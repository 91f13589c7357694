// Package password wraps the bcrypt primitive behind the two operations the
// rest of the system needs: one-way hashing and timing-safe verification.
package password

import "golang.org/x/crypto/bcrypt"

// cost is the bcrypt work factor. 10 keeps hashing around tens of
// milliseconds on current hardware.
const cost = 10

// Hash produces a salted, adaptive-cost digest of plaintext. The salt is
// randomized per call, so hashing the same plaintext twice yields
// different digests.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext hashes to digest under the salt and cost
// embedded in the digest. bcrypt's comparison does not leak the mismatch
// position through timing.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
