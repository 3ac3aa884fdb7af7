// Package auth holds credential primitives: argon2id PIN digests and the
// HS256 session tokens minted on a granted login.
package auth

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

// NewSalt returns a fresh random salt for an account's PIN material.
func NewSalt() ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// HashPIN derives an argon2id digest of the PIN over the account salt.
func HashPIN(pin string, salt []byte) []byte {
	return argon2.IDKey([]byte(pin), salt, 1, 64*1024, 4, 32)
}

// VerifyPIN reports whether the submitted PIN matches the stored digest.
// The comparison is constant time; callers that resolve a PIN against
// several digests should compare against all of them unconditionally so
// the outcome is not observable through timing.
func VerifyPIN(pin string, salt, digest []byte) bool {
	derived := HashPIN(pin, salt)
	return subtle.ConstantTimeCompare(derived, digest) == 1
}
