// Package auth provides password hashing and access-token handling for the
// quiz backend.
package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters; the derived key doubles as the stored password digest.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// SaltLength is the size of the per-user random salt in bytes.
const SaltLength = 32

// HashPassword derives the stored digest for a plaintext password and salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword re-derives the digest for the candidate password and
// compares it to the stored one in constant time.
func VerifyPassword(hash, candidate, salt []byte) bool {
	derived := HashPassword(candidate, salt)
	return subtle.ConstantTimeCompare(hash, derived) == 1
}
