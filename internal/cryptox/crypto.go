// Package cryptox implements the password verifier scheme used by the
// credential store: a per-user random salt, an argon2id key derived from the
// password, and a SHA-256 verifier of that key. Only salt and verifier are
// ever stored.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// MakeVerifier hashes a derived key into the value kept by the store.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey runs argon2id over password and salt.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// DeriveVerifier is MakeVerifier(DeriveMasterKey(password, salt)) with the
// intermediate key wiped.
func DeriveVerifier(password []byte, salt []byte) []byte {
	key := DeriveMasterKey(password, salt)
	defer common.WipeByteArray(key)
	return MakeVerifier(key)
}

// NewVerifier generates a fresh random salt and the matching verifier.
func NewVerifier(password []byte) (salt []byte, verifier []byte) {
	salt = common.GenerateRandByteArray(common.SaltSize)
	return salt, DeriveVerifier(password, salt)
}

// CheckVerifier reports whether candidate equals verifier in constant time.
func CheckVerifier(verifier []byte, candidate []byte) bool {
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}
