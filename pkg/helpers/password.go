package helpers

import (
	"crypto/subtle"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IsPasswordHash reports whether stored looks like a bcrypt hash.
func IsPasswordHash(stored string) bool {
	if len(stored) != 60 {
		return false
	}
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// dummyHash is compared against when there is no stored hash to check.
var dummyHash = sync.OnceValue(func() []byte {
	b, _ := bcrypt.GenerateFromPassword([]byte("no-such-credential"), bcrypt.DefaultCost)
	return b
})

// SpendPasswordCompare runs one bcrypt comparison that always fails, so a
// lookup without a hashed credential costs as much as one with it.
func SpendPasswordCompare(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(plain))
}

// ComparePassword checks plain against a stored credential.
// Rows written before hashing was introduced hold the credential as-is and
// are compared in constant time; everything else goes through bcrypt.
func ComparePassword(stored, plain string) bool {
	if IsPasswordHash(stored) {
		return CompareHashAndPassword(stored, plain)
	}
	SpendPasswordCompare(plain)
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}
