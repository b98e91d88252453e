package service

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// HashPassword computes the stored digest for a password and salt:
// lowercase hex SHA3-256 of "password_salt".
func HashPassword(password, salt string) string {
	sum := sha3.Sum256([]byte(password + "_" + salt))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword checks a candidate password against the stored digest.
// An absent hash or salt always fails. The comparison is constant-time.
func VerifyPassword(storedHash, storedSalt, candidate string) bool {
	if storedHash == "" || storedSalt == "" {
		return false
	}
	computed := HashPassword(candidate, storedSalt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(strings.ToLower(storedHash))) == 1
}
