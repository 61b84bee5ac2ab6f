// Package auth implements the credential hasher and the token service:
// salted password hashing with constant-time verification, and issuing and
// verifying the two JWT classes (access and refresh).
package auth

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/mzunohkaru/postboard/internal/common"
)

const (
	saltSize = 16

	// argon2id parameters
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

func digest(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// HashPassword derives an argon2id digest of the password under a fresh
// random salt and encodes both as "hex(salt):hex(digest)". Two calls with the
// same password produce different records.
func HashPassword(password string) string {
	salt := common.GenerateRandByteArray(saltSize)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(digest(password, salt))
}

// VerifyPassword recomputes the digest under the record's salt and compares
// it with the stored digest in constant time. Malformed records verify as
// false rather than erroring out.
func VerifyPassword(password string, record string) bool {
	salt, stored, ok := splitRecord(record)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare(stored, digest(password, salt)) == 1
}

func splitRecord(record string) (salt, stored []byte, ok bool) {
	parts := strings.SplitN(record, ":", 2)
	if len(parts) != 2 {
		return nil, nil, false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil || len(salt) == 0 {
		return nil, nil, false
	}
	stored, err = hex.DecodeString(parts[1])
	if err != nil || len(stored) == 0 {
		return nil, nil, false
	}
	return salt, stored, true
}
