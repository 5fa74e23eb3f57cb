package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters, per the RFC 9106 low-memory recommendation
const (
	saltBytes    = 16
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// HashPassword derives an argon2id digest with a fresh random salt.
// Hash and salt are stored as separate fields so legacy files keep
// their two-column shape. Exported for the seeding CLI.
func HashPassword(password string) (hash, salt string, err error) {
	rawSalt := make([]byte, saltBytes)
	if _, err = rand.Read(rawSalt); err != nil {
		return "", "", errors.Wrap(err, "generate salt")
	}

	key := argon2.IDKey([]byte(password), rawSalt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key), hex.EncodeToString(rawSalt), nil
}

func verifyPassword(password, saltHex, hashHex string) bool {
	rawSalt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}

	key := argon2.IDKey([]byte(password), rawSalt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(key, expected) == 1
}

// activation codes avoid 0/O and 1/I so they survive being typed back
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 8

func newActivationCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "generate activation code")
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
