package c2

import (
	"crypto/sha256"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	kdfIterations = 100_000
)

// Key is the symmetric key derived from a contract address.
type Key [KeySize]byte

// DeriveKey derives the per-contract key with PBKDF2-HMAC-SHA256. The lowercased
// address is both password and salt.
func DeriveKey(address string) Key {
	addr := []byte(strings.ToLower(address))

	var key Key
	copy(key[:], pbkdf2.Key(addr, addr, kdfIterations, KeySize, sha256.New))
	return key
}
