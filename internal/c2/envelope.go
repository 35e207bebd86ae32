package c2

import (
	"crypto/aes"
	"crypto/cipher"
	"strings"
	"unicode/utf8"
)

const (
	gcmNonceSize = 12
	gcmTagSize   = 16
)

// openEnvelope decrypts a "base64(iv):base64(ciphertext)" value with AES-GCM and
// no associated data. The ciphertext must carry the tag plus at least one byte.
func openEnvelope(text string, key Key) (string, bool) {
	ivPart, ctPart, ok := strings.Cut(text, ":")
	if !ok {
		return "", false
	}

	iv, err := decodeBase64Lenient(ivPart)
	if err != nil {
		return "", false
	}
	ciphertext, err := decodeBase64Lenient(ctPart)
	if err != nil {
		return "", false
	}
	if len(iv) != gcmNonceSize || len(ciphertext) < gcmTagSize+1 {
		return "", false
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return "", false
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", false
	}

	plaintext, err := gcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(plaintext) {
		return "", false
	}
	return string(plaintext), true
}
