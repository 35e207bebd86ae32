package c2

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTextRunes is the exclusive lower bound on decoded text length.
const minTextRunes = 2

var errBase64Padding = errors.New("c2: incomplete base64 quantum")

func trimValue(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "\x00")
}

// acceptText applies the printable and length rule shared by the text strategies.
func acceptText(text string) bool {
	if utf8.RuneCountInString(text) <= minTextRunes {
		return false
	}
	for _, r := range text {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

func isASCIISpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// stripASCIISpace removes ASCII whitespace anywhere in s.
func stripASCIISpace(s string) string {
	if strings.IndexFunc(s, func(r rune) bool { return r < utf8.RuneSelf && isASCIISpace(byte(r)) }) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if !isASCIISpace(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// hexText hex-decodes s, skipping ASCII whitespace, and requires strict UTF-8.
func hexText(s string) (string, bool) {
	b, err := hex.DecodeString(stripASCIISpace(s))
	if err != nil || !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

func isBase64Alphabet(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '+' || c == '/'
}

// decodeBase64Lenient decodes standard base64 the forgiving way: bytes outside
// the alphabet are skipped and decoding stops once padding completes a
// quantum. An unpadded trailing partial quantum is an error.
func decodeBase64Lenient(s string) ([]byte, error) {
	data := make([]byte, 0, len(s))
	pads := 0
	complete := false
	for i := 0; i < len(s) && !complete; i++ {
		c := s[i]
		switch {
		case c == '=':
			quad := len(data) % 4
			if quad >= 2 {
				pads++
				complete = quad+pads >= 4
			}
		case isBase64Alphabet(c):
			data = append(data, c)
			pads = 0
		}
	}
	if !complete && len(data)%4 != 0 {
		return nil, errBase64Padding
	}
	return base64.RawStdEncoding.DecodeString(string(data))
}

// base64Text decodes base64 leniently. Invalid UTF-8 is replaced with U+FFFD
// per byte before the printable check.
func base64Text(s string) (string, bool) {
	b, err := decodeBase64Lenient(s)
	if err != nil {
		return "", false
	}
	text := string([]rune(string(b)))
	if !acceptText(text) {
		return "", false
	}
	return text, true
}
