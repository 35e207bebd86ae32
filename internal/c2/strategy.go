package c2

import (
	"strings"

	"c2Scope/internal/model"
)

// PlaintextPrefixes mark values that were emitted without obfuscation.
var PlaintextPrefixes = []string{"http://", "https://", "all:", "hwid:", "ping:"}

// Input is the value each strategy inspects.
type Input struct {
	Raw     string
	Trimmed string
	Key     Key
}

// Outcome is an accepted decode.
type Outcome struct {
	Method  model.Method
	Decoded string
}

// Strategy attempts one decode and declines by returning false.
type Strategy interface {
	Attempt(in Input) (Outcome, bool)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(in Input) (Outcome, bool)

func (f StrategyFunc) Attempt(in Input) (Outcome, bool) {
	return f(in)
}

// DefaultStrategies returns the decode chain in priority order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		EmptyStrategy{},
		PlaintextStrategy{Prefixes: PlaintextPrefixes},
		HexStrategy{},
		DoubleHexStrategy{},
		Base64Strategy{},
		AESGCMStrategy{},
	}
}

// EmptyStrategy accepts empty or whitespace-only values.
type EmptyStrategy struct{}

func (EmptyStrategy) Attempt(in Input) (Outcome, bool) {
	if strings.TrimSpace(in.Raw) != "" {
		return Outcome{}, false
	}
	return Outcome{Method: model.MethodEmpty}, true
}

// PlaintextStrategy accepts values starting with a known plaintext prefix.
type PlaintextStrategy struct {
	Prefixes []string
}

func (s PlaintextStrategy) Attempt(in Input) (Outcome, bool) {
	for _, prefix := range s.Prefixes {
		if strings.HasPrefix(in.Trimmed, prefix) {
			return Outcome{Method: model.MethodPlaintext, Decoded: in.Trimmed}, true
		}
	}
	return Outcome{}, false
}

// HexStrategy accepts hex-encoded text, then looks for an encrypted envelope or
// base64 inside it.
type HexStrategy struct{}

func (HexStrategy) Attempt(in Input) (Outcome, bool) {
	text, ok := hexText(in.Trimmed)
	if !ok || !acceptText(text) {
		return Outcome{}, false
	}
	if plaintext, ok := openEnvelope(text, in.Key); ok {
		return Outcome{Method: model.MethodHexAESGCM, Decoded: plaintext}, true
	}
	if decoded, ok := base64Text(text); ok {
		return Outcome{Method: model.MethodHexBase64, Decoded: decoded}, true
	}
	return Outcome{Method: model.MethodHex, Decoded: text}, true
}

// DoubleHexStrategy accepts text that was hex-encoded twice.
type DoubleHexStrategy struct{}

func (DoubleHexStrategy) Attempt(in Input) (Outcome, bool) {
	inner, ok := hexText(in.Trimmed)
	if !ok {
		return Outcome{}, false
	}
	text, ok := hexText(inner)
	if !ok || !acceptText(text) {
		return Outcome{}, false
	}
	return Outcome{Method: model.MethodDoubleHex, Decoded: text}, true
}

// Base64Strategy accepts standard base64 that decodes to printable text.
type Base64Strategy struct{}

func (Base64Strategy) Attempt(in Input) (Outcome, bool) {
	text, ok := base64Text(in.Trimmed)
	if !ok {
		return Outcome{}, false
	}
	return Outcome{Method: model.MethodBase64, Decoded: text}, true
}

// AESGCMStrategy accepts "base64(iv):base64(ciphertext)" values that
// authenticate under the contract key.
type AESGCMStrategy struct{}

func (AESGCMStrategy) Attempt(in Input) (Outcome, bool) {
	plaintext, ok := openEnvelope(in.Trimmed, in.Key)
	if !ok {
		return Outcome{}, false
	}
	return Outcome{Method: model.MethodAESGCM, Decoded: plaintext}, true
}
