package model

// Method tags which decode strategy classified a field value.
type Method string

const (
	MethodEmpty      Method = "empty"
	MethodPlaintext  Method = "plaintext"
	MethodHexAESGCM  Method = "hex+aes-gcm"
	MethodHexBase64  Method = "hex+base64"
	MethodHex        Method = "hex"
	MethodDoubleHex  Method = "double_hex"
	MethodBase64     Method = "base64"
	MethodAESGCM     Method = "aes-gcm"
	MethodUnknown    Method = "unknown"
	MethodParseError Method = "error"
)

// Recovered reports whether the method represents an actual decode.
func (m Method) Recovered() bool {
	switch m {
	case MethodEmpty, MethodUnknown, MethodParseError, "":
		return false
	default:
		return true
	}
}

// DecodeResult is the outcome of running the layered decoder on one value.
// Raw always holds the untouched input.
type DecodeResult struct {
	Method  Method `json:"method"`
	Decoded string `json:"decoded"`
	Raw     string `json:"raw"`
}
