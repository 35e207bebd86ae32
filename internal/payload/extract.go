package payload

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Fields holds the two strings carried by a domain update event.
type Fields struct {
	OldDomain string
	NewDomain string
}

// ParseError reports a log data blob that does not hold the two-string layout.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("abi parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExtractFields decodes the two ABI dynamic strings from a hex data blob, with
// or without a 0x prefix. Invalid UTF-8 is replaced with U+FFFD.
func ExtractFields(dataHex string) (Fields, error) {
	data, err := decodeData(dataHex)
	if err != nil {
		return Fields{}, &ParseError{Err: err}
	}
	if len(data) == 0 {
		return Fields{}, &ParseError{Err: fmt.Errorf("empty data")}
	}

	args, err := DomainArguments()
	if err != nil {
		return Fields{}, fmt.Errorf("build arguments: %w", err)
	}

	values, err := args.Unpack(data)
	if err != nil {
		return Fields{}, &ParseError{Err: err}
	}
	if len(values) != 2 {
		return Fields{}, &ParseError{Err: fmt.Errorf("unexpected value count: %d", len(values))}
	}

	oldDomain, ok := values[0].(string)
	if !ok {
		return Fields{}, &ParseError{Err: fmt.Errorf("unexpected old domain type %T", values[0])}
	}
	newDomain, ok := values[1].(string)
	if !ok {
		return Fields{}, &ParseError{Err: fmt.Errorf("unexpected new domain type %T", values[1])}
	}

	return Fields{
		OldDomain: replaceInvalid(oldDomain),
		NewDomain: replaceInvalid(newDomain),
	}, nil
}

// replaceInvalid substitutes U+FFFD for every byte that is not valid UTF-8.
func replaceInvalid(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return string([]rune(s))
}

func decodeData(dataHex string) ([]byte, error) {
	trimmed := strings.TrimSpace(dataHex)
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		trimmed = trimmed[2:]
	}
	data, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid data hex: %w", err)
	}
	return data, nil
}
