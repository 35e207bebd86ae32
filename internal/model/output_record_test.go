package model

import (
	"reflect"
	"testing"
)

func TestOutputRecordRowOrder(t *testing.T) {
	record := OutputRecord{
		Contract:        "0xabc",
		ContractCreator: "0xdef",
		Block:           42,
		Timestamp:       "2024-01-01T00:00:00+00:00",
		TxHash:          "0x01",
		LogIndex:        9,
		Field:           FieldNewDomain,
		Method:          MethodHex,
		Decoded:         "hello",
		Raw:             "68656c6c6f",
	}

	want := []string{"0xabc", "0xdef", "42", "2024-01-01T00:00:00+00:00", "0x01", "new_domain", "hex", "hello", "68656c6c6f"}
	if got := record.Row(); !reflect.DeepEqual(got, want) {
		t.Fatalf("row mismatch: %v != %v", got, want)
	}
	if len(record.Row()) != len(OutputColumns) {
		t.Fatalf("row width %d does not match columns %d", len(record.Row()), len(OutputColumns))
	}
}

func TestMethodRecovered(t *testing.T) {
	for _, m := range []Method{MethodPlaintext, MethodHex, MethodHexAESGCM, MethodHexBase64, MethodDoubleHex, MethodBase64, MethodAESGCM} {
		if !m.Recovered() {
			t.Fatalf("%s should count as recovered", m)
		}
	}
	for _, m := range []Method{MethodEmpty, MethodUnknown, MethodParseError} {
		if m.Recovered() {
			t.Fatalf("%s should not count as recovered", m)
		}
	}
}
