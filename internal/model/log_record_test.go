package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestLogRecordJSONRoundTrip(t *testing.T) {
	want := LogRecord{
		ChainID:         137,
		Contract:        "0x1111111111111111111111111111111111111111",
		ContractCreator: "0x2222222222222222222222222222222222222222",
		BlockNumber:     52000000,
		TxHash:          "0xdef456",
		LogIndex:        3,
		Topics:          []string{"0x0e540ff014403c501655ba5fcd7f36ec5f6df99f851e513e7d6c4c93da112174"},
		Data:            "0xdeadbeef",
		Timestamp:       1700000000,
	}

	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded LogRecord
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(want, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", want, decoded)
	}
}

func TestLogRecordOmitsUnknownCreator(t *testing.T) {
	b, err := json.Marshal(LogRecord{Contract: "0xabc"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := decoded["contract_creator"]; ok {
		t.Fatalf("contract_creator should be omitted when empty")
	}
}
