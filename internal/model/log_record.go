package model

import (
	"encoding/json"
)

// LogRecord is the normalized representation of an emitted contract event.
type LogRecord struct {
	ChainID         uint64   `json:"chain_id"`
	Contract        string   `json:"contract"`
	ContractCreator string   `json:"contract_creator,omitempty"`
	BlockNumber     uint64   `json:"block_number"`
	TxHash          string   `json:"tx_hash"`
	LogIndex        uint64   `json:"log_index"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	Timestamp       uint64   `json:"timestamp"`
}

// MarshalJSON ensures LogRecord is encoded with stable field names.
func (lr LogRecord) MarshalJSON() ([]byte, error) {
	type Alias LogRecord
	return json.Marshal(Alias(lr))
}

// UnmarshalJSON decodes a LogRecord from JSON.
func (lr *LogRecord) UnmarshalJSON(data []byte) error {
	type Alias LogRecord
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*lr = LogRecord(a)
	return nil
}
