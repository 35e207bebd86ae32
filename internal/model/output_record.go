package model

import "strconv"

const (
	FieldOldDomain  = "old_domain"
	FieldNewDomain  = "new_domain"
	FieldParseError = "PARSE_ERROR"

	// CreatorUnknown is reported when the deployer could not be resolved.
	CreatorUnknown = "unknown"
)

// OutputColumns is the fixed column order of the record export.
var OutputColumns = []string{
	"contract",
	"contract_creator",
	"block",
	"timestamp",
	"tx_hash",
	"field",
	"method",
	"decoded",
	"raw",
}

// OutputRecord is one decoded field of one log entry. LogIndex is carried for
// structured sinks and is not part of the CSV columns.
type OutputRecord struct {
	Contract        string `json:"contract"`
	ContractCreator string `json:"contract_creator"`
	Block           uint64 `json:"block"`
	Timestamp       string `json:"timestamp"`
	TxHash          string `json:"tx_hash"`
	LogIndex        uint64 `json:"log_index"`
	Field           string `json:"field"`
	Method          Method `json:"method"`
	Decoded         string `json:"decoded"`
	Raw             string `json:"raw"`
}

// Row returns the record values in OutputColumns order.
func (r OutputRecord) Row() []string {
	return []string{
		r.Contract,
		r.ContractCreator,
		strconv.FormatUint(r.Block, 10),
		r.Timestamp,
		r.TxHash,
		r.Field,
		string(r.Method),
		r.Decoded,
		r.Raw,
	}
}
