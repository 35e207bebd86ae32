package scanner

import (
	"strings"

	"c2Scope/internal/c2"
	"c2Scope/internal/model"
	"c2Scope/internal/report"
)

// DecodeLogs assembles records for previously fetched logs that may span many
// contracts. Logs are grouped by contract in first-seen order and the creator
// stored on each log is used, falling back to unknown.
func DecodeLogs(logs []model.LogRecord, decoder *c2.Decoder, summary *report.Summary) []model.OutputRecord {
	if decoder == nil {
		decoder = c2.NewDecoder()
	}

	order := make([]string, 0)
	groups := make(map[string][]model.LogRecord)
	creators := make(map[string]string)
	for _, log := range logs {
		contract := strings.ToLower(log.Contract)
		if _, ok := groups[contract]; !ok {
			order = append(order, contract)
			creators[contract] = model.CreatorUnknown
		}
		groups[contract] = append(groups[contract], log)
		if log.ContractCreator != "" {
			creators[contract] = log.ContractCreator
		}
	}

	records := make([]model.OutputRecord, 0, 2*len(logs))
	for _, contract := range order {
		batch := AssembleRecords(groups[contract], contract, creators[contract], c2.DeriveKey(contract), decoder)
		if summary != nil {
			summary.Add(contract, creators[contract], len(groups[contract]), batch)
		}
		records = append(records, batch...)
	}
	return records
}
