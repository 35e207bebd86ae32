package report

import (
	"sync"

	"c2Scope/internal/model"
)

// ContractStats are the per-contract counters of one run.
type ContractStats struct {
	Contract    string
	Creator     string
	Logs        int
	Records     int
	Decoded     int
	ParseErrors int
}

// Summary accumulates decode counters and the records worth printing, in the
// order contracts were first added.
type Summary struct {
	mu        sync.Mutex
	order     []string
	stats     map[string]*ContractStats
	recovered []model.OutputRecord
}

func NewSummary() *Summary {
	return &Summary{stats: make(map[string]*ContractStats)}
}

// Add folds one contract batch into the summary. Repeated calls for the same
// contract accumulate.
func (s *Summary) Add(contract, creator string, logs int, records []model.OutputRecord) ContractStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stats[contract]
	if !ok {
		st = &ContractStats{Contract: contract}
		s.stats[contract] = st
		s.order = append(s.order, contract)
	}
	if creator != "" {
		st.Creator = creator
	}
	st.Logs += logs
	st.Records += len(records)
	for _, rec := range records {
		if rec.Method.Recovered() {
			st.Decoded++
		}
		if rec.Method == model.MethodParseError {
			st.ParseErrors++
		}
		if printable(rec) {
			s.recovered = append(s.recovered, rec)
		}
	}
	return *st
}

// Contracts returns a snapshot of the per-contract counters.
func (s *Summary) Contracts() []ContractStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ContractStats, 0, len(s.order))
	for _, contract := range s.order {
		out = append(out, *s.stats[contract])
	}
	return out
}

// Totals sums every contract.
func (s *Summary) Totals() ContractStats {
	var total ContractStats
	for _, st := range s.Contracts() {
		total.Logs += st.Logs
		total.Records += st.Records
		total.Decoded += st.Decoded
		total.ParseErrors += st.ParseErrors
	}
	return total
}

// Recovered returns the records that carry a value, in insertion order.
func (s *Summary) Recovered() []model.OutputRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.OutputRecord(nil), s.recovered...)
}

// printable excludes empty fields and parse failures; unknown values are kept.
func printable(rec model.OutputRecord) bool {
	return rec.Method != model.MethodEmpty && rec.Method != model.MethodParseError
}
