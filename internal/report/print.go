package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"c2Scope/internal/model"
)

// Print renders the per-contract counters as a table.
func Print(w io.Writer, s *Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"CONTRACT", "CREATOR", "LOGS", "RECORDS", "DECODED", "PARSE ERRORS"})

	for _, st := range s.Contracts() {
		table.Append(statsRow(st.Contract, st.Creator, st))
	}
	total := s.Totals()
	table.SetFooter(statsRow("TOTAL", "", total))
	table.Render()
}

func statsRow(contract, creator string, st ContractStats) []string {
	return []string{
		contract,
		creator,
		strconv.Itoa(st.Logs),
		strconv.Itoa(st.Records),
		strconv.Itoa(st.Decoded),
		strconv.Itoa(st.ParseErrors),
	}
}

// PrintRecovered writes one line per recovered value.
func PrintRecovered(w io.Writer, records []model.OutputRecord) {
	for _, rec := range records {
		if !printable(rec) {
			continue
		}
		fmt.Fprintf(w, "[%s] %s | %s | %s (%s): %s\n",
			rec.Timestamp, rec.Contract, rec.ContractCreator, fieldLabel(rec.Field), rec.Method, rec.Decoded)
	}
}

func fieldLabel(field string) string {
	if field == model.FieldOldDomain {
		return "OLD"
	}
	return "NEW"
}
