package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c2Scope/internal/model"
)

func sampleRecords() []model.OutputRecord {
	base := model.OutputRecord{
		Contract:        "0xaaa",
		ContractCreator: "0xdeployer",
		Block:           10,
		Timestamp:       "2023-11-14T22:13:20+00:00",
		TxHash:          "0xtx",
	}
	withField := func(field string, method model.Method, decoded string) model.OutputRecord {
		rec := base
		rec.Field = field
		rec.Method = method
		rec.Decoded = decoded
		return rec
	}
	return []model.OutputRecord{
		withField(model.FieldOldDomain, model.MethodPlaintext, "https://a.example"),
		withField(model.FieldNewDomain, model.MethodEmpty, ""),
		withField(model.FieldOldDomain, model.MethodUnknown, "zzz"),
		withField(model.FieldNewDomain, model.MethodAESGCM, "https://b.example"),
		withField(model.FieldParseError, model.MethodParseError, "boom"),
	}
}

func TestSummaryCounts(t *testing.T) {
	s := NewSummary()
	st := s.Add("0xaaa", "0xdeployer", 3, sampleRecords())

	assert.Equal(t, 3, st.Logs)
	assert.Equal(t, 5, st.Records)
	assert.Equal(t, 2, st.Decoded)
	assert.Equal(t, 1, st.ParseErrors)

	s.Add("0xbbb", model.CreatorUnknown, 0, nil)
	contracts := s.Contracts()
	require.Len(t, contracts, 2)
	assert.Equal(t, "0xaaa", contracts[0].Contract)
	assert.Equal(t, "0xbbb", contracts[1].Contract)
	assert.Equal(t, model.CreatorUnknown, contracts[1].Creator)

	total := s.Totals()
	assert.Equal(t, 3, total.Logs)
	assert.Equal(t, 5, total.Records)

	recovered := s.Recovered()
	require.Len(t, recovered, 3)
	assert.Equal(t, model.MethodUnknown, recovered[1].Method)
}

func TestPrintRecovered(t *testing.T) {
	var buf bytes.Buffer
	PrintRecovered(&buf, sampleRecords())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[2023-11-14T22:13:20+00:00] 0xaaa | 0xdeployer | OLD (plaintext): https://a.example", lines[0])
	assert.Equal(t, "[2023-11-14T22:13:20+00:00] 0xaaa | 0xdeployer | NEW (aes-gcm): https://b.example", lines[2])
}

func TestPrintTable(t *testing.T) {
	s := NewSummary()
	s.Add("0xaaa", "0xdeployer", 3, sampleRecords())

	var buf bytes.Buffer
	Print(&buf, s)
	out := buf.String()
	assert.Contains(t, out, "0xaaa")
	assert.Contains(t, out, "0xdeployer")
	assert.Contains(t, out, "TOTAL")
}
