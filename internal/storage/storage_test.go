package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c2Scope/internal/model"
)

func sampleRecord(field string) model.OutputRecord {
	return model.OutputRecord{
		Contract:        "0xaaa",
		ContractCreator: "0xcreator",
		Block:           42,
		Timestamp:       "2023-11-14T22:13:20+00:00",
		TxHash:          "0xtx",
		Field:           field,
		Method:          model.MethodPlaintext,
		Decoded:         "https://a.example, with comma",
		Raw:             "https://a.example, with comma",
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVStorageWritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "records.csv")
	sink := NewCSVStorage(path, false)
	assert.Equal(t, path, sink.Path())

	ctx := context.Background()
	require.NoError(t, sink.PutRecords(ctx, []model.OutputRecord{sampleRecord(model.FieldOldDomain)}))
	require.NoError(t, sink.PutRecords(ctx, []model.OutputRecord{sampleRecord(model.FieldNewDomain)}))
	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, model.OutputColumns, rows[0])
	assert.Equal(t, sampleRecord(model.FieldOldDomain).Row(), rows[1])
	assert.Equal(t, "new_domain", rows[2][5])
}

func TestCSVStorageAppendSkipsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	ctx := context.Background()

	first := NewCSVStorage(path, true)
	require.NoError(t, first.PutRecords(ctx, []model.OutputRecord{sampleRecord(model.FieldOldDomain)}))
	require.NoError(t, first.Close())

	second := NewCSVStorage(path, true)
	require.NoError(t, second.PutRecords(ctx, []model.OutputRecord{sampleRecord(model.FieldNewDomain)}))
	require.NoError(t, second.Close())

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, model.OutputColumns, rows[0])
}

func TestCSVStorageHeaderOnlyWhenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	require.NoError(t, NewCSVStorage(path, false).Close())

	rows := readCSV(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, model.OutputColumns, rows[0])
}

func TestDefaultCSVName(t *testing.T) {
	now := time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)
	assert.Equal(t, "c2_domains_20240305_070809.csv", DefaultCSVName(now))
}

func TestJsonlStorageRoundTripsLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.jsonl")
	sink := NewJsonlStorage(path)

	logs := []model.LogRecord{
		{ChainID: 137, Contract: "0xaaa", ContractCreator: "0xc", BlockNumber: 1, TxHash: "0x1", Topics: []string{"0xt"}, Data: "0x", Timestamp: 10},
		{ChainID: 137, Contract: "0xbbb", BlockNumber: 2, TxHash: "0x2", Topics: []string{"0xt"}, Data: "0x00", Timestamp: 20},
	}
	ctx := context.Background()
	require.NoError(t, sink.PutLogBatch(ctx, logs[:1]))
	require.NoError(t, sink.PutLogBatch(ctx, logs[1:]))
	require.NoError(t, sink.PutLogBatch(ctx, nil))

	got, err := ReadLogs(path)
	require.NoError(t, err)
	assert.Equal(t, logs, got)
}

func TestReadLogsReportsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"contract\":\"0xa\"}\n\nnot-json\n"), 0o644))

	_, err := ReadLogs(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

type failingSink struct {
	putErr   error
	closeErr error
	puts     int
}

func (f *failingSink) PutRecords(context.Context, []model.OutputRecord) error {
	f.puts++
	return f.putErr
}

func (f *failingSink) Close() error {
	return f.closeErr
}

func TestMultiStopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	first := &failingSink{putErr: boom}
	second := &failingSink{}

	err := Multi{first, second}.PutRecords(context.Background(), nil)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, first.puts)
	assert.Equal(t, 0, second.puts)
}

func TestMultiClosesAll(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")
	err := Multi{&failingSink{closeErr: a}, &failingSink{}, &failingSink{closeErr: b}}.Close()
	assert.ErrorIs(t, err, a)
	assert.ErrorIs(t, err, b)
}
