package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c2Scope/internal/model"
)

func TestStorePutRecordsSkipsDuplicates(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "c2.db"))
	require.NoError(t, err)
	defer store.Close()

	records := []model.OutputRecord{
		{Contract: "0xaaa", ContractCreator: "0xc", Block: 7, Timestamp: "2023-11-14T22:13:20+00:00", TxHash: "0x1", Field: model.FieldOldDomain, Method: model.MethodHex, Decoded: "hello", Raw: "68656c6c6f"},
		{Contract: "0xaaa", ContractCreator: "0xc", Block: 7, Timestamp: "2023-11-14T22:13:20+00:00", TxHash: "0x1", LogIndex: 2, Field: model.FieldNewDomain, Method: model.MethodEmpty},
	}

	ctx := context.Background()
	require.NoError(t, store.PutRecords(ctx, records))
	require.NoError(t, store.PutRecords(ctx, records))
	require.NoError(t, store.PutRecords(ctx, nil))

	got, err := store.Records(ctx, "0xaaa")
	require.NoError(t, err)
	assert.Equal(t, records, got)

	none, err := store.Records(ctx, "0xbbb")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStoreKeepsLogsSharingTransaction(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "c2.db"))
	require.NoError(t, err)
	defer store.Close()

	shared := strings.Repeat("a", 300)
	records := []model.OutputRecord{
		{Contract: "0xaaa", ContractCreator: "0xc", Block: 7, TxHash: "0x1", LogIndex: 0, Field: model.FieldOldDomain, Method: model.MethodUnknown, Decoded: shared + "-first", Raw: shared},
		{Contract: "0xaaa", ContractCreator: "0xc", Block: 7, TxHash: "0x1", LogIndex: 1, Field: model.FieldOldDomain, Method: model.MethodUnknown, Decoded: shared + "-second", Raw: shared},
	}

	ctx := context.Background()
	require.NoError(t, store.PutRecords(ctx, records))

	got, err := store.Records(ctx, "0xaaa")
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestNewStoreRequiresPath(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)
}
