package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNode struct {
	latest     uint64
	logs       []types.Log
	failFrom   uint64
	failures   map[uint64]int
	ranges     []BlockRange
	timestamps map[uint64]uint64
}

func (f *fakeNode) ChainID(context.Context) (uint64, error) { return 137, nil }

func (f *fakeNode) LatestBlockNumber(context.Context) (uint64, error) { return f.latest, nil }

func (f *fakeNode) BlockTimestamp(_ context.Context, number uint64) (uint64, error) {
	return f.timestamps[number], nil
}

func (f *fakeNode) FilterLogs(_ context.Context, from, to uint64, _ common.Address, _ common.Hash) ([]types.Log, error) {
	f.ranges = append(f.ranges, BlockRange{From: from, To: to})
	if f.failFrom != 0 && from >= f.failFrom {
		return nil, errors.New("rpc unavailable")
	}
	if f.failures[from] > 0 {
		f.failures[from]--
		return nil, errors.New("transient")
	}
	out := make([]types.Log, 0)
	for _, log := range f.logs {
		if log.BlockNumber >= from && log.BlockNumber <= to {
			out = append(out, log)
		}
	}
	return out, nil
}

func testLogs() []types.Log {
	return []types.Log{
		{BlockNumber: 3, TxHash: common.HexToHash("0x01"), Index: 0, Data: []byte{0xab}},
		{BlockNumber: 3, TxHash: common.HexToHash("0x01"), Index: 0, Data: []byte{0xab}},
		{BlockNumber: 12, TxHash: common.HexToHash("0x02"), Index: 1, Topics: []common.Hash{common.HexToHash("0xff")}},
	}
}

func TestRPCSourceFetchLogs(t *testing.T) {
	node := &fakeNode{latest: 15, logs: testLogs(), timestamps: map[uint64]uint64{3: 100, 12: 200}}
	source := NewRPCSource(RPCConfig{BatchSize: 10, RetryBackoff: time.Millisecond}, node, nil)

	logs, err := source.FetchLogs(context.Background(), "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, []BlockRange{{From: 0, To: 9}, {From: 10, To: 15}}, node.ranges)

	assert.Equal(t, uint64(137), logs[0].ChainID)
	assert.Equal(t, testContract, logs[0].Contract)
	assert.Equal(t, uint64(100), logs[0].Timestamp)
	assert.Equal(t, "0xab", logs[0].Data)
	assert.Equal(t, uint64(200), logs[1].Timestamp)
	assert.Equal(t, uint64(1), logs[1].LogIndex)
	assert.Equal(t, []string{common.HexToHash("0xff").Hex()}, logs[1].Topics)
}

func TestRPCSourceRetries(t *testing.T) {
	node := &fakeNode{latest: 15, logs: testLogs(), failures: map[uint64]int{0: 2}, timestamps: map[uint64]uint64{}}
	source := NewRPCSource(RPCConfig{BatchSize: 10, MaxRetries: 2, RetryBackoff: time.Millisecond}, node, nil)

	logs, err := source.FetchLogs(context.Background(), testContract)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestRPCSourceTruncatesAfterRetries(t *testing.T) {
	node := &fakeNode{latest: 15, logs: testLogs(), failFrom: 10, timestamps: map[uint64]uint64{}}
	source := NewRPCSource(RPCConfig{BatchSize: 10, MaxRetries: 1, RetryBackoff: time.Millisecond}, node, nil)

	logs, err := source.FetchLogs(context.Background(), testContract)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, uint64(3), logs[0].BlockNumber)
}

func TestRPCSourceRejectsBadAddress(t *testing.T) {
	source := NewRPCSource(RPCConfig{BatchSize: 10}, &fakeNode{}, nil)
	_, err := source.FetchLogs(context.Background(), "not-an-address")
	assert.Error(t, err)
}

func TestRPCSourceEmptyRange(t *testing.T) {
	node := &fakeNode{}
	source := NewRPCSource(RPCConfig{FromBlock: 20, ToBlock: 10, BatchSize: 10}, node, nil)
	logs, err := source.FetchLogs(context.Background(), testContract)
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Empty(t, node.ranges)
}

func TestRPCSourceClampsToHead(t *testing.T) {
	node := &fakeNode{latest: 15, logs: testLogs(), timestamps: map[uint64]uint64{}}
	source := NewRPCSource(RPCConfig{ToBlock: 99999999, BatchSize: 10, RetryBackoff: time.Millisecond}, node, nil)

	_, err := source.FetchLogs(context.Background(), testContract)
	require.NoError(t, err)
	assert.Equal(t, []BlockRange{{From: 0, To: 9}, {From: 10, To: 15}}, node.ranges)
}
