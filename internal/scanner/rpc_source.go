package scanner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"c2Scope/internal/model"
)

// RPCConfig holds the log query settings of an RPCSource.
type RPCConfig struct {
	FromBlock    uint64
	ToBlock      uint64
	Topic0       common.Hash
	BatchSize    uint64
	MaxRetries   int
	RetryBackoff time.Duration
}

// RPCNode is the subset of chain.Client an RPCSource needs.
type RPCNode interface {
	ChainID(ctx context.Context) (uint64, error)
	LatestBlockNumber(ctx context.Context) (uint64, error)
	BlockTimestamp(ctx context.Context, number uint64) (uint64, error)
	FilterLogs(ctx context.Context, fromBlock, toBlock uint64, contract common.Address, topic0 common.Hash) ([]types.Log, error)
}

// RPCSource reads contract logs straight from a JSON-RPC node with eth_getLogs.
type RPCSource struct {
	cfg    RPCConfig
	node   RPCNode
	logger *zap.Logger
}

func NewRPCSource(cfg RPCConfig, node RPCNode, logger *zap.Logger) *RPCSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RPCSource{cfg: cfg, node: node, logger: logger}
}

// FetchLogs walks [FromBlock, ToBlock] in BatchSize steps, clamping ToBlock to
// the chain head. A batch that still
// fails after retries ends the walk and the logs gathered so far are returned.
func (s *RPCSource) FetchLogs(ctx context.Context, contract string) ([]model.LogRecord, error) {
	if s.node == nil {
		return nil, fmt.Errorf("rpc node is nil")
	}
	address, err := ParseAddress(contract)
	if err != nil {
		return nil, err
	}
	normalized := strings.ToLower(contract)

	var chainID uint64
	err = withRetry(ctx, s.cfg.MaxRetries, s.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		chainID, err = s.node.ChainID(ctx)
		return err
	})
	if err != nil {
		return s.truncated(ctx, normalized, nil, fmt.Errorf("get chain id: %w", err))
	}

	var latest uint64
	err = withRetry(ctx, s.cfg.MaxRetries, s.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		latest, err = s.node.LatestBlockNumber(ctx)
		return err
	})
	if err != nil {
		return s.truncated(ctx, normalized, nil, fmt.Errorf("get latest block: %w", err))
	}
	// 0 or anything past the head means "up to the latest block".
	to := s.cfg.ToBlock
	if to == 0 || to > latest {
		to = latest
	}
	if s.cfg.FromBlock > to {
		s.logger.Info("nothing to fetch", zap.Uint64("from", s.cfg.FromBlock), zap.Uint64("to", to))
		return []model.LogRecord{}, nil
	}

	ranges, err := SplitRange(s.cfg.FromBlock, to, s.cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	records := make([]model.LogRecord, 0)
	seen := make(map[string]struct{})
	for _, blockRange := range ranges {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		logs, err := s.filterLogsWithRetry(ctx, address, blockRange)
		if err != nil {
			return s.truncated(ctx, normalized, records, err)
		}

		for _, log := range logs {
			id := fmt.Sprintf("%d:%s:%d", log.BlockNumber, log.TxHash.Hex(), log.Index)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}

			ts, err := s.blockTimestampWithRetry(ctx, log.BlockNumber)
			if err != nil {
				return s.truncated(ctx, normalized, records, fmt.Errorf("block timestamp %d: %w", log.BlockNumber, err))
			}
			records = append(records, buildLogRecord(chainID, normalized, log, ts))
		}

		s.logger.Debug("batch complete",
			zap.String("contract", normalized),
			zap.Uint64("from", blockRange.From),
			zap.Uint64("to", blockRange.To),
			zap.Int("logs", len(logs)),
		)
	}

	return records, nil
}

func (s *RPCSource) truncated(ctx context.Context, contract string, records []model.LogRecord, err error) ([]model.LogRecord, error) {
	if ctx.Err() != nil {
		return records, ctx.Err()
	}
	s.logger.Warn("rpc fetch failed, results truncated",
		zap.String("contract", contract),
		zap.Int("logs", len(records)),
		zap.Error(err),
	)
	if records == nil {
		records = []model.LogRecord{}
	}
	return records, nil
}

func (s *RPCSource) filterLogsWithRetry(ctx context.Context, address common.Address, blockRange BlockRange) ([]types.Log, error) {
	var logs []types.Log
	err := withRetry(ctx, s.cfg.MaxRetries, s.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		logs, err = s.node.FilterLogs(ctx, blockRange.From, blockRange.To, address, s.cfg.Topic0)
		if err != nil {
			s.logger.Warn("filter logs failed", zap.Error(err), zap.Uint64("from", blockRange.From), zap.Uint64("to", blockRange.To))
		}
		return err
	})
	return logs, err
}

func (s *RPCSource) blockTimestampWithRetry(ctx context.Context, blockNumber uint64) (uint64, error) {
	var ts uint64
	err := withRetry(ctx, s.cfg.MaxRetries, s.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		ts, err = s.node.BlockTimestamp(ctx, blockNumber)
		if err != nil {
			s.logger.Warn("block timestamp fetch failed", zap.Error(err), zap.Uint64("block_number", blockNumber))
		}
		return err
	})
	return ts, err
}
