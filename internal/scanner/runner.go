package scanner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"c2Scope/internal/c2"
	"c2Scope/internal/model"
	"c2Scope/internal/report"
	"c2Scope/internal/storage"
)

// RunConfig holds runtime settings for a scan.
type RunConfig struct {
	Contracts         []string
	CheckpointPath    string
	CheckpointEnabled bool
}

// Runner resolves, fetches, decodes and stores the records of each contract in
// turn.
type Runner struct {
	cfg        RunConfig
	source     LogSource
	creators   CreatorResolver
	decoder    *c2.Decoder
	summary    *report.Summary
	logger     *zap.Logger
	checkpoint *CheckpointStore
}

// NewRunner builds a Runner. A nil creators resolves every contract to unknown
// and a nil summary is replaced by an empty one.
func NewRunner(cfg RunConfig, source LogSource, creators CreatorResolver, summary *report.Summary, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if creators == nil {
		creators = FixedCreator(model.CreatorUnknown)
	}
	if summary == nil {
		summary = report.NewSummary()
	}
	return &Runner{
		cfg:        cfg,
		source:     source,
		creators:   creators,
		decoder:    c2.NewDecoder(),
		summary:    summary,
		logger:     logger,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
	}
}

// Summary returns the counters accumulated by Run.
func (r *Runner) Summary() *report.Summary {
	return r.summary
}

// Run scans every contract and writes the assembled records to sink.
func (r *Runner) Run(ctx context.Context, sink storage.Storage) error {
	if sink == nil {
		return fmt.Errorf("storage is nil")
	}
	return r.each(ctx, func(ctx context.Context, contract, creator string, logs []model.LogRecord) error {
		records := AssembleRecords(logs, contract, creator, c2.DeriveKey(contract), r.decoder)
		if err := sink.PutRecords(ctx, records); err != nil {
			return fmt.Errorf("store records for %s: %w", contract, err)
		}
		st := r.summary.Add(contract, creator, len(logs), records)
		r.logger.Info("contract decoded",
			zap.String("contract", contract),
			zap.Int("decoded", st.Decoded),
			zap.Int("records", st.Records),
		)
		return nil
	})
}

// Fetch writes the raw logs of every contract, tagged with their creator, to
// sink for later offline decoding.
func (r *Runner) Fetch(ctx context.Context, sink storage.LogStorage) error {
	if sink == nil {
		return fmt.Errorf("storage is nil")
	}
	return r.each(ctx, func(ctx context.Context, contract, creator string, logs []model.LogRecord) error {
		for i := range logs {
			logs[i].ContractCreator = creator
		}
		if err := sink.PutLogBatch(ctx, logs); err != nil {
			return fmt.Errorf("store logs for %s: %w", contract, err)
		}
		r.summary.Add(contract, creator, len(logs), nil)
		return nil
	})
}

func (r *Runner) each(ctx context.Context, handle func(ctx context.Context, contract, creator string, logs []model.LogRecord) error) error {
	if r.source == nil {
		return fmt.Errorf("log source is nil")
	}
	if len(r.cfg.Contracts) == 0 {
		return fmt.Errorf("at least one contract is required")
	}
	if _, err := r.checkpoint.Load(); err != nil {
		return err
	}

	total := len(r.cfg.Contracts)
	for i, contract := range r.cfg.Contracts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.checkpoint.Done(contract) {
			r.logger.Info("skip completed contract", zap.String("contract", contract))
			continue
		}

		r.logger.Info("scan contract", zap.Int("index", i+1), zap.Int("total", total), zap.String("contract", contract))

		creator := r.creators.ContractCreator(ctx, contract)
		r.logger.Info("creator", zap.String("contract", contract), zap.String("creator", creator))

		logs, err := r.source.FetchLogs(ctx, contract)
		if err != nil {
			return fmt.Errorf("fetch logs for %s: %w", contract, err)
		}
		r.logger.Info("logs fetched", zap.String("contract", contract), zap.Int("logs", len(logs)))

		if err := handle(ctx, contract, creator, logs); err != nil {
			return err
		}
		if err := r.checkpoint.MarkDone(contract); err != nil {
			return err
		}
	}
	return nil
}
