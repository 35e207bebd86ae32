package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"c2Scope/internal/c2"
	"c2Scope/internal/config"
	"c2Scope/internal/report"
	"c2Scope/internal/scanner"
	"c2Scope/internal/storage"
)

func runDecode(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDecode(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logs, err := storage.ReadLogs(cfg.In)
	if err != nil {
		return err
	}

	csvPath := cfg.Out
	if csvPath == "" {
		csvPath = storage.DefaultCSVName(time.Now())
	}
	csv := storage.NewCSVStorage(csvPath, cfg.Append)
	sinks := storage.Multi{csv}
	if cfg.JSONL != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.JSONL))
	}

	summary := report.NewSummary()
	records := scanner.DecodeLogs(logs, c2.NewDecoder(), summary)
	logger.Info("decoded logs", zap.Int("logs", len(logs)), zap.Int("records", len(records)), zap.String("out", csv.Path()))

	putErr := sinks.PutRecords(context.Background(), records)
	if err := sinks.Close(); err != nil && putErr == nil {
		putErr = fmt.Errorf("close sinks: %w", err)
	}
	if putErr != nil {
		return putErr
	}

	out := cmd.OutOrStdout()
	report.Print(out, summary)
	fmt.Fprintf(out, "\n%d records -> %s\n", len(records), csv.Path())
	if !cfg.Quiet {
		report.PrintRecovered(out, summary.Recovered())
	}
	return nil
}
