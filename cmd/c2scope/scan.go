package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"c2Scope/internal/cache"
	"c2Scope/internal/chain"
	"c2Scope/internal/config"
	"c2Scope/internal/etherscan"
	"c2Scope/internal/model"
	"c2Scope/internal/report"
	"c2Scope/internal/scanner"
	"c2Scope/internal/storage"
	"c2Scope/internal/storage/kafka"
	"c2Scope/internal/storage/postgres"
	"c2Scope/internal/storage/sqlite"
	"c2Scope/internal/telemetry"
)

const serviceName = "c2scope"

func runScan(cmd *cobra.Command, _ []string) error {
	return withScanner(cmd, func(ctx context.Context, cfg config.ScanConfig, runner *scanner.Runner, logger *zap.Logger) error {
		csvPath := cfg.Out
		if csvPath == "" {
			csvPath = storage.DefaultCSVName(time.Now())
		}
		csv := storage.NewCSVStorage(csvPath, cfg.Append)
		sink, err := openRecordSinks(ctx, cfg, csv, logger)
		if err != nil {
			return err
		}

		logger.Info("scan start",
			zap.Int("contracts", len(cfg.Contracts)),
			zap.Uint64("from", cfg.FromBlock),
			zap.Uint64("to", cfg.ToBlock),
			zap.String("out", csv.Path()),
		)

		runErr := runner.Run(ctx, sink)
		if err := sink.Close(); err != nil && runErr == nil {
			runErr = fmt.Errorf("close sinks: %w", err)
		}
		if runErr != nil {
			return runErr
		}

		summary := runner.Summary()
		out := cmd.OutOrStdout()
		report.Print(out, summary)
		fmt.Fprintf(out, "\n%d records -> %s\n", summary.Totals().Records, csv.Path())
		if !cfg.Quiet {
			report.PrintRecovered(out, summary.Recovered())
		}
		return nil
	})
}

func runFetch(cmd *cobra.Command, _ []string) error {
	return withScanner(cmd, func(ctx context.Context, cfg config.ScanConfig, runner *scanner.Runner, logger *zap.Logger) error {
		if cfg.Out == "" {
			return fmt.Errorf("output path is required")
		}
		sink := storage.NewJsonlStorage(cfg.Out)
		defer sink.Close()

		logger.Info("fetch start", zap.Int("contracts", len(cfg.Contracts)), zap.String("out", cfg.Out))
		if err := runner.Fetch(ctx, sink); err != nil {
			return err
		}

		summary := runner.Summary()
		report.Print(cmd.OutOrStdout(), summary)
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d logs -> %s\n", summary.Totals().Logs, cfg.Out)
		return nil
	})
}

// withScanner loads configuration and builds the log source, creator
// resolver and runner shared by scan and fetch.
func withScanner(cmd *cobra.Command, fn func(context.Context, config.ScanConfig, *scanner.Runner, *zap.Logger) error) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadScan(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}

	topic := cfg.Topic0
	if cfg.Event != "" {
		topic = cfg.Event
	}
	topic0, err := scanner.ParseTopic0(topic)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.InitTracer(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()

	var (
		source   scanner.LogSource
		creators scanner.CreatorResolver = scanner.FixedCreator(model.CreatorUnknown)
	)

	if cfg.APIKey != "" {
		client, err := etherscan.NewClient(etherscan.Config{
			BaseURL:   cfg.APIURL,
			APIKey:    cfg.APIKey,
			ChainID:   cfg.ChainID,
			Topic0:    topic0.Hex(),
			FromBlock: cfg.FromBlock,
			ToBlock:   cfg.ToBlock,
			PageSize:  cfg.PageSize,
			RateDelay: cfg.RateDelay,
			Timeout:   cfg.Timeout,
		}, logger)
		if err != nil {
			return err
		}
		source = client
		creators = client
	}

	if cfg.Source == config.SourceRPC {
		chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("connect rpc: %w", err)
		}
		defer chainClient.Close()

		source = scanner.NewRPCSource(scanner.RPCConfig{
			FromBlock:    cfg.FromBlock,
			ToBlock:      cfg.ToBlock,
			Topic0:       topic0,
			BatchSize:    cfg.BatchSize,
			MaxRetries:   cfg.MaxRetries,
			RetryBackoff: cfg.RetryBackoff,
		}, chainClient, logger)
	}

	if cfg.RedisAddr != "" && cfg.APIKey != "" {
		backend, err := cache.NewRedisBackend(cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Warn("creator cache disabled", zap.String("redis", cfg.RedisAddr), zap.Error(err))
		} else {
			creatorCache := cache.NewCreatorCache(creators, backend, cfg.ChainID, cfg.RedisTTL, logger)
			defer creatorCache.Close()
			creators = creatorCache
		}
	}

	runner := scanner.NewRunner(scanner.RunConfig{
		Contracts:         cfg.Contracts,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
	}, source, creators, report.NewSummary(), logger)

	err = fn(ctx, cfg, runner, logger)
	if errors.Is(err, context.Canceled) {
		logger.Warn("interrupted")
	}
	return err
}

// openRecordSinks opens every configured sink and puts csv first. Sinks opened
// before a failure are closed.
func openRecordSinks(ctx context.Context, cfg config.ScanConfig, csv *storage.CSVStorage, logger *zap.Logger) (storage.Multi, error) {
	sinks := storage.Multi{}
	fail := func(err error) (storage.Multi, error) {
		_ = sinks.Close()
		return nil, err
	}

	if cfg.JSONL != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.JSONL))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fail(fmt.Errorf("connect postgres: %w", err))
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return fail(err)
		}
		sinks = append(sinks, store)
	}
	if cfg.SQLitePath != "" {
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return fail(fmt.Errorf("open sqlite: %w", err))
		}
		sinks = append(sinks, store)
	}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, producer)
	}

	sinks = append(storage.Multi{csv}, sinks...)
	logger.Debug("record sinks ready", zap.Int("sinks", len(sinks)))
	return sinks, nil
}
