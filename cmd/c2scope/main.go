package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"c2Scope/internal/etherscan"
)

func main() {
	root := &cobra.Command{
		Use:          "c2scope",
		Short:        "Recover C2 configuration values published in contract event logs",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Fetch, decode and export C2 records for a set of contracts",
		RunE:  runScan,
	}
	addSourceFlags(scanCmd.Flags())
	scanCmd.Flags().String("out", "", "CSV output path (default c2_domains_YYYYMMDD_HHMMSS.csv)")
	scanCmd.Flags().Bool("append", false, "append to an existing CSV instead of truncating it")
	scanCmd.Flags().String("jsonl", "", "also write records to this JSONL file")
	scanCmd.Flags().String("pg-dsn", "", "also write records to Postgres")
	scanCmd.Flags().String("sqlite", "", "also write records to this SQLite database")
	scanCmd.Flags().StringSlice("kafka-brokers", nil, "also publish records to these Kafka brokers")
	scanCmd.Flags().String("kafka-topic", "c2scope-records", "Kafka topic for records")
	scanCmd.Flags().Bool("quiet", false, "do not print recovered values")
	root.AddCommand(scanCmd)

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch raw event logs to JSONL for offline decoding",
		RunE:  runFetch,
	}
	addSourceFlags(fetchCmd.Flags())
	fetchCmd.Flags().String("out", "./data/logs.jsonl", "output JSONL path")
	root.AddCommand(fetchCmd)

	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode raw logs written by fetch",
		RunE:  runDecode,
	}
	decodeCmd.Flags().String("in", "", "input raw logs JSONL")
	decodeCmd.Flags().String("out", "", "CSV output path (default c2_domains_YYYYMMDD_HHMMSS.csv)")
	decodeCmd.Flags().Bool("append", false, "append to an existing CSV instead of truncating it")
	decodeCmd.Flags().String("jsonl", "", "also write records to this JSONL file")
	decodeCmd.Flags().Bool("quiet", false, "do not print recovered values")
	decodeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(decodeCmd)

	decryptCmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Run the decode chain on a single value",
		RunE:  runDecrypt,
	}
	decryptCmd.Flags().String("contract", "", "contract address the value was emitted by")
	decryptCmd.Flags().String("value", "", "raw field value")
	decryptCmd.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.AddCommand(decryptCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSourceFlags(flags *pflag.FlagSet) {
	flags.String("source", "etherscan", "log source (etherscan, rpc)")
	flags.String("api-key", "", "indexing API key")
	flags.String("api-url", etherscan.DefaultBaseURL, "indexing API base URL")
	flags.Uint64("chain-id", etherscan.DefaultChainID, "chain id")
	flags.String("topic0", etherscan.DefaultTopic0, "event topic0 hash")
	flags.String("event", "", "event signature, overrides --topic0")
	flags.Uint64("from-block", 0, "start block (inclusive)")
	flags.Uint64("to-block", etherscan.DefaultToBlock, "end block (inclusive)")
	flags.Int("page-size", etherscan.DefaultPageSize, "logs per API page")
	flags.Duration("rate-delay", etherscan.DefaultRateDelay, "minimum spacing between API requests")
	flags.Duration("timeout", etherscan.DefaultTimeout, "per-request timeout")

	flags.String("rpc", "", "JSON-RPC URL for --source rpc")
	flags.Uint64("batch-size", 2000, "blocks per eth_getLogs call")
	flags.Int("max-retries", 5, "maximum retry attempts per RPC call")
	flags.Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")

	flags.StringSlice("contracts", nil, "contract addresses (comma-separated)")
	flags.String("contracts-file", "", "file with one contract address per line")

	flags.String("redis-addr", "", "cache creators in this Redis instance")
	flags.String("redis-password", "", "Redis password")
	flags.Int("redis-db", 0, "Redis database")
	flags.Duration("redis-ttl", 24*time.Hour, "creator cache TTL")

	flags.String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	flags.Bool("checkpoint-enabled", false, "skip contracts completed by a previous run")

	flags.String("otlp-endpoint", "", "OTLP/HTTP trace endpoint")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
