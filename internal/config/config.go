package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "C2SCOPE"
	defaultEnvFile = ".env"

	SourceEtherscan = "etherscan"
	SourceRPC       = "rpc"
)

// ScanConfig holds settings for the scan and fetch commands.
type ScanConfig struct {
	Source    string
	APIKey    string
	APIURL    string
	ChainID   uint64
	Topic0    string
	Event     string
	FromBlock uint64
	ToBlock   uint64
	PageSize  int
	RateDelay time.Duration
	Timeout   time.Duration

	RPCURL       string
	BatchSize    uint64
	MaxRetries   int
	RetryBackoff time.Duration

	Contracts []string

	Out          string
	Append       bool
	JSONL        string
	PGDSN        string
	SQLitePath   string
	KafkaBrokers []string
	KafkaTopic   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	Checkpoint        string
	CheckpointEnabled bool

	OTLPEndpoint string
	Quiet        bool
	LogLevel     string
}

// LoadScan merges .env, config file, environment variables, and flags into ScanConfig.
func LoadScan(cfgFile string, flags *pflag.FlagSet) (ScanConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return ScanConfig{}, err
	}

	cfg := ScanConfig{
		Source:    strings.ToLower(v.GetString("source")),
		APIKey:    v.GetString("api-key"),
		APIURL:    v.GetString("api-url"),
		ChainID:   v.GetUint64("chain-id"),
		Topic0:    v.GetString("topic0"),
		Event:     v.GetString("event"),
		FromBlock: v.GetUint64("from-block"),
		ToBlock:   v.GetUint64("to-block"),
		PageSize:  v.GetInt("page-size"),
		RateDelay: v.GetDuration("rate-delay"),
		Timeout:   v.GetDuration("timeout"),

		RPCURL:       v.GetString("rpc"),
		BatchSize:    v.GetUint64("batch-size"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),

		Out:          v.GetString("out"),
		Append:       v.GetBool("append"),
		JSONL:        v.GetString("jsonl"),
		PGDSN:        v.GetString("pg-dsn"),
		SQLitePath:   v.GetString("sqlite"),
		KafkaBrokers: getStringSlice(v, "kafka-brokers"),
		KafkaTopic:   v.GetString("kafka-topic"),

		RedisAddr:     v.GetString("redis-addr"),
		RedisPassword: v.GetString("redis-password"),
		RedisDB:       v.GetInt("redis-db"),
		RedisTTL:      v.GetDuration("redis-ttl"),

		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),

		OTLPEndpoint: v.GetString("otlp-endpoint"),
		Quiet:        v.GetBool("quiet"),
		LogLevel:     v.GetString("log-level"),
	}
	if cfg.Source == "" {
		cfg.Source = SourceEtherscan
	}

	cfg.Contracts, err = LoadContracts(getStringSlice(v, "contracts"), v.GetString("contracts-file"))
	if err != nil {
		return ScanConfig{}, err
	}
	return cfg, nil
}

// Validate checks the settings that must be present before any network call.
func (c ScanConfig) Validate() error {
	switch c.Source {
	case SourceEtherscan:
		if c.APIKey == "" {
			return fmt.Errorf("api key is required for source %q", c.Source)
		}
	case SourceRPC:
		if c.RPCURL == "" {
			return fmt.Errorf("rpc url is required for source %q", c.Source)
		}
		if c.BatchSize == 0 {
			return fmt.Errorf("batch size must be greater than zero")
		}
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}
	if len(c.Contracts) == 0 {
		return ErrNoContracts
	}
	return nil
}

func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	envFile := defaultEnvFile
	if flags != nil {
		if f := flags.Lookup("env-file"); f != nil && f.Value.String() != "" {
			envFile = f.Value.String()
		}
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	return cleanStrings(strings.Split(input, ","))
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
