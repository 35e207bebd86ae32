package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// DecodeConfig holds configuration for the offline decode command.
type DecodeConfig struct {
	In       string
	Out      string
	Append   bool
	JSONL    string
	Quiet    bool
	LogLevel string
}

// LoadDecode merges .env, config file, environment variables, and flags into DecodeConfig.
func LoadDecode(cfgFile string, flags *pflag.FlagSet) (DecodeConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return DecodeConfig{}, err
	}

	cfg := DecodeConfig{
		In:       v.GetString("in"),
		Out:      v.GetString("out"),
		Append:   v.GetBool("append"),
		JSONL:    v.GetString("jsonl"),
		Quiet:    v.GetBool("quiet"),
		LogLevel: v.GetString("log-level"),
	}
	if cfg.In == "" {
		return DecodeConfig{}, fmt.Errorf("input file is required")
	}
	return cfg, nil
}

// DecryptConfig holds configuration for decoding a single value.
type DecryptConfig struct {
	Contract string
	Value    string
	LogLevel string
}

// LoadDecrypt merges .env, config file, environment variables, and flags into DecryptConfig.
func LoadDecrypt(cfgFile string, flags *pflag.FlagSet) (DecryptConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return DecryptConfig{}, err
	}

	cfg := DecryptConfig{
		Contract: v.GetString("contract"),
		Value:    v.GetString("value"),
		LogLevel: v.GetString("log-level"),
	}
	if cfg.Contract == "" {
		return DecryptConfig{}, fmt.Errorf("contract is required")
	}
	return cfg, nil
}
