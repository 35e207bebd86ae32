package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"c2Scope/internal/c2"
	"c2Scope/internal/config"
	"c2Scope/internal/scanner"
)

func runDecrypt(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDecrypt(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if _, err := scanner.ParseAddress(cfg.Contract); err != nil {
		logger.Warn("contract is not a valid address, deriving key anyway", zap.String("contract", cfg.Contract))
	}

	result := c2.NewDecoder().Decode(cfg.Value, c2.DeriveKey(cfg.Contract))
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
