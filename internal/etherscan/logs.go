package etherscan

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"c2Scope/internal/model"
)

type apiLog struct {
	Address          string   `json:"address"`
	Topics           []string `json:"topics"`
	Data             string   `json:"data"`
	BlockNumber      string   `json:"blockNumber"`
	TimeStamp        string   `json:"timeStamp"`
	LogIndex         string   `json:"logIndex"`
	TransactionHash  string   `json:"transactionHash"`
	TransactionIndex string   `json:"transactionIndex"`
}

// FetchLogs returns every log emitted by contract with the configured topic0
// inside the configured block range, walking pages until a short or empty page.
// A failed request ends pagination and the logs gathered so far are returned;
// only context cancellation is reported as an error.
func (c *Client) FetchLogs(ctx context.Context, contract string) ([]model.LogRecord, error) {
	logs := make([]model.LogRecord, 0)
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("module", "logs")
		params.Set("action", "getLogs")
		params.Set("address", contract)
		params.Set("topic0", c.cfg.Topic0)
		params.Set("fromBlock", strconv.FormatUint(c.cfg.FromBlock, 10))
		params.Set("toBlock", strconv.FormatUint(c.cfg.ToBlock, 10))
		params.Set("page", strconv.Itoa(page))
		params.Set("offset", strconv.Itoa(c.cfg.PageSize))

		resp, err := c.get(ctx, params)
		if err != nil {
			if ctx.Err() != nil {
				return logs, ctx.Err()
			}
			c.logger.Warn("logs request failed, results truncated",
				zap.String("contract", contract),
				zap.Int("page", page),
				zap.Int("logs", len(logs)),
				zap.Error(err),
			)
			return logs, nil
		}

		if resp.Status != statusOK {
			if isNoRecords(resp) {
				c.logger.Debug("no more logs", zap.String("contract", contract), zap.Int("page", page))
			} else {
				c.logger.Warn("logs query not successful, results truncated",
					zap.String("contract", contract),
					zap.Int("page", page),
					zap.Int("logs", len(logs)),
					zap.String("message", resp.Message),
					zap.String("result", resultText(resp)),
				)
			}
			return logs, nil
		}

		var entries []apiLog
		if err := json.Unmarshal(resp.Result, &entries); err != nil {
			c.logger.Warn("logs result malformed, results truncated",
				zap.String("contract", contract),
				zap.Int("page", page),
				zap.Error(err),
			)
			return logs, nil
		}
		if len(entries) == 0 {
			return logs, nil
		}

		for _, entry := range entries {
			logs = append(logs, c.toLogRecord(contract, entry))
		}
		c.logger.Info("logs page", zap.String("contract", contract), zap.Int("page", page), zap.Int("count", len(entries)))

		if len(entries) < c.cfg.PageSize {
			return logs, nil
		}
	}
}

func (c *Client) toLogRecord(contract string, entry apiLog) model.LogRecord {
	return model.LogRecord{
		ChainID:     c.cfg.ChainID,
		Contract:    contract,
		BlockNumber: c.hexField(entry, "blockNumber", entry.BlockNumber),
		TxHash:      entry.TransactionHash,
		LogIndex:    c.hexField(entry, "logIndex", entry.LogIndex),
		Topics:      entry.Topics,
		Data:        entry.Data,
		Timestamp:   c.hexField(entry, "timeStamp", entry.TimeStamp),
	}
}

func (c *Client) hexField(entry apiLog, name, value string) uint64 {
	parsed, err := parseHexUint(value)
	if err != nil {
		c.logger.Warn("invalid hex field in log",
			zap.String("field", name),
			zap.String("value", value),
			zap.String("tx_hash", entry.TransactionHash),
		)
		return 0
	}
	return parsed
}

func parseHexUint(value string) (uint64, error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if trimmed == "" {
		return 0, nil
	}
	return strconv.ParseUint(trimmed, 16, 64)
}
