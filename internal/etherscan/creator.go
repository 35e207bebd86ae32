package etherscan

import (
	"context"
	"encoding/json"
	"net/url"

	"go.uber.org/zap"

	"c2Scope/internal/model"
)

type contractCreation struct {
	ContractAddress string `json:"contractAddress"`
	ContractCreator string `json:"contractCreator"`
	TxHash          string `json:"txHash"`
}

// ContractCreator returns the deployer of contract, or model.CreatorUnknown when
// the lookup fails for any reason.
func (c *Client) ContractCreator(ctx context.Context, contract string) string {
	params := url.Values{}
	params.Set("module", "contract")
	params.Set("action", "getcontractcreation")
	params.Set("contractaddresses", contract)

	resp, err := c.get(ctx, params)
	if err != nil {
		c.logger.Warn("creator lookup failed", zap.String("contract", contract), zap.Error(err))
		return model.CreatorUnknown
	}
	if resp.Status != statusOK {
		c.logger.Warn("creator lookup not successful",
			zap.String("contract", contract),
			zap.String("message", resp.Message),
			zap.String("result", resultText(resp)),
		)
		return model.CreatorUnknown
	}

	var entries []contractCreation
	if err := json.Unmarshal(resp.Result, &entries); err != nil {
		c.logger.Warn("creator result malformed", zap.String("contract", contract), zap.Error(err))
		return model.CreatorUnknown
	}
	if len(entries) == 0 || entries[0].ContractCreator == "" {
		return model.CreatorUnknown
	}
	return entries[0].ContractCreator
}
