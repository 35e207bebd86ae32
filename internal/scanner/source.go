package scanner

import (
	"context"

	"c2Scope/internal/model"
)

// LogSource returns every matching event log of one contract. Implementations
// truncate on transient failures and report only cancellation as an error.
type LogSource interface {
	FetchLogs(ctx context.Context, contract string) ([]model.LogRecord, error)
}

// CreatorResolver returns the deployer of a contract or model.CreatorUnknown.
type CreatorResolver interface {
	ContractCreator(ctx context.Context, contract string) string
}

// FixedCreator resolves every contract to the same value.
type FixedCreator string

func (f FixedCreator) ContractCreator(context.Context, string) string {
	if f == "" {
		return model.CreatorUnknown
	}
	return string(f)
}
