package storage

import (
	"context"
	"errors"

	"c2Scope/internal/model"
)

// Storage defines a sink for decoded output records.
type Storage interface {
	PutRecords(ctx context.Context, records []model.OutputRecord) error
	Close() error
}

// LogStorage defines a sink for raw event logs.
type LogStorage interface {
	PutLogBatch(ctx context.Context, logs []model.LogRecord) error
	Close() error
}

// Multi fans records out to every sink in order.
type Multi []Storage

func (m Multi) PutRecords(ctx context.Context, records []model.OutputRecord) error {
	for _, sink := range m {
		if err := sink.PutRecords(ctx, records); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, sink := range m {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
