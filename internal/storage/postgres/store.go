package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"c2Scope/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS c2_records (
	id BIGSERIAL PRIMARY KEY,
	contract TEXT NOT NULL,
	contract_creator TEXT NOT NULL,
	block_number BIGINT NOT NULL,
	block_time TEXT NOT NULL,
	tx_hash TEXT NOT NULL,
	log_index BIGINT NOT NULL,
	field TEXT NOT NULL,
	method TEXT NOT NULL,
	decoded TEXT NOT NULL,
	raw TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (contract, tx_hash, log_index, field)
);
CREATE INDEX IF NOT EXISTS c2_records_method_idx ON c2_records (method);
`

// Store persists output records in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// EnsureSchema creates the c2_records table when it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// PutRecords inserts records in one batch. Rows already stored by an earlier
// run are left untouched.
func (s *Store) PutRecords(ctx context.Context, records []model.OutputRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`
			INSERT INTO c2_records (
				contract, contract_creator, block_number, block_time, tx_hash, log_index, field, method, decoded, raw
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (contract, tx_hash, log_index, field) DO NOTHING
		`,
			rec.Contract,
			rec.ContractCreator,
			int64(rec.Block),
			rec.Timestamp,
			rec.TxHash,
			int64(rec.LogIndex),
			rec.Field,
			string(rec.Method),
			rec.Decoded,
			rec.Raw,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return nil
}
