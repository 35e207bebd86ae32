package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"c2Scope/internal/model"
)

const writeTimeout = 10 * time.Second

// Store persists output records in a SQLite file.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is required")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS c2_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			contract TEXT NOT NULL,
			contract_creator TEXT NOT NULL,
			block_number INTEGER NOT NULL,
			block_time TEXT NOT NULL,
			tx_hash TEXT NOT NULL,
			log_index INTEGER NOT NULL,
			field TEXT NOT NULL,
			method TEXT NOT NULL,
			decoded TEXT NOT NULL,
			raw TEXT NOT NULL,
			UNIQUE(contract, tx_hash, log_index, field)
		)`,
		`CREATE INDEX IF NOT EXISTS c2_records_method_idx ON c2_records (method)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// PutRecords inserts records in one transaction, skipping duplicates.
func (s *Store) PutRecords(ctx context.Context, records []model.OutputRecord) error {
	if len(records) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO c2_records
		(contract, contract_creator, block_number, block_time, tx_hash, log_index, field, method, decoded, raw)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(contract, tx_hash, log_index, field) DO NOTHING`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
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
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return tx.Commit()
}

// Records returns every stored record of contract in insertion order.
func (s *Store) Records(ctx context.Context, contract string) ([]model.OutputRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT contract, contract_creator, block_number, block_time, tx_hash, log_index, field, method, decoded, raw
		FROM c2_records WHERE contract = ? ORDER BY id`, contract)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]model.OutputRecord, 0)
	for rows.Next() {
		var (
			rec      model.OutputRecord
			block    int64
			logIndex int64
			method   string
		)
		if err := rows.Scan(&rec.Contract, &rec.ContractCreator, &block, &rec.Timestamp, &rec.TxHash, &logIndex, &rec.Field, &method, &rec.Decoded, &rec.Raw); err != nil {
			return nil, err
		}
		rec.Block = uint64(block)
		rec.LogIndex = uint64(logIndex)
		rec.Method = model.Method(method)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
