package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"
	"time"

	"c2Scope/internal/model"
)

// DefaultCSVName returns the timestamped file name used when no output path
// is given.
func DefaultCSVName(now time.Time) string {
	return "c2_domains_" + now.Format("20060102_150405") + ".csv"
}

// CSVStorage writes output records in OutputColumns order. The header is
// written once, and only when the file is empty.
type CSVStorage struct {
	path   string
	append bool

	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	closed bool
}

// NewCSVStorage prepares a CSV sink. Without appendMode an existing file is
// truncated on first write.
func NewCSVStorage(path string, appendMode bool) *CSVStorage {
	return &CSVStorage{path: path, append: appendMode}
}

func (s *CSVStorage) open() error {
	if s.closed {
		return fmt.Errorf("csv storage is closed")
	}
	if s.writer != nil {
		return nil
	}
	if err := ensureDir(s.path); err != nil {
		return err
	}

	flags := os.O_CREATE | os.O_WRONLY
	if s.append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(s.path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open csv file: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("stat csv file: %w", err)
	}

	s.file = file
	s.writer = csv.NewWriter(file)
	if stat.Size() == 0 {
		if err := s.writer.Write(model.OutputColumns); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	return nil
}

// PutRecords writes rows and flushes them.
func (s *CSVStorage) PutRecords(_ context.Context, records []model.OutputRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(); err != nil {
		return err
	}
	for _, rec := range records {
		if err := s.writer.Write(rec.Row()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Close writes the header for runs that produced no records, then closes the
// file.
func (s *CSVStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	if err := s.open(); err != nil {
		return err
	}
	s.closed = true
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close csv file: %w", err)
	}
	return nil
}

// Path returns the file the sink writes to.
func (s *CSVStorage) Path() string {
	return s.path
}
