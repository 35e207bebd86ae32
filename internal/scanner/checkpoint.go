package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Checkpoint lists the contracts whose records were fully written.
type Checkpoint struct {
	Completed []string `json:"completed"`
	UpdatedAt string   `json:"updated_at"`
}

// CheckpointStore persists checkpoints to disk.
type CheckpointStore struct {
	path      string
	enabled   bool
	completed map[string]struct{}
}

func NewCheckpointStore(path string, enabled bool) *CheckpointStore {
	return &CheckpointStore{path: path, enabled: enabled && path != "", completed: make(map[string]struct{})}
}

// Load reads the checkpoint file. A missing file is an empty checkpoint.
func (c *CheckpointStore) Load() (Checkpoint, error) {
	if !c.enabled {
		return Checkpoint{}, nil
	}

	stat, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Checkpoint{}, nil
		}
		return Checkpoint{}, fmt.Errorf("stat checkpoint: %w", err)
	}
	if stat.IsDir() {
		return Checkpoint{}, fmt.Errorf("checkpoint path is a directory")
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, fmt.Errorf("parse checkpoint: %w", err)
	}
	for _, contract := range cp.Completed {
		c.completed[strings.ToLower(contract)] = struct{}{}
	}
	return cp, nil
}

// Done reports whether contract was completed by a previous save.
func (c *CheckpointStore) Done(contract string) bool {
	if !c.enabled {
		return false
	}
	_, ok := c.completed[strings.ToLower(contract)]
	return ok
}

// MarkDone records contract as completed and rewrites the file atomically.
func (c *CheckpointStore) MarkDone(contract string) error {
	if !c.enabled {
		return nil
	}
	c.completed[strings.ToLower(contract)] = struct{}{}

	dir := filepath.Dir(c.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create checkpoint dir: %w", err)
		}
	}

	cp := Checkpoint{
		Completed: make([]string, 0, len(c.completed)),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	for contract := range c.completed {
		cp.Completed = append(cp.Completed, contract)
	}
	sort.Strings(cp.Completed)

	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint tmp: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}
	return nil
}
