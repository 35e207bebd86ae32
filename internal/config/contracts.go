package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoContracts is returned when neither the flag nor the file names a contract.
var ErrNoContracts = errors.New("no contracts")

// LoadContracts combines the inline list and the optional file, lowercases every
// address and drops duplicates while keeping first-seen order. File lines that
// are blank or start with '#' are ignored.
func LoadContracts(inline []string, file string) ([]string, error) {
	items := append([]string(nil), inline...)
	if file != "" {
		fromFile, err := readContractsFile(file)
		if err != nil {
			return nil, err
		}
		items = append(items, fromFile...)
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		contract := strings.ToLower(strings.TrimSpace(item))
		if contract == "" {
			continue
		}
		if _, ok := seen[contract]; ok {
			continue
		}
		seen[contract] = struct{}{}
		out = append(out, contract)
	}
	return out, nil
}

func readContractsFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open contracts file: %w", err)
	}
	defer file.Close()

	out := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read contracts file: %w", err)
	}
	return out, nil
}
