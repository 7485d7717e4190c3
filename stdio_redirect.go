package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// openStdioLog opens path for appending, creating its directory first.
func openStdioLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("stdio log: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("stdio log: %w", err)
	}
	return f, nil
}
