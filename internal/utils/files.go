package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes content to dir/filename, creating dir if needed.
// filename is reduced to its base name so it cannot escape dir.
func WriteFile(dir, filename, content string) (string, error) {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
