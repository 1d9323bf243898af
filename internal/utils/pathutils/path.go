package pathutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToHomePathFormat shortens paths under the home directory to "~/...".
func ToHomePathFormat(path string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if path == home {
		return "~", nil
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "~" + strings.TrimPrefix(path, home), nil
	}
	return path, nil
}

// ToAbsolutePath expands a leading "~" and makes path absolute.
func ToAbsolutePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
