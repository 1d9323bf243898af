// Package desktop hands paths to the platform file browser.
package desktop

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/MrSnakeDoc/artcrate/internal/runner"
)

const openTimeout = 10 * time.Second

// OpenerFor returns the command used to open a directory on goos.
func OpenerFor(goos string) string {
	switch goos {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

// OpenPath opens path in the file browser of the current platform.
func OpenPath(ctx context.Context, r runner.CommandRunner, path string) error {
	if r == nil {
		r = runner.ExecRunner{}
	}
	name := OpenerFor(runtime.GOOS)
	out, err := r.Run(ctx, openTimeout, runner.Capture, name, path)
	// explorer.exe exits 1 even when the window opened.
	if err != nil && name != "explorer" {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s %s: %w: %s", name, path, err, msg)
		}
		return fmt.Errorf("%s %s: %w", name, path, err)
	}
	return nil
}
