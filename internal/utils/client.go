package utils

import (
	"io"

	"github.com/MrSnakeDoc/artcrate/internal/logger"
)

// Try runs a deferred cleanup and logs its failure.
func Try(f func() error) {
	if err := f(); err != nil {
		logger.LogError("deferred cleanup failed: %v", err)
	}
}

func Close(c io.Closer) {
	if err := c.Close(); err != nil {
		logger.LogError("close failed: %v", err)
	}
}
