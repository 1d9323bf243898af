package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/utils"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FS stores every key as "<dir>/<key>.json", written atomically.
type FS struct {
	dir string
	mu  sync.RWMutex
}

func NewFS(dataDir string) (*FS, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dataDir, err)
	}
	return &FS{dir: dataDir}, nil
}

func (s *FS) Path() string { return s.dir }

func (s *FS) Close() error { return nil }

func (s *FS) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.keyPath(key)
	if err != nil {
		return nil, &Error{Op: "get", Key: key, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &Error{Op: "get", Key: key, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Op: "get", Key: key, Err: err}
	}
	return data, nil
}

func (s *FS) Set(ctx context.Context, key string, value []byte) error {
	p, err := s.keyPath(key)
	if err != nil {
		return &Error{Op: "set", Key: key, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return &Error{Op: "set", Key: key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Debug("writing %s (size=%s)", p, utils.HumanSize(int64(len(value))))
	if err := utils.WriteBytesAtomic(p, value); err != nil {
		return &Error{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *FS) Delete(ctx context.Context, key string) error {
	p, err := s.keyPath(key)
	if err != nil {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return &Error{Op: "delete", Key: key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *FS) keyPath(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}
