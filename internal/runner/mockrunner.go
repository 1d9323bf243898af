package runner

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MockRunner records every invocation and replays canned responses keyed by
// "name arg1 arg2...".
type MockRunner struct {
	mu        sync.Mutex
	Commands  []MockCommand
	Responses map[string]MockResponse
}

type MockCommand struct {
	Name    string
	Args    []string
	Timeout time.Duration
	Mode    Mode
}

type MockResponse struct {
	Output []byte
	Error  error
}

func NewMockRunner() *MockRunner {
	return &MockRunner{Responses: make(map[string]MockResponse)}
}

func (m *MockRunner) Run(
	_ context.Context,
	timeout time.Duration,
	mode Mode,
	name string,
	args ...string,
) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Commands = append(m.Commands, MockCommand{
		Name:    name,
		Args:    args,
		Timeout: timeout,
		Mode:    mode,
	})

	if resp, ok := m.Responses[cmdKey(name, args...)]; ok {
		return resp.Output, resp.Error
	}
	return []byte{}, nil
}

func (m *MockRunner) AddResponse(key string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[key] = MockResponse{Output: output, Error: err}
}

// Calls returns a snapshot of the recorded invocations.
func (m *MockRunner) Calls() []MockCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCommand(nil), m.Commands...)
}

func cmdKey(name string, args ...string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}
