package generator

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockLLM returns canned articles and records the prompts it saw
type MockLLM struct {
	mu      sync.Mutex
	Prompts []Prompt
	// Err, when set, is returned for prompts mentioning FailOn (or all prompts if FailOn is empty)
	Err    error
	FailOn string
}

func (m *MockLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()

	if m.Err != nil && (m.FailOn == "" || strings.Contains(prompt.User, m.FailOn)) {
		return "", m.Err
	}
	return fmt.Sprintf("# Article\n\n%s", prompt.User), nil
}

// Calls returns how many prompts were received
func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
