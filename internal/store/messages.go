// Package store holds conversation history for a single agent run.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/natefinch/atomic"
)

// MessageStore is an append-only conversation history.
// It is safe for concurrent use.
type MessageStore struct {
	mu       sync.RWMutex
	messages []evolve.Message
}

// NewMessageStore creates a store initialized with a copy of messages.
func NewMessageStore(messages ...evolve.Message) *MessageStore {
	ms := &MessageStore{messages: make([]evolve.Message, 0, len(messages))}
	ms.messages = append(ms.messages, messages...)
	return ms
}

// Messages returns a copy of all messages.
func (m *MessageStore) Messages() []evolve.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]evolve.Message, len(m.messages))
	copy(result, m.messages)
	return result
}

// Append adds messages to the store.
func (m *MessageStore) Append(msgs ...evolve.Message) {
	if len(msgs) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msgs...)
}

// Len returns the number of messages.
func (m *MessageStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}

// Last returns the last n messages. If n > Len(), returns all messages.
func (m *MessageStore) Last(n int) []evolve.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n <= 0 {
		return nil
	}

	start := len(m.messages) - n
	if start < 0 {
		start = 0
	}

	result := make([]evolve.Message, len(m.messages)-start)
	copy(result, m.messages[start:])
	return result
}

// WriteFile saves the history as indented JSON. The file is replaced
// atomically.
func (m *MessageStore) WriteFile(path string) error {
	m.mu.RLock()
	raw, err := json.MarshalIndent(m.messages, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(raw))
}

// ReadFile loads a history saved by WriteFile.
func ReadFile(path string) (*MessageStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var messages []evolve.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("decode history %s: %w", path, err)
	}
	return NewMessageStore(messages...), nil
}
