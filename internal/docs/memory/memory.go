// Package memory implements the document-sharing ports in memory, for
// tests and offline runs against a local configuration workbook.
package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
)

type Store struct {
	mu        sync.Mutex
	config    []byte
	published map[string][]byte
}

// New creates a store serving the given configuration workbook bytes.
func New(config []byte) *Store {
	return &Store{config: config, published: make(map[string][]byte)}
}

// NewFromFile creates a store serving a local configuration workbook.
func NewFromFile(path string) (*Store, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read local config workbook: %w", err)
	}
	return New(content), nil
}

func (s *Store) FetchConfig(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		return nil, errors.New("no configuration workbook loaded")
	}
	return append([]byte(nil), s.config...), nil
}

// Publish records the workbook and returns a synthetic reference.
func (s *Store) Publish(_ context.Context, name string, content []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published[name] = append([]byte(nil), content...)
	return "mem:" + name, nil
}

// Published returns the stored workbook for a name, for assertions.
func (s *Store) Published(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.published[name]
	return content, ok
}
