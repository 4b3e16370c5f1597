package snapshot

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// MemoryStore holds the encoded document in memory. It backs the
// memory backend and tests; contents do not survive a restart.
//
// The document is stored as bytes rather than as the struct so loads
// go through the same decode path as every other backend.
type MemoryStore struct {
	mu     sync.Mutex
	doc    []byte
	logger *zap.Logger
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{logger: logger}
}

func (s *MemoryStore) Load(_ context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, nil
	}
	return decodeDocument(s.doc, s.logger), nil
}

func (s *MemoryStore) Save(_ context.Context, snap *Snapshot) error {
	doc, err := encodeDocument(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.doc = nil
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
