package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileStore keeps one JSON document per profile under a directory.
// Writes go through a temp file in the same directory plus a rename,
// so a crash mid-write never leaves a truncated document behind.
type FileStore struct {
	dir     string
	profile string
	logger  *zap.Logger
}

// NewFileStore creates the directory if needed and returns a store
// scoped to the given profile.
func NewFileStore(dir, profile string, logger *zap.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("snapshot: directory is required")
	}
	if profile == "" {
		return nil, errors.New("snapshot: profile is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("snapshot: create directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, profile: profile, logger: logger}, nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, s.profile+".json")
}

// Load reads the profile's document. A missing file means no snapshot.
func (s *FileStore) Load(_ context.Context) (*Snapshot, error) {
	raw, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot: read %s: %w", s.path(), err)
	}
	return decodeDocument(raw, s.logger), nil
}

// Save replaces the profile's document atomically.
func (s *FileStore) Save(_ context.Context, snap *Snapshot) error {
	doc, err := encodeDocument(snap)
	if err != nil {
		return err
	}
	// CreateTemp opens the file 0600, which is also the mode the final
	// document keeps: the token inside is a live credential.
	tmp, err := os.CreateTemp(s.dir, s.profile+".json.tmp-*")
	if err != nil {
		return fmt.Errorf("snapshot: create temp file: %w", err)
	}
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("snapshot: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("snapshot: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path()); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("snapshot: replace %s: %w", s.path(), err)
	}
	return nil
}

// Clear removes the profile's document. Clearing an absent snapshot is
// a no-op.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("snapshot: remove %s: %w", s.path(), err)
	}
	return nil
}

// Close is a no-op; the store holds no open handles between calls.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
