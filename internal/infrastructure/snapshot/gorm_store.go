package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// clientSnapshot is the persistence model. One row per profile; the
// document column carries the same JSON the file backend writes.
type clientSnapshot struct {
	Profile   string `gorm:"primaryKey;size:64"`
	Document  []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (clientSnapshot) TableName() string {
	return "client_snapshots"
}

// AutoMigrate creates or upgrades the snapshot table. Call once at
// startup, before the store takes traffic.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&clientSnapshot{})
}

// GormStore persists snapshots through GORM, normally against the
// embedded SQLite database configured for the deployment.
type GormStore struct {
	db      *gorm.DB
	profile string
	logger  *zap.Logger
}

// NewGormStore wraps an existing GORM handle. The store assumes
// AutoMigrate already ran.
func NewGormStore(db *gorm.DB, profile string, logger *zap.Logger) (*GormStore, error) {
	if db == nil {
		return nil, errors.New("snapshot: db handle is required")
	}
	if profile == "" {
		return nil, errors.New("snapshot: profile is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormStore{db: db, profile: profile, logger: logger}, nil
}

// Load reads the profile's row. A missing row means no snapshot.
func (s *GormStore) Load(ctx context.Context) (*Snapshot, error) {
	var row clientSnapshot
	if err := s.db.WithContext(ctx).First(&row, "profile = ?", s.profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot: load profile %s: %w", s.profile, err)
	}
	return decodeDocument(row.Document, s.logger), nil
}

// Save upserts the profile's row.
func (s *GormStore) Save(ctx context.Context, snap *Snapshot) error {
	doc, err := encodeDocument(snap)
	if err != nil {
		return err
	}
	row := clientSnapshot{Profile: s.profile, Document: doc}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("snapshot: save profile %s: %w", s.profile, err)
	}
	return nil
}

// Clear deletes the profile's row. Clearing an absent snapshot is a
// no-op.
func (s *GormStore) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Delete(&clientSnapshot{}, "profile = ?", s.profile).Error; err != nil {
		return fmt.Errorf("snapshot: clear profile %s: %w", s.profile, err)
	}
	return nil
}

// Close releases the underlying connection pool. The store is the
// pool's only user in this process.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("snapshot: close: %w", err)
	}
	return sqlDB.Close()
}

var _ Store = (*GormStore)(nil)
