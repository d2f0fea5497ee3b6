// Package localstore is the storefront's durable key-value blob store: a
// handful of fixed keys, each holding one opaque JSON document.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDecode marks a blob that exists but does not parse as the expected
// shape. Callers decide whether that is fatal; the auth store treats a
// malformed session record as "logged out".
var ErrDecode = errors.New("malformed record")

type Record struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (Record) TableName() string {
	return "storage_records"
}

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate storage records: %w", err)
	}
	return &Store{DB: db}, nil
}

// Get unmarshals the blob under key into out. The first return value reports
// whether the key exists at all.
func (s *Store) Get(ctx context.Context, key string, out any) (bool, error) {
	var rec Record
	if err := s.DB.WithContext(ctx).Where("key = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(rec.Value, out); err != nil {
		return true, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return true, nil
}

func (s *Store) Put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	rec := Record{Key: key, Value: data, UpdatedAt: time.Now().UTC()}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}

// Delete removes the blob under key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Where("key = ?", key).Delete(&Record{}).Error
}
