package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reportgen/internal/models"
)

// SettingEntryRepository is the key-value medium behind the settings store.
// Get returns (nil, nil) when the key has never been written.
type SettingEntryRepository interface {
	Get(ctx context.Context, key string) (*models.SettingEntry, error)
	Put(ctx context.Context, entry *models.SettingEntry) error
}

type settingEntryRepository struct {
	db *gorm.DB
}

func NewSettingEntryRepository(db *gorm.DB) SettingEntryRepository {
	return &settingEntryRepository{db: db}
}

func (r *settingEntryRepository) Get(ctx context.Context, key string) (*models.SettingEntry, error) {
	var entry models.SettingEntry
	if err := r.db.WithContext(ctx).Where("key = ?", key).Take(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting setting %q: %w", key, err)
	}
	return &entry, nil
}

func (r *settingEntryRepository) Put(ctx context.Context, entry *models.SettingEntry) error {
	if entry == nil || strings.TrimSpace(entry.Key) == "" {
		return errors.New("setting key is required")
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("saving setting %q: %w", entry.Key, err)
	}
	return nil
}
