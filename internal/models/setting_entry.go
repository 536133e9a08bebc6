package models

import "time"

// SettingEntry is one key-value row; the settings store keeps its JSON record
// under a single fixed key.
type SettingEntry struct {
	Key       string `gorm:"primaryKey;size:120"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
