package mocks

import (
	"context"
	"sync"

	"reportgen/internal/models"
)

// SettingEntryRepositoryMock keeps entries in memory unless a func field overrides it.
type SettingEntryRepositoryMock struct {
	GetFunc func(ctx context.Context, key string) (*models.SettingEntry, error)
	PutFunc func(ctx context.Context, entry *models.SettingEntry) error

	mu      sync.Mutex
	entries map[string]models.SettingEntry
}

func (m *SettingEntryRepositoryMock) Get(ctx context.Context, key string) (*models.SettingEntry, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *SettingEntryRepositoryMock) Put(ctx context.Context, entry *models.SettingEntry) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string]models.SettingEntry)
	}
	m.entries[entry.Key] = *entry
	return nil
}
