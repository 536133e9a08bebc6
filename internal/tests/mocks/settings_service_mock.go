package mocks

import (
	"context"

	"reportgen/internal/models"
)

type SettingsServiceMock struct {
	LoadFunc func(ctx context.Context) (*models.Config, bool)
	SaveFunc func(ctx context.Context, cfg models.Config) error
}

func (m *SettingsServiceMock) Load(ctx context.Context) (*models.Config, bool) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return nil, false
}

func (m *SettingsServiceMock) Save(ctx context.Context, cfg models.Config) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, cfg)
	}
	return nil
}
