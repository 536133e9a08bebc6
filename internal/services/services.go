package services

import (
	"reportgen/internal/repositories"
)

// Services aggregates the services the shell and the CLI are built from.
type Services struct {
	Settings   SettingsService
	Models     ModelCatalogService
	Generation GenerationService
}

// NewServices wires the services over the settings repository. catalog is the
// raw model catalog JSON.
func NewServices(repo repositories.SettingEntryRepository, chat ChatStreamer, catalog []byte) (*Services, error) {
	settings := NewSettingsService(repo)
	catalogService := NewModelCatalogService(catalog)
	if err := catalogService.Startup(); err != nil {
		return nil, err
	}
	return &Services{
		Settings:   settings,
		Models:     catalogService,
		Generation: NewGenerationService(settings, chat),
	}, nil
}
