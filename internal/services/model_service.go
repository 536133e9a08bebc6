package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"reportgen/internal/models"
)

type ModelCatalogService interface {
	Startup() error
	ListModels() []models.LLMModel
	GetModel(id string) (*models.LLMModel, error)
}

type modelCatalogService struct {
	data []byte

	mu     sync.RWMutex
	order  []string
	models map[string]models.LLMModel
}

type rawModelFile struct {
	Providers []rawProvider `json:"providers"`
}

type rawProvider struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	Models      []rawModel `json:"models"`
}

type rawModel struct {
	DisplayName string `json:"displayName"`
	APIName     string `json:"apiName"`
	Recommended bool   `json:"recommended,omitempty"`
}

// NewModelCatalogService parses data on Startup; data is normally assets.ModelsData.
func NewModelCatalogService(data []byte) ModelCatalogService {
	return &modelCatalogService{
		data:   data,
		models: make(map[string]models.LLMModel),
	}
}

func (s *modelCatalogService) Startup() error {
	var parsed rawModelFile
	if err := json.Unmarshal(s.data, &parsed); err != nil {
		return fmt.Errorf("parse models asset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	clear(s.models)
	for _, provider := range parsed.Providers {
		providerID := strings.TrimSpace(provider.ID)
		if providerID == "" {
			continue
		}
		for _, mdl := range provider.Models {
			id := strings.TrimSpace(mdl.APIName)
			if id == "" {
				continue
			}
			if _, dup := s.models[id]; dup {
				continue
			}
			name := strings.TrimSpace(mdl.DisplayName)
			if name == "" {
				name = id
			}
			s.models[id] = models.LLMModel{
				ID:          id,
				DisplayName: name,
				ProviderID:  providerID,
				Recommended: mdl.Recommended,
			}
			s.order = append(s.order, id)
		}
	}
	return nil
}

// ListModels returns the catalog in file order.
func (s *modelCatalogService) ListModels() []models.LLMModel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.LLMModel, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.models[id])
	}
	return out
}

func (s *modelCatalogService) GetModel(id string) (*models.LLMModel, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("model id is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	mdl, ok := s.models[id]
	if !ok {
		return nil, fmt.Errorf("model %s not found", id)
	}
	return &mdl, nil
}
