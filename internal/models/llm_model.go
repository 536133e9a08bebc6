package models

// LLMModel represents a single language model option exposed to the UI.
type LLMModel struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	ProviderID  string `json:"providerId"`
	Recommended bool   `json:"recommended,omitempty"`
}
