package models

import "strings"

// DefaultModelID is used when the stored configuration names no model.
const DefaultModelID = "deepseek/deepseek-chat"

// Config is the persisted user configuration. It is always written wholesale.
type Config struct {
	Credential string `json:"credential"`
	ModelID    string `json:"modelId"`
}

// HasCredential reports whether generation may be attempted.
func (c *Config) HasCredential() bool {
	return c != nil && c.Credential != ""
}

// Model returns the model to request, falling back to DefaultModelID.
func (c *Config) Model() string {
	if c == nil || strings.TrimSpace(c.ModelID) == "" {
		return DefaultModelID
	}
	return c.ModelID
}
