package models

// GenerationRequest is one report generation attempt. It is never persisted.
type GenerationRequest struct {
	Category string `json:"category"`
	Depth    string `json:"depth"`
	Brief    string `json:"brief"`
}

// GenerationResult describes how an attempt ended. Output holds whatever was
// assembled, including partial output when Incomplete is set.
type GenerationResult struct {
	Token      uint64 `json:"token"`
	Model      string `json:"model"`
	Output     string `json:"output"`
	Deltas     int    `json:"deltas"`
	Bytes      int    `json:"bytes"`
	Runes      int    `json:"runes"`
	Incomplete bool   `json:"incomplete"`
	Superseded bool   `json:"superseded"`
	Error      string `json:"error,omitempty"`
}
