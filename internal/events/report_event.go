package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventDelta   EventType = "delta"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

const (
	ReportStarted = "report:started"
	ReportDelta   = "report:delta"
	ReportDone    = "report:done"
	ReportError   = "report:error"
)

// ReportEvent is the payload pushed to the page while a report is generated.
// Token identifies the generation; the page drops events for older tokens.
type ReportEvent struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	Token      uint64            `json:"token"`
	Delta      string            `json:"delta,omitempty"`
	Message    string            `json:"message,omitempty"`
	Incomplete bool              `json:"incomplete,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func CreateReportEvent(eventType EventType, token uint64) ReportEvent {
	return ReportEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Token:     token,
		Timestamp: time.Now(),
	}
}

func NewStarted(token uint64, model string) ReportEvent {
	evt := CreateReportEvent(EventInfo, token)
	evt.Metadata = map[string]string{"model": model}
	return evt
}

func NewDelta(token uint64, delta string) ReportEvent {
	evt := CreateReportEvent(EventDelta, token)
	evt.Delta = delta
	return evt
}

func NewDone(token uint64) ReportEvent {
	return CreateReportEvent(EventSuccess, token)
}

// NewError carries the user-facing message. incomplete is set when some output
// was already delivered and is kept.
func NewError(token uint64, message string, incomplete bool) ReportEvent {
	evt := CreateReportEvent(EventError, token)
	evt.Message = message
	evt.Incomplete = incomplete
	return evt
}
