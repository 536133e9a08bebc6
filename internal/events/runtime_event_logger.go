package events

import (
	"reportgen/internal/logging"
)

func logRuntimeEvent(name string, event ReportEvent) {
	log := logging.Get().With("event", name, "id", event.ID, "token", event.Token)

	switch event.Type {
	case EventError:
		log.Warnw("report event", "message", event.Message, "incomplete", event.Incomplete)
	default:
		log.Infow("report event", "metadata", event.Metadata)
	}
}
