package events

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var Emit = func(ctx context.Context, name string, evt ReportEvent) {}

func EnableRuntimeEmitter() {
	Emit = func(ctx context.Context, name string, evt ReportEvent) {
		runtime.EventsEmit(ctx, name, evt)
		if evt.Type != EventDelta {
			logRuntimeEvent(name, evt)
		}
	}
}

func SetCustomEmitter(f func(ctx context.Context, name string, evt ReportEvent)) {
	if f == nil {
		Emit = func(context.Context, string, ReportEvent) {}
		return
	}
	Emit = f
}
