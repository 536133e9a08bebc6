package logging

import (
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	wailslogger "github.com/wailsapp/wails/v2/pkg/logger"
)

// WailsLogger routes the Wails runtime log calls (runtime.LogInfo and friends)
// into zap.
type WailsLogger struct {
	log *zap.SugaredLogger
}

var _ wailslogger.Logger = (*WailsLogger)(nil)

func NewWailsLogger(l *zap.SugaredLogger) *WailsLogger {
	return &WailsLogger{log: l.Named("wails")}
}

func (w *WailsLogger) Print(message string)   { w.log.Info(message) }
func (w *WailsLogger) Trace(message string)   { w.log.Debug(message) }
func (w *WailsLogger) Debug(message string)   { w.log.Debug(message) }
func (w *WailsLogger) Info(message string)    { w.log.Info(message) }
func (w *WailsLogger) Warning(message string) { w.log.Warn(message) }
func (w *WailsLogger) Error(message string)   { w.log.Error(message) }
func (w *WailsLogger) Fatal(message string)   { w.log.Fatal(message) }

// GormWriter satisfies gorm's logger.Writer, delegating to zap.
type GormWriter struct {
	log *zap.SugaredLogger
}

var _ logger.Writer = GormWriter{}

func NewGormWriter(l *zap.SugaredLogger) GormWriter {
	return GormWriter{log: l.Named("gorm")}
}

func (g GormWriter) Printf(format string, args ...interface{}) {
	g.log.Infof(format, args...)
}
