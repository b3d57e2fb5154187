package archive

import (
	"github.com/fonny-io/fonny/internal/event"
	"github.com/fonny-io/fonny/internal/logging"
)

// LogSink mirrors every event into the structured debug log, so a
// session transcript ends up alongside the rest of the diagnostics.
type LogSink struct {
	log *logging.Logger
}

// NewLogSink creates a sink writing to the given logger.
func NewLogSink(log *logging.Logger) *LogSink {
	if log == nil {
		log = logging.NopLogger()
	}
	return &LogSink{log: log.WithComponent("archive")}
}

// Record logs the event at INFO level. Implements event.Sink. Never
// fails.
func (s *LogSink) Record(e event.Event) error {
	args := []any{"kind", e.Kind.String(), "timestamp", e.Timestamp}
	for k, v := range e.Payload {
		args = append(args, k, v)
	}
	s.log.Info("event", args...)
	return nil
}
