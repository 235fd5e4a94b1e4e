package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/handiism/covercluster/internal/model"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Rendered album (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// newRunID returns a fresh run identifier and the short form used in logs.
func newRunID() (id, short string) {
	id = uuid.NewString()
	return id, id[:8]
}

// eventLogger adapts progress events to l. Verbose events go to debug
// level and success to info.
func eventLogger(l *log.Logger) func(model.ProgressEvent) {
	return func(e model.ProgressEvent) {
		switch e.Level {
		case model.LevelVerbose:
			l.Debug(e.Message)
		case model.LevelWarning:
			l.Warn(e.Message)
		case model.LevelError:
			l.Error(e.Message)
		default:
			l.Info(e.Message)
		}
	}
}
