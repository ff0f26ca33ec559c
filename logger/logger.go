package logger

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const (
	sessionIDKey ctxKey = "session_id"
	toolKey      ctxKey = "tool"
)

// SlowThreshold marks tracked operations that should be logged as warnings.
const SlowThreshold = 500 * time.Millisecond

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
}

// Setup sets the level and destination of the standard logger.
// The MCP stdio server must log to stderr since stdout carries the protocol.
func Setup(level string, out io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	if out != nil {
		logrus.SetOutput(out)
	}
	return nil
}

// For returns an entry carrying the session and tool stored in ctx.
func For(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logrus.StandardLogger())
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		entry = entry.WithField("session_id", id)
	}
	if name, ok := ctx.Value(toolKey).(string); ok {
		entry = entry.WithField("tool", name)
	}
	return entry
}

// WithSession stores the conversation id in ctx.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// WithTool stores the tool name in ctx.
func WithTool(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, toolKey, name)
}

// Track logs the duration of an operation when the returned func is called.
func Track(ctx context.Context, msg string) func() {
	start := time.Now()
	return func() {
		dur := time.Since(start)
		entry := For(ctx).WithField("duration", dur.String())
		if dur > SlowThreshold {
			entry.Warnf("%s completed (SLOW)", msg)
		} else {
			entry.Debugf("%s completed", msg)
		}
	}
}

// StdLogger adapts logrus for libraries that want a *log.Logger.
func StdLogger(component string) *log.Logger {
	w := logrus.StandardLogger().WithField("component", component).WriterLevel(logrus.ErrorLevel)
	return log.New(w, "", 0)
}
