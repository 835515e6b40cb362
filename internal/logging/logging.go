// Package logging configures logrus and carries per-request correlation ids.
package logging

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

// CorrelationIDKey stores the request's correlation id in its context.
const CorrelationIDKey contextKey = "correlation_id"

// Setup configures the standard logrus logger: readable text in development,
// JSON in production.
func Setup(out io.Writer, level string, production bool) {
	if out != nil {
		logrus.SetOutput(out)
	}

	if production {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("invalid log level %q, using info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// WithCorrelationID returns a context carrying a fresh correlation id.
func WithCorrelationID(ctx context.Context) (context.Context, string) {
	id := uuid.New().String()
	return context.WithValue(ctx, CorrelationIDKey, id), id
}

// GetCorrelationID reads the correlation id, or "" when there is none.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return id
	}
	return ""
}

// ForContext returns an entry tagged with the context's correlation id.
func ForContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logrus.StandardLogger())
	if id := GetCorrelationID(ctx); id != "" {
		return entry.WithField(string(CorrelationIDKey), id)
	}
	return entry
}
