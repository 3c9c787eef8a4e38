package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logging surface used across the service.
type Logger interface {
	Info(ctx context.Context, message string, fields map[string]interface{})
	Error(ctx context.Context, message string, err error, fields map[string]interface{})
	Warn(ctx context.Context, message string, fields map[string]interface{})
	Debug(ctx context.Context, message string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
}

type LoggerConfig struct {
	Level       string
	Format      string
	ServiceName string
	// Output defaults to stdout.
	Output io.Writer
}

type correlationKey struct{}

// WithCorrelationID returns a context carrying id for every entry logged with it.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

type structuredLogger struct {
	entry *logrus.Entry
}

func NewStructuredLogger(config LoggerConfig) Logger {
	logrusLogger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrusLogger.SetLevel(level)

	if strings.EqualFold(config.Format, "json") {
		logrusLogger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		logrusLogger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		})
	}

	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	logrusLogger.SetOutput(out)

	return &structuredLogger{
		entry: logrusLogger.WithField("service", config.ServiceName),
	}
}

// NewNopLogger discards everything. Handy in tests.
func NewNopLogger() Logger {
	return NewStructuredLogger(LoggerConfig{Level: "panic", Output: io.Discard})
}

func (l *structuredLogger) Info(ctx context.Context, message string, fields map[string]interface{}) {
	l.with(ctx, nil, fields).Info(message)
}

func (l *structuredLogger) Error(ctx context.Context, message string, err error, fields map[string]interface{}) {
	l.with(ctx, err, fields).Error(message)
}

func (l *structuredLogger) Warn(ctx context.Context, message string, fields map[string]interface{}) {
	l.with(ctx, nil, fields).Warn(message)
}

func (l *structuredLogger) Debug(ctx context.Context, message string, fields map[string]interface{}) {
	l.with(ctx, nil, fields).Debug(message)
}

func (l *structuredLogger) WithFields(fields map[string]interface{}) Logger {
	return &structuredLogger{entry: l.entry.WithFields(fields)}
}

func (l *structuredLogger) with(ctx context.Context, err error, fields map[string]interface{}) *logrus.Entry {
	entry := l.entry
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	if id := CorrelationID(ctx); id != "" {
		entry = entry.WithField("correlation_id", id)
	}
	if err != nil {
		entry = entry.WithError(err)
	}
	return entry
}

// LogAuthEvent records a session lifecycle event. Failures are logged at warn.
func LogAuthEvent(ctx context.Context, logger Logger, event string, userID string, success bool, fields map[string]interface{}) {
	merged := map[string]interface{}{
		"event_type": "auth",
		"auth_event": event,
		"success":    success,
	}
	if userID != "" {
		merged["user_id"] = userID
	}
	for k, v := range fields {
		merged[k] = v
	}

	if success {
		logger.Info(ctx, fmt.Sprintf("Auth event: %s", event), merged)
		return
	}
	logger.Warn(ctx, fmt.Sprintf("Auth event failed: %s", event), merged)
}

// LogSecurityEvent records suspicious traffic such as replayed refresh tokens.
func LogSecurityEvent(ctx context.Context, logger Logger, event string, severity string, fields map[string]interface{}) {
	merged := map[string]interface{}{
		"event_type":     "security",
		"security_event": event,
		"severity":       severity,
	}
	for k, v := range fields {
		merged[k] = v
	}

	message := fmt.Sprintf("Security event: %s", event)
	switch severity {
	case "HIGH":
		logger.Error(ctx, message, nil, merged)
	case "MEDIUM":
		logger.Warn(ctx, message, merged)
	default:
		logger.Info(ctx, message, merged)
	}
}
