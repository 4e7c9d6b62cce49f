package logging

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used across the engine. Fields carries
// structured key/value context for the event.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, fields map[string]interface{})
}

type zerologLogger struct {
	logger zerolog.Logger
}

// Option represents an option for configuring the logger
type Option func(*zerologLogger)

// WithLevel sets the minimum level the logger emits
func WithLevel(level zerolog.Level) Option {
	return func(l *zerologLogger) {
		l.logger = l.logger.Level(level)
	}
}

// New creates a new structured logger writing to stderr. The level defaults
// to info and can be overridden with the LOG_LEVEL environment variable.
func New(options ...Option) Logger {
	level := zerolog.InfoLevel
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}

	l := &zerologLogger{
		logger: zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level),
	}

	for _, option := range options {
		option(l)
	}

	return l
}

func (l *zerologLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {
	l.emit(l.logger.Debug(), msg, fields)
}

func (l *zerologLogger) Info(ctx context.Context, msg string, fields map[string]interface{}) {
	l.emit(l.logger.Info(), msg, fields)
}

func (l *zerologLogger) Warn(ctx context.Context, msg string, fields map[string]interface{}) {
	l.emit(l.logger.Warn(), msg, fields)
}

func (l *zerologLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {
	l.emit(l.logger.Error(), msg, fields)
}

func (l *zerologLogger) emit(event *zerolog.Event, msg string, fields map[string]interface{}) {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}
