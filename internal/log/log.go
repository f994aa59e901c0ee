// Package log keeps a logrus entry in a context.Context. Components that have
// no context use For with their component name, which yields the same
// "[component]" tagging the log output has always had, as a structured field.
package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

var (
	// G is an alias for GetLogger.
	G = GetLogger

	// L is the default logger, used when no logger is stored in a context.
	L = logrus.NewEntry(logrus.StandardLogger())
)

type loggerKey struct{}

// WithLogger returns a new context with the provided logger.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the current logger from the context, falling back to L.
func GetLogger(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(loggerKey{}).(*logrus.Entry); ok {
		return logger
	}
	return L
}

// For returns the default logger tagged with a component name.
func For(component string) *logrus.Entry {
	return L.WithField("component", component)
}

// Setup configures the standard logger. Debug enables payload dumps.
func Setup(level string, debug bool) error {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000000"})
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
		return nil
	}
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	return nil
}
