package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

type Config struct {
	Service      string
	LogLevel     slog.Level
	Output       io.Writer
	SentryConfig sentry.ClientOptions
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}

// Init builds the process logger and installs it as the slog default.
// Warnings and errors are also sent to sentry when a dsn and environment are configured.
func Init(c Config) (*slog.Logger, error) {
	out := c.Output
	if out == nil {
		out = os.Stdout
	}
	handlers := []slog.Handler{
		slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:     c.LogLevel,
			AddSource: true,
		}),
	}

	if c.SentryConfig.Dsn != "" && c.SentryConfig.Environment != "" {
		if err := sentry.Init(c.SentryConfig); err != nil {
			return nil, err
		}
		handlers = append(handlers, slogsentry.Option{
			Level:     slog.LevelWarn,
			AddSource: true,
		}.NewSentryHandler())
	}

	logger := slog.New(
		slogmulti.Fanout(
			handlers...,
		),
	)
	if c.Service != "" {
		logger = logger.With("service", c.Service)
	}

	slog.SetDefault(logger)
	return logger, nil
}
