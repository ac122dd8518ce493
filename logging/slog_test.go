package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/matryer/is"
)

func TestParseLevel(t *testing.T) {
	is := is.New(t)
	is.Equal(ParseLevel("debug"), slog.LevelDebug)
	is.Equal(ParseLevel("INFO"), slog.LevelInfo)
	is.Equal(ParseLevel("warn"), slog.LevelWarn)
	is.Equal(ParseLevel("error"), slog.LevelError)
	is.Equal(ParseLevel(""), slog.LevelError)
}

func TestInitWritesJSON(t *testing.T) {
	is := is.New(t)
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	var buf bytes.Buffer
	logger, err := Init(Config{Service: "claimcache", LogLevel: slog.LevelInfo, Output: &buf})
	is.NoErr(err)

	logger.Debug("dropped")
	logger.Info("cache ready", "store", "memory")

	var line map[string]any
	is.NoErr(json.Unmarshal(buf.Bytes(), &line))
	is.Equal(line["msg"], "cache ready")
	is.Equal(line["service"], "claimcache")
	is.Equal(line["store"], "memory")
}
