package logger

import (
	"io"
	"log/slog"
)

const (
	EnvLocal = "local"
	EnvProd  = "prod"
)

// Setup builds the logger for env: readable text with debug output locally,
// JSON from info up in prod. Unknown envs get the prod setup.
func Setup(env string, w io.Writer) *slog.Logger {
	switch env {
	case EnvLocal:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
