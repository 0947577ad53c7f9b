package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Newはアプリ共通のロガーを作る。devは人が読みやすい形式、それ以外はJSON。
func New(goEnv string, level string) zerolog.Logger {
	var w io.Writer = os.Stdout
	if goEnv == "dev" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
