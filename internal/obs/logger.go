package obs

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LogConfig struct {
	Level  string
	Pretty bool
	App    string
	Env    string
}

// SetupLogger configures the global zerolog logger used throughout the hub.
func SetupLogger(c LogConfig) {
	setupLogger(c, os.Stderr)
}

func setupLogger(c LogConfig, out io.Writer) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if c.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().
		Timestamp().
		Str("service", c.App).
		Str("env", c.Env).
		Logger()
}
