// Package logger holds the process-wide zerolog logger
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const appName = "clubhub"

// FormatText selects the human readable console writer. Anything else logs JSON.
const FormatText = "text"

var base zerolog.Logger

func init() {
	base = build(os.Stdout, FormatText)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func build(out io.Writer, format string) zerolog.Logger {
	if strings.EqualFold(format, FormatText) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).With().Timestamp().Str("app", appName).Logger()
}

// Configure replaces the global logger. An empty level means info.
func Configure(level, format string, out io.Writer) (zerolog.Logger, error) {
	if out == nil {
		out = os.Stdout
	}
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return base, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(lvl)
	base = build(out, format)
	log.Logger = base
	return base, nil
}

// Component returns a child logger tagged with the component name
func Component(name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}

func Debug() *zerolog.Event { return base.Debug() }

func Info() *zerolog.Event { return base.Info() }

func Warn() *zerolog.Event { return base.Warn() }

func Error() *zerolog.Event { return base.Error() }
