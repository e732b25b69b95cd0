// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Defaults used when config.yaml and flags leave logging unset.
const (
	DefaultLevel  = "warn" // zerolog.LevelWarnValue (a var, not a const)
	DefaultFormat = FormatText
)

// Setup replaces log.Logger with a logger at the given level writing to w in
// the given format. Debug level adds caller information.
func Setup(w io.Writer, level, format string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}

	var out io.Writer
	switch format {
	case FormatJSON:
		out = w
	case FormatText, "":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if lvl == zerolog.DebugLevel {
		ctx = ctx.Caller().Int("pid", os.Getpid())
	}
	log.Logger = ctx.Logger()
	return nil
}

func parseLevel(level string) (zerolog.Level, error) {
	switch level {
	case zerolog.LevelDebugValue:
		return zerolog.DebugLevel, nil
	case zerolog.LevelInfoValue:
		return zerolog.InfoLevel, nil
	case zerolog.LevelWarnValue, "":
		return zerolog.WarnLevel, nil
	case zerolog.LevelErrorValue:
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
