// Logger setup for the cstools CLI.
package main

import (
	"os"

	"github.com/rs/zerolog"
)

// log is the CLI logger. Commands log operational detail here; report
// output for the user goes to stdout.
var log zerolog.Logger = zerolog.Nop()

// newLogger builds a console logger writing to stderr at the given level.
func newLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// resolveLogLevel determines the log level. Precedence, highest first:
//  1. --log-level (explicit always wins)
//  2. -v/--verbose (shortcut for debug)
//  3. -q/--quiet (shortcut for warn)
//  4. CSTOOLS_LOG_LEVEL environment variable
//  5. default (info)
func resolveLogLevel() zerolog.Level {
	if flagLogLevel != "" {
		if level, err := zerolog.ParseLevel(flagLogLevel); err == nil {
			return level
		}
		return zerolog.InfoLevel
	}
	if flagVerbose && flagQuiet {
		// Conflicting shortcuts; the more restrictive one wins.
		return zerolog.WarnLevel
	}
	if flagVerbose {
		return zerolog.DebugLevel
	}
	if flagQuiet {
		return zerolog.WarnLevel
	}
	if env := os.Getenv("CSTOOLS_LOG_LEVEL"); env != "" {
		if level, err := zerolog.ParseLevel(env); err == nil {
			return level
		}
	}
	return zerolog.InfoLevel
}
