package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

func newLogger(out io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}
