package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	log := newLogger(buf, false)
	log.Debug().Msg("hidden")
	log.Info().Str("peer", "10.0.0.1").Msg("connection opened")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line logged without -debug: %q", out)
	}
	if !strings.Contains(out, "connection opened") || !strings.Contains(out, "10.0.0.1") {
		t.Errorf("info line missing: %q", out)
	}

	buf.Reset()
	debugLog := newLogger(buf, true)
	debugLog.Debug().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug line missing with -debug: %q", buf.String())
	}
}
