package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerFormatsTypeAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelDebug, false))

	log.Info("Game settled", slog.String("type", "game"), slog.String("user_id", "42"), slog.Int64("net", -50))

	got := buf.String()
	for _, want := range []string{"[INFO]", "[GAME]", "Game settled", "user_id=42", "net=-50"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "type=") {
		t.Errorf("output %q leaks the type attribute", got)
	}
}

func TestHandlerCommandAnnotation(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelInfo, false)).With(slog.String("type", "cmd"))

	log.Error("Command failed", slog.String("name", "blackjack"), slog.String("user_name", "ann"), slog.String("status", "failed"))

	got := buf.String()
	if !strings.Contains(got, "[ERROR] [CMD] Command failed [blackjack by ann] [Status: failed]") {
		t.Errorf("unexpected output %q", got)
	}
}

func TestHandlerLevelAndSkips(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelInfo, false))

	log.Debug("hidden")
	log.Info("sending heartbeat")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
