package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/auto-dns/github-host-sync/internal/config"
)

func TestNewLogger_Level(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"DEBUG", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			newLogger(&config.LoggingConfig{Level: tt.level}, &bytes.Buffer{})
			if got := zerolog.GlobalLevel(); got != tt.want {
				t.Errorf("global level = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewLogger_Fields(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	log := newLogger(&config.LoggingConfig{Level: "info"}, &buf)
	log.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("output %q missing message", out)
	}
	if !strings.Contains(out, "github_host_sync") {
		t.Errorf("output %q missing service field", out)
	}
}
