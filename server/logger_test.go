package server

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"github.com/ZaguanLabs/anglify/config"
)

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	tests := []struct {
		name      string
		cfg       config.LogConfig
		wantLevel zerolog.Level
		json      bool
	}{
		{"json debug", config.LogConfig{Level: "debug", Format: "json"}, zerolog.DebugLevel, true},
		{"console warn", config.LogConfig{Level: "warn", Format: "console"}, zerolog.WarnLevel, false},
		{"unknown level", config.LogConfig{Level: "loud", Format: "json"}, zerolog.InfoLevel, true},
		{"empty level", config.LogConfig{Format: "json"}, zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := SetupLogger(tt.cfg, &buf)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logger.Error().Msg("hello")
			if tt.json {
				assert.Contains(t, buf.String(), `"message":"hello"`)
				assert.Contains(t, buf.String(), `"service":"anglify"`)
			} else {
				assert.Contains(t, buf.String(), "hello")
				assert.NotContains(t, buf.String(), `"message"`)
				assert.NotContains(t, buf.String(), "\x1b[", "no colour outside a terminal")
			}

			buf.Reset()
			log.Error().Msg("global")
			assert.Contains(t, buf.String(), "global", "global logger should be replaced")
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	assert.False(t, isTerminal(f))
}
