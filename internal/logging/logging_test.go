package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{" INFO ", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New(&buf, zerolog.InfoLevel), "server")

	l.Debug().Msg("hidden")
	l.Info().Int("tools", 5).Msg("ready")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"component":"server"`)
	assert.Contains(t, out, `"tools":5`)
	assert.Contains(t, out, `"time"`)
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsole(&buf, zerolog.DebugLevel)
	l.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
