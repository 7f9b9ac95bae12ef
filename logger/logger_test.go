package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xidledger.log")
	l, err := New(Config{Level: "debug", Format: "json", OutputFile: path})
	require.Nil(t, err)

	l.Debug("ledger opened")
	require.Nil(t, l.Sync())

	data, err := os.ReadFile(path)
	assert.Nil(t, err)
	assert.Contains(t, string(data), `"msg":"ledger opened"`)
	assert.Contains(t, string(data), `"service":"xidledger"`)
	assert.Contains(t, string(data), `"level":"DEBUG"`)
}

func TestNewLevel(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		debugLogged bool
	}{
		{
			name:        "debug",
			level:       "debug",
			debugLogged: true,
		},
		{
			name:        "warn",
			level:       "warn",
			debugLogged: false,
		},
		{
			name:        "unknown level falls back to info",
			level:       "verbose",
			debugLogged: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(Config{Level: tt.level, OutputFile: "stderr"})
			require.Nil(t, err)
			assert.Equal(t, tt.debugLogged, l.Core().Enabled(-1))
		})
	}
}

func TestNewBadOutputFile(t *testing.T) {
	_, err := New(Config{OutputFile: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}
