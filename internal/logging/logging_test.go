package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantDebug bool
		wantInfo  bool
	}{
		{"default", Options{}, false, true},
		{"verbose", Options{Verbose: true}, true, true},
		{"quiet", Options{Quiet: true}, false, false},
		{"quiet wins", Options{Quiet: true, Verbose: true}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.opts.Output = &buf
			logger := New(tt.opts)

			logger.Debug("debug line")
			logger.Info("info line")
			logger.Error("error line")

			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info line")))
			assert.Contains(t, buf.String(), "error line")
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{JSON: true, Output: &buf})

	logger.Info("rewritten", "path", "config/is2/etc/hosts")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "rewritten", record["msg"])
	assert.Equal(t, "config/is2/etc/hosts", record["path"])
}

func TestInit(t *testing.T) {
	prev := L
	defer func() { L = prev }()

	var buf bytes.Buffer
	Init(Options{Output: &buf})

	Info("hello", "n", 1)
	Debug("hidden")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), "hidden")
}
