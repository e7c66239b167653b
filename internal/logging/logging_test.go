package logging

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level   string
		verbose bool
		want    hclog.Level
	}{
		{"", false, hclog.Warn},
		{"info", false, hclog.Info},
		{"ERROR", false, hclog.Error},
		{"bogus", false, hclog.Warn},
		{"error", true, hclog.Debug},
		{"off", false, hclog.Off},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.level, tt.verbose), "level=%q verbose=%v", tt.level, tt.verbose)
	}
}

func TestNewWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Output: &buf})

	log.Debug("hidden")
	log.Info("converted", "output", "/tmp/a.mp4")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "mediakit: converted")
	assert.Contains(t, out, "output=/tmp/a.mp4")
}
