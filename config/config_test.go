package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 5001, cfg.HTTPPort)
	assert.Equal(t, 2*time.Minute, cfg.InvokeTimeout)
	assert.Equal(t, 10*time.Second, cfg.DirectoryTimeout)
	assert.Equal(t, 1000, cfg.MaxStreamEvents)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("AGENT_JSON_URL", "http://dir/agent.json")
	t.Setenv("INVOKE_TIMEOUT_MS", "500")
	t.Setenv("MAX_STREAM_EVENTS", "50")

	cfg := Load()

	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, "http://dir/agent.json", cfg.AgentJSONURL)
	assert.Equal(t, 500*time.Millisecond, cfg.InvokeTimeout)
	assert.Equal(t, 50, cfg.MaxStreamEvents)
}

func TestLoadIgnoresInvalidInt(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")
	cfg := Load()
	assert.Equal(t, 5001, cfg.HTTPPort)
}
