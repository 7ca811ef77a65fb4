// Package config provides configuration for the agent router.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the agent router configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Agent directory
	AgentJSONURL string

	// Routing LLM
	RouterLLMURL    string
	RouterLLMAPIKey string
	RouterModel     string

	// Timeouts
	InvokeTimeout    time.Duration
	DirectoryTimeout time.Duration
	LLMTimeout       time.Duration

	// Stream bounds
	MaxStreamEvents int

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:         getEnvInt("HTTP_PORT", 5001),
		AgentJSONURL:     getEnv("AGENT_JSON_URL", "http://localhost:8080/.well-known/agent.json"),
		RouterLLMURL:     getEnv("ROUTER_LLM_URL", "http://localhost:8000"),
		RouterLLMAPIKey:  getEnv("ROUTER_LLM_API_KEY", ""),
		RouterModel:      getEnv("ROUTER_MODEL", "qwen3-235b"),
		InvokeTimeout:    time.Duration(getEnvInt("INVOKE_TIMEOUT_MS", 120000)) * time.Millisecond,
		DirectoryTimeout: time.Duration(getEnvInt("DIRECTORY_TIMEOUT_MS", 10000)) * time.Millisecond,
		LLMTimeout:       time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		MaxStreamEvents:  getEnvInt("MAX_STREAM_EVENTS", 1000),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
