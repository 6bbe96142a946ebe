// Package assistant provides a client for the OpenAI Assistants API (v2).
package assistant

import (
	"os"
	"strconv"
	"time"
)

const (
	// DefaultAssistantID is the fixed assistant identity runs are bound to.
	// It refers to a pre-configured assistant on the remote service and is
	// not selectable per request.
	DefaultAssistantID = "asst_ranking_qa"

	// DefaultPollInterval is the wait between run status checks.
	DefaultPollInterval = time.Second

	// DefaultPollMaxAttempts bounds the total poll wait (~60s at 1s interval).
	DefaultPollMaxAttempts = 60
)

// Config holds configuration for the Assistants API client.
type Config struct {
	APIKey          string        // API key for authentication
	AssistantID     string        // Assistant the runs are bound to
	BaseURL         string        // Base URL for the API (e.g., "https://api.openai.com")
	Timeout         time.Duration // HTTP request timeout (per call, not per run)
	PollInterval    time.Duration // Wait between run status checks
	PollMaxAttempts int           // Maximum number of status checks per run
}

// LoadConfig loads Assistants API configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:          os.Getenv("OPENAI_API_KEY"),
		AssistantID:     DefaultAssistantID,
		BaseURL:         "https://api.openai.com",
		Timeout:         10 * time.Second,
		PollInterval:    DefaultPollInterval,
		PollMaxAttempts: DefaultPollMaxAttempts,
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("ASSISTANT_ID"); v != "" {
		cfg.AssistantID = v
	}
	if v := os.Getenv("ASSISTANT_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.PollInterval = d
		}
	}
	if v := os.Getenv("ASSISTANT_POLL_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollMaxAttempts = n
		}
	}
	return cfg
}
