// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	APIKey  string
	BaseURL string // empty means the OpenAI default

	Timeout time.Duration
	Retry   *RetryConfig

	// Only the most recent MaxHistory messages are sent as context.
	MaxHistory  int
	Temperature float32
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxHistory < 1 {
		return fmt.Errorf("max history must be at least 1")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:     2 * time.Minute,
		Retry:       DefaultRetryConfig(),
		MaxHistory:  20,
		Temperature: 0.7,
	}
}
