package sse

import "time"

// Config holds configuration for SSE responses
type Config struct {
	// KeepAliveInterval is how often a comment line is written while a turn
	// is waiting on the model or on enrichment. Proxies drop idle streams.
	KeepAliveInterval time.Duration

	// Retry is sent as the stream's reconnection hint. Zero omits it.
	Retry time.Duration
}

// DefaultConfig returns the default SSE configuration
func DefaultConfig() *Config {
	return &Config{
		KeepAliveInterval: 10 * time.Second,
	}
}
