// Package config loads the relay configuration from environment
// variables, with optional .env file support for local development.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the process configuration. BotToken, ClientID, and
// ChannelID are required; their absence is startup-fatal.
type Config struct {
	BotToken      string // Discord bot token
	ClientID      string // Discord application ID for command registration
	ChannelID     string // target channel for notifications
	Port          string // HTTP listen port
	LogLevel      string // debug, info, warn, error
	WebhookSecret string // optional HMAC secret for /notify
}

// Load reads a .env file if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:      os.Getenv("BOT_TOKEN"),
		ClientID:      os.Getenv("CLIENT_ID"),
		ChannelID:     os.Getenv("CHANNEL_ID"),
		Port:          env("PORT", "3001"),
		LogLevel:      env("LOG_LEVEL", "info"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
	}

	var missing []string
	for _, required := range []struct{ name, value string }{
		{"BOT_TOKEN", cfg.BotToken},
		{"CLIENT_ID", cfg.ClientID},
		{"CHANNEL_ID", cfg.ChannelID},
	} {
		if required.value == "" {
			missing = append(missing, required.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("config: missing required environment variables: %s",
			strings.Join(missing, ", "))
	}
	return cfg, nil
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
