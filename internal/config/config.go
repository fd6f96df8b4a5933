package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Config holds the process configuration. The router needs only the
// webhook, the project tag and the listen port.
type Config struct {
	SlackURL       string `koanf:"slack_url" validate:"required,url"`
	GCPProjectName string `koanf:"gcp_project_name" validate:"required"`
	Port           string `koanf:"port"`
}

// NewLogger builds the process logger.
func NewLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// Load reads configuration from environment variables (SLACK_URL,
// GCP_PROJECT_NAME, PORT) and validates it. Invalid configuration is
// fatal at startup.
func Load() *Config {
	logger := NewLogger()

	k := koanf.New(".")
	err := k.Load(env.Provider("", ".", strings.ToLower), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load env variables")
	}

	cfg := &Config{}
	err = k.Unmarshal("", cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not unmarshal config")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not validate config")
	}

	return cfg
}
