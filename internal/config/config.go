package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"quizzlio"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:5000"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Trivia Trivia
	Game   Game
	CORS   CORS
}

// Trivia configures the external question provider.
type Trivia struct {
	BaseURL      string        `env:"TRIVIA_BASE_URL" envDefault:"https://opentdb.com"`
	FetchTimeout time.Duration `env:"TRIVIA_FETCH_TIMEOUT" envDefault:"15s"`
}

// Game groups gameplay defaults and limits.
type Game struct {
	MaxPlayers             int           `env:"GAME_MAX_PLAYERS" envDefault:"10"`
	DefaultQuestionCount   int           `env:"GAME_DEFAULT_QUESTION_COUNT" envDefault:"10"`
	DefaultQuestionSeconds time.Duration `env:"GAME_DEFAULT_PER_QUESTION_SECONDS" envDefault:"15s"`
	CodeAttempts           int           `env:"GAME_CODE_ATTEMPTS" envDefault:"100"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
