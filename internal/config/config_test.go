package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "quizzlio", cfg.Name)
	assert.Equal(t, "0.0.0.0:5000", cfg.HTTPAddr)
	assert.Equal(t, "https://opentdb.com", cfg.Trivia.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Trivia.FetchTimeout)
	assert.Equal(t, 10, cfg.Game.MaxPlayers)
	assert.Equal(t, 15*time.Second, cfg.Game.DefaultQuestionSeconds)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "127.0.0.1:9999")
	t.Setenv("GAME_MAX_PLAYERS", "4")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://quizzlio.vercel.app")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.HTTPAddr)
	assert.Equal(t, 4, cfg.Game.MaxPlayers)
	assert.Equal(t, []string{"https://quizzlio.vercel.app"}, cfg.CORS.AllowedOrigins)
}
