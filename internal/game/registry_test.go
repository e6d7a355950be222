package game

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-Z]{4}$`)

func TestCreateGeneratesUniqueUppercaseCodes(t *testing.T) {
	registry := NewRegistry(100)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		room, err := registry.Create(func(code string) *Room {
			return &Room{Code: code}
		})
		require.NoError(t, err)
		assert.Regexp(t, codePattern, room.Code)
		assert.False(t, seen[room.Code], "code %s allocated twice", room.Code)
		seen[room.Code] = true
	}
	assert.Equal(t, 200, registry.Len())
}

func TestCreateExhaustsAttemptBudget(t *testing.T) {
	registry := NewRegistry(5)
	registry.generate = func() string { return "AAAA" }

	_, err := registry.Create(func(code string) *Room { return &Room{Code: code} })
	require.NoError(t, err)

	_, err = registry.Create(func(code string) *Room { return &Room{Code: code} })
	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)

	registry.Remove("AAAA")
	_, err = registry.Create(func(code string) *Room { return &Room{Code: code} })
	assert.NoError(t, err)
}

func TestLookupAndRemove(t *testing.T) {
	registry := NewRegistry(100)
	room, err := registry.Create(func(code string) *Room { return &Room{Code: code} })
	require.NoError(t, err)

	got, ok := registry.Lookup(room.Code)
	require.True(t, ok)
	assert.Same(t, room, got)

	registry.Remove(room.Code)
	_, ok = registry.Lookup(room.Code)
	assert.False(t, ok)
	assert.Zero(t, registry.Len())
}
