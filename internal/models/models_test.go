package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsPatch_Apply(t *testing.T) {
	base := GameStats{Achievements: 15, HoursPlayed: 50, Finished: true, Score: Float(8.5), Review: "fun"}

	t.Run("overrides only set fields", func(t *testing.T) {
		got := StatsPatch{HoursPlayed: Float(60), Finished: Bool(false)}.Apply(base)

		assert.Equal(t, 15, got.Achievements)
		assert.Equal(t, 60.0, got.HoursPlayed)
		assert.False(t, got.Finished)
		assert.Equal(t, 8.5, *got.Score)
		assert.Equal(t, "fun", got.Review)
	})

	t.Run("does not alias the base score", func(t *testing.T) {
		got := StatsPatch{}.Apply(base)
		*got.Score = 1

		assert.Equal(t, 8.5, *base.Score)
	})

	t.Run("empty base", func(t *testing.T) {
		got := StatsPatch{Review: String("meh")}.Apply(GameStats{})

		assert.Nil(t, got.Score)
		assert.Equal(t, "meh", got.Review)
	})
}

func TestStatsPatch_Empty(t *testing.T) {
	assert.True(t, StatsPatch{}.Empty())
	assert.False(t, StatsPatch{Finished: Bool(false)}.Empty())
}

func TestPatchFrom(t *testing.T) {
	s := GameStats{Achievements: 3, HoursPlayed: 1.5, Score: Float(7), Review: "ok"}

	assert.Equal(t, s, PatchFrom(s).Apply(GameStats{Finished: true}))
}

func TestGame_JSONKeys(t *testing.T) {
	b, err := json.Marshal(NewPlaceholderGame(6, "Game #6"))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))

	for _, key := range []string{"id", "title", "bannerImage", "image", "description", "developer", "releaseDate", "averageReviews", "tags", "price"} {
		assert.Contains(t, raw, key)
	}
}

func TestDefaults(t *testing.T) {
	games := DefaultGames()
	require.Len(t, games, 5)
	assert.Equal(t, "Counter Strike 2", games[0].Title)
	assert.Equal(t, "Game 5", games[4].Title)

	stats := DefaultStats()
	assert.Len(t, stats, 2)
	assert.Equal(t, 10.0, *stats[2].Score)

	// each call returns fresh data
	games[0].Tags[0] = "changed"
	assert.Equal(t, "FPS", DefaultGames()[0].Tags[0])
}
