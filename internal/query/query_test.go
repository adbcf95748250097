package query

import (
	"testing"

	"games_library/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func game(id int64, title, price string, tags ...string) models.Game {
	return models.Game{ID: id, Title: title, Price: price, Tags: tags}
}

func titles(games []models.Game) []string {
	out := make([]string, 0, len(games))
	for _, g := range games {
		out = append(out, g.Title)
	}
	return out
}

func gameIDs(games []models.Game) []int64 {
	out := make([]int64, 0, len(games))
	for _, g := range games {
		out = append(out, g.ID)
	}
	return out
}

func TestSortByName(t *testing.T) {
	games := []models.Game{
		game(1, "dark souls", ""),
		game(2, "Celeste", ""),
		game(3, "Dark Souls", ""),
		game(4, "apex", ""),
	}
	before := append([]models.Game(nil), games...)

	tests := []struct {
		name  string
		order Order
		want  []int64
	}{
		{name: "asc", order: Asc, want: []int64{4, 2, 1, 3}},
		{name: "desc", order: Desc, want: []int64{1, 3, 2, 4}},
		{name: "unknown order keeps input order", order: "popular", want: []int64{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortByName(games, tt.order)
			if diff := cmp.Diff(tt.want, gameIDs(got)); diff != "" {
				t.Errorf("SortByName() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	assert.Equal(t, before, games)
	assert.NotNil(t, SortByName(nil, Asc))
	assert.Equal(t, Desc, ParseOrder(" DESC "))
}

func TestParsePrice(t *testing.T) {
	tests := map[string]string{
		"40$":        "40",
		"$19.99":     "19.99",
		"9,50 €":     "9.5",
		"$1,299.99":  "1299.99",
		"1.299,99 €": "1299.99",
		"1 299 ₽":    "1299",
		"$12,000":    "12000",
		"0.999":      "0.999",
		"from 40$":   "40",
		"Free":       "0",
		"N/A":        "0",
		"":           "0",
	}

	for label, want := range tests {
		t.Run(label, func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(want).Equal(ParsePrice(label)), "got %s", ParsePrice(label))
		})
	}
}

func TestCategorizeByPrice(t *testing.T) {
	t.Run("seed catalog", func(t *testing.T) {
		got := CategorizeByPrice(models.DefaultGames())

		// "Free" and the three "N/A" placeholders all rank as zero and keep
		// their catalog order.
		assert.Equal(t, []int64{1, 3}, gameIDs(got.Cheap))
		assert.Equal(t, []int64{4, 5}, gameIDs(got.Average))
		assert.Equal(t, []int64{2}, gameIDs(got.Expensive))
	})

	t.Run("split by rank", func(t *testing.T) {
		games := []models.Game{
			game(1, "a", "$60"),
			game(2, "b", "$5"),
			game(3, "c", "$30"),
			game(4, "d", "$10"),
			game(5, "e", "$45"),
			game(6, "f", "$20"),
		}

		got := CategorizeByPrice(games)

		want := PriceBuckets{
			Cheap:     []models.Game{games[1], games[3]},
			Average:   []models.Game{games[5], games[2]},
			Expensive: []models.Game{games[4], games[0]},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("CategorizeByPrice() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("grouped thousands rank high", func(t *testing.T) {
		got := CategorizeByPrice([]models.Game{
			game(1, "a", "$1,299.99"),
			game(2, "b", "$5"),
			game(3, "c", "$10"),
		})

		assert.Equal(t, []int64{2}, gameIDs(got.Cheap))
		assert.Equal(t, []int64{3}, gameIDs(got.Average))
		assert.Equal(t, []int64{1}, gameIDs(got.Expensive))
	})

	t.Run("fewer than three", func(t *testing.T) {
		got := CategorizeByPrice([]models.Game{game(1, "a", "$1"), game(2, "b", "$2")})

		assert.Equal(t, []int64{1}, gameIDs(got.Cheap))
		assert.Equal(t, []int64{2}, gameIDs(got.Average))
		assert.Empty(t, got.Expensive)
	})

	t.Run("empty", func(t *testing.T) {
		got := CategorizeByPrice(nil)

		assert.NotNil(t, got.Cheap)
		assert.Empty(t, got.Cheap)
		assert.Empty(t, got.Average)
		assert.Empty(t, got.Expensive)
	})
}

func TestFilterByTitle(t *testing.T) {
	games := models.DefaultGames()

	assert.Equal(t, []string{"Dark Souls III"}, titles(FilterByTitle(games, "souls")))
	assert.Equal(t, []string{"Game 3", "Game 4", "Game 5"}, titles(FilterByTitle(games, "GAME ")))
	assert.Len(t, FilterByTitle(games, "  "), 5)
	assert.Empty(t, FilterByTitle(games, "zelda"))
}

func TestGenreCounts(t *testing.T) {
	games := []models.Game{
		game(1, "a", "", "RPG", "Action"),
		game(2, "b", "", "Action", "Action"),
		game(3, "c", "", "Puzzle", "RPG", ""),
	}

	want := []GenreCount{
		{Genre: "RPG", Count: 2},
		{Genre: "Action", Count: 3},
		{Genre: "Puzzle", Count: 1},
	}
	if diff := cmp.Diff(want, GenreCounts(games)); diff != "" {
		t.Errorf("GenreCounts() mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, GenreCounts(nil))
}

func TestCompletionSummary(t *testing.T) {
	stats := models.DefaultStats()
	stats[3] = models.GameStats{Score: models.Float(2)}
	stats[99] = models.GameStats{Finished: true, Score: models.Float(2)}

	got := CompletionSummary(models.DefaultGames(), stats)

	assert.Equal(t, Completion{Completed: 2, InProgress: 1, NotStarted: 2}, got)
}

func TestSortByName_Properties(t *testing.T) {
	t.Run("equal titles keep input order both ways", func(t *testing.T) {
		games := []models.Game{game(1, "Game", ""), game(2, "game", ""), game(3, "GAME", "")}

		assert.Equal(t, []int64{1, 2, 3}, gameIDs(SortByName(games, Asc)))
		assert.Equal(t, []int64{1, 2, 3}, gameIDs(SortByName(games, Desc)))
	})

	t.Run("descending titles", func(t *testing.T) {
		games := []models.Game{
			game(1, "Zelda: Breath of the Wild", ""),
			game(2, "Animal Crossing", ""),
			game(3, "Counter Strike 2", ""),
		}

		want := []string{"Zelda: Breath of the Wild", "Counter Strike 2", "Animal Crossing"}
		assert.Equal(t, want, titles(SortByName(games, Desc)))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := SortByName(models.DefaultGames(), Asc)
		twice := SortByName(once, Asc)

		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("second sort changed the order (-once +twice):\n%s", diff)
		}
	})
}
