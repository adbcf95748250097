package query

import (
	"strings"

	"games_library/internal/models"
)

// FilterByTitle keeps the games whose title contains q, ignoring case.
// An empty q keeps everything.
func FilterByTitle(games []models.Game, q string) []models.Game {
	q = strings.ToLower(strings.TrimSpace(q))

	out := make([]models.Game, 0, len(games))
	for _, g := range games {
		if q == "" || strings.Contains(strings.ToLower(g.Title), q) {
			out = append(out, g.Clone())
		}
	}
	return out
}
