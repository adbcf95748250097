package query

import "games_library/internal/models"

type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// GenreCounts counts every tag occurrence across the catalog, in order of
// first appearance. Empty tags are skipped.
func GenreCounts(games []models.Game) []GenreCount {
	out := []GenreCount{}
	index := map[string]int{}

	for _, g := range games {
		for _, tag := range g.Tags {
			if tag == "" {
				continue
			}

			i, ok := index[tag]
			if !ok {
				i = len(out)
				index[tag] = i
				out = append(out, GenreCount{Genre: tag})
			}
			out[i].Count++
		}
	}

	return out
}

type Completion struct {
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	NotStarted int `json:"notStarted"`
}

// CompletionSummary counts catalog entries by play state. Stats for ids that
// are not in games are ignored.
func CompletionSummary(games []models.Game, stats map[int64]models.GameStats) Completion {
	var c Completion
	for _, g := range games {
		st, ok := stats[g.ID]
		switch {
		case !ok:
			c.NotStarted++
		case st.Finished:
			c.Completed++
		default:
			c.InProgress++
		}
	}
	return c
}
