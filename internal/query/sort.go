// Package query holds stateless helpers over catalog snapshots. None of them
// modify their input.
package query

import (
	"slices"
	"strings"

	"games_library/internal/models"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder maps user input to an Order; anything unknown keeps stored order.
func ParseOrder(s string) Order {
	return Order(strings.ToLower(strings.TrimSpace(s)))
}

// SortByName returns a copy of games sorted by title, case-insensitively and
// stably. Any order other than Asc or Desc returns the copy unsorted.
func SortByName(games []models.Game, order Order) []models.Game {
	out := slices.Clone(games)
	if out == nil {
		out = []models.Game{}
	}

	var sign int
	switch order {
	case Asc:
		sign = 1
	case Desc:
		sign = -1
	default:
		return out
	}

	slices.SortStableFunc(out, func(a, b models.Game) int {
		return sign * strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})

	return out
}
