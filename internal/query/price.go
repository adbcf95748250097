package query

import (
	"regexp"
	"slices"
	"strings"

	"games_library/internal/models"

	"github.com/shopspring/decimal"
)

// PriceBuckets splits a catalog into thirds by price rank.
type PriceBuckets struct {
	Cheap     []models.Game `json:"cheap"`
	Average   []models.Game `json:"average"`
	Expensive []models.Game `json:"expensive"`
}

// priceNumber matches either a grouped amount ("1,299.99", "1 299,50") or a
// plain one ("40", "9,50"). Submatches are integer part then fraction.
var priceNumber = regexp.MustCompile(`([1-9]\d{0,2}(?:[ ,.]\d{3})+)([.,]\d+)?|(\d+)([.,]\d+)?`)

var groupSeparators = strings.NewReplacer(" ", "", ",", "", ".", "")

// ParsePrice reads the first number in a price label such as "40$", "$19.99"
// or "$1,299.99". A lone comma followed by digits is a decimal comma.
// Labels without a number ("Free", "N/A") are zero.
func ParsePrice(label string) decimal.Decimal {
	m := priceNumber.FindStringSubmatch(label)
	if m == nil {
		return decimal.Zero
	}

	whole, frac := m[3], m[4]
	if m[1] != "" {
		whole, frac = groupSeparators.Replace(m[1]), m[2]
	}
	if frac != "" {
		frac = "." + frac[1:]
	}

	d, err := decimal.NewFromString(whole + frac)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CategorizeByPrice stable-sorts games by price and cuts the ranking into
// thirds. Entry i of n lands in bucket i*3/n, so a remainder goes to the
// cheaper buckets first (5 entries split 2/2/1).
func CategorizeByPrice(games []models.Game) PriceBuckets {
	type priced struct {
		game  models.Game
		price decimal.Decimal
	}

	ranked := make([]priced, len(games))
	for i, g := range games {
		ranked[i] = priced{game: g.Clone(), price: ParsePrice(g.Price)}
	}
	slices.SortStableFunc(ranked, func(a, b priced) int {
		return a.price.Cmp(b.price)
	})

	buckets := PriceBuckets{
		Cheap:     []models.Game{},
		Average:   []models.Game{},
		Expensive: []models.Game{},
	}
	n := len(ranked)
	for i, p := range ranked {
		switch i * 3 / n {
		case 0:
			buckets.Cheap = append(buckets.Cheap, p.game)
		case 1:
			buckets.Average = append(buckets.Average, p.game)
		default:
			buckets.Expensive = append(buckets.Expensive, p.game)
		}
	}

	return buckets
}
