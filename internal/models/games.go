package models

// Game is one catalog entry. ReleaseDate, AverageReviews and Price are
// display labels, not structured values.
type Game struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	BannerImage    string   `json:"bannerImage"`
	Image          string   `json:"image"`
	Description    string   `json:"description"`
	Developer      string   `json:"developer"`
	ReleaseDate    string   `json:"releaseDate"`
	AverageReviews string   `json:"averageReviews"`
	Tags           []string `json:"tags"`
	Price          string   `json:"price"`
}

const (
	PlaceholderImage       = "/images/placeholder.jpg"
	PlaceholderDescription = "No description available."
	PlaceholderUnknown     = "Unknown"
	PlaceholderNA          = "N/A"
)

// NewPlaceholderGame builds the entry the add-game flow creates before any
// details are known.
func NewPlaceholderGame(id int64, title string) Game {
	return Game{
		ID:             id,
		Title:          title,
		BannerImage:    PlaceholderImage,
		Image:          PlaceholderImage,
		Description:    PlaceholderDescription,
		Developer:      PlaceholderUnknown,
		ReleaseDate:    PlaceholderNA,
		AverageReviews: "0",
		Tags:           []string{PlaceholderUnknown},
		Price:          PlaceholderNA,
	}
}

// Clone returns a copy that shares no slices with g.
func (g Game) Clone() Game {
	if g.Tags != nil {
		g.Tags = append([]string(nil), g.Tags...)
	}
	return g
}
