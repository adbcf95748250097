package models

import "fmt"

// DefaultGames is the catalog a fresh library starts with.
func DefaultGames() []Game {
	games := []Game{
		{
			ID:             1,
			Title:          "Counter Strike 2",
			BannerImage:    "/images/Cs2-banner.png",
			Image:          "/images/Cs2.jpg",
			Description:    "For over two decades, Counter-Strike has offered an elite competitive experience...",
			Developer:      "Valve",
			ReleaseDate:    "1 July 2023",
			AverageReviews: "3/5",
			Tags:           []string{"FPS", "Multiplayer", "Shooter"},
			Price:          "Free",
		},
		{
			ID:             2,
			Title:          "Dark Souls III",
			BannerImage:    "/images/header.jpg",
			Image:          "/images/ds3cover.jpg",
			Description:    "As fires fade and the world falls into ruin...",
			Developer:      "FromSoftware",
			ReleaseDate:    "11 Apr 2016",
			AverageReviews: "5/5",
			Tags:           []string{"Souls-like", "Rpg", "Dark Fantasy"},
			Price:          "40$",
		},
	}

	for id := int64(3); id <= 5; id++ {
		games = append(games, NewPlaceholderGame(id, fmt.Sprintf("Game %d", id)))
	}

	return games
}

// DefaultStats is the stats map a fresh library starts with.
func DefaultStats() map[int64]GameStats {
	return map[int64]GameStats{
		1: {
			Achievements: 15,
			HoursPlayed:  50,
			Finished:     true,
			Score:        Float(8.5),
			Review:       "Amazing game, lots of fun!",
		},
		2: {
			Achievements: 25,
			HoursPlayed:  130,
			Finished:     true,
			Score:        Float(10),
			Review:       "Praise the sun!",
		},
	}
}
