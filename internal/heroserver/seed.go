package heroserver

import "time"

// seedHeroes returns the development seed set. Ids and timestamps are
// assigned by the repository on insert.
func seedHeroes() []Hero {
	date := func(year int, month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}

	return []Hero{
		{
			Name:            "Spider-Man",
			Powers:          []string{"wall-crawling", "spider-sense", "superhuman agility"},
			AlterEgo:        "Peter Parker",
			Publisher:       "Marvel Comics",
			FirstAppearance: date(1962, time.August, 1),
			ImageURL:        "https://example.com/images/spider-man.jpg",
		},
		{
			Name:            "Batman",
			Powers:          []string{"intellect", "martial arts", "wealth"},
			AlterEgo:        "Bruce Wayne",
			Publisher:       "DC Comics",
			FirstAppearance: date(1939, time.May, 1),
			ImageURL:        "https://example.com/images/batman.jpg",
		},
		{
			Name:            "Wonder Woman",
			Powers:          []string{"superhuman strength", "flight", "lasso of truth"},
			AlterEgo:        "Diana Prince",
			Publisher:       "DC Comics",
			FirstAppearance: date(1941, time.October, 1),
			ImageURL:        "https://example.com/images/wonder-woman.jpg",
		},
		{
			Name:            "Iron Man",
			Powers:          []string{"powered armor", "genius intellect", "flight"},
			AlterEgo:        "Tony Stark",
			Publisher:       "Marvel Comics",
			FirstAppearance: date(1963, time.March, 1),
			ImageURL:        "https://example.com/images/iron-man.jpg",
		},
		{
			Name:            "Superman",
			Powers:          []string{"superhuman strength", "flight", "heat vision", "invulnerability"},
			AlterEgo:        "Clark Kent",
			Publisher:       "DC Comics",
			FirstAppearance: date(1938, time.June, 1),
			ImageURL:        "https://example.com/images/superman.jpg",
		},
		{
			Name:            "Black Widow",
			Powers:          []string{"espionage", "martial arts", "marksmanship"},
			AlterEgo:        "Natasha Romanoff",
			Publisher:       "Marvel Comics",
			FirstAppearance: date(1964, time.April, 1),
			ImageURL:        "https://example.com/images/black-widow.jpg",
		},
	}
}
