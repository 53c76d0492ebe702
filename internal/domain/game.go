package domain

import (
	"fmt"
	"strings"
	"time"
)

// Genre classifies a catalog entry.
type Genre string

const (
	GenreAction     Genre = "ACTION"
	GenreAdventure  Genre = "ADVENTURE"
	GenreRPG        Genre = "RPG"
	GenreStrategy   Genre = "STRATEGY"
	GenreSimulation Genre = "SIMULATION"
	GenreSports     Genre = "SPORTS"
	GenrePuzzle     Genre = "PUZZLE"
	GenreHorror     Genre = "HORROR"
)

// Platform identifies where a game runs.
type Platform string

const (
	PlatformPC          Platform = "PC"
	PlatformPlaystation Platform = "PLAYSTATION"
	PlatformXbox        Platform = "XBOX"
	PlatformSwitch      Platform = "SWITCH"
	PlatformMobile      Platform = "MOBILE"
)

var genres = map[Genre]struct{}{
	GenreAction: {}, GenreAdventure: {}, GenreRPG: {}, GenreStrategy: {},
	GenreSimulation: {}, GenreSports: {}, GenrePuzzle: {}, GenreHorror: {},
}

var platforms = map[Platform]struct{}{
	PlatformPC: {}, PlatformPlaystation: {}, PlatformXbox: {},
	PlatformSwitch: {}, PlatformMobile: {},
}

// ParseGenre normalizes and validates a genre string.
func ParseGenre(s string) (Genre, error) {
	g := Genre(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := genres[g]; !ok {
		return "", fmt.Errorf("invalid genre %q", s)
	}
	return g, nil
}

// ParsePlatform normalizes and validates a platform string.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := platforms[p]; !ok {
		return "", fmt.Errorf("invalid platform %q", s)
	}
	return p, nil
}

// Game is a catalog entry.
type Game struct {
	ID          int64
	Name        string
	Genre       Genre
	ReleaseYear int
	Platform    Platform
	Price       float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
