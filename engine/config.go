package engine

import (
	"fmt"
	"time"
)

// Seat describes one player slot for a new game.
type Seat struct {
	ID    string
	Name  string
	Human bool
}

// Config controls game setup.
type Config struct {
	GameID string

	Players []Seat

	// RNG seed (0 => time-based). Same seed, same spec, same config =>
	// identical games.
	Seed int64

	// DeckOverride fixes the full post-shuffle order of an age's deck,
	// top first. For tests and replays. Every listed deck must be an exact
	// permutation of the population of that age.
	DeckOverride map[int][]string
}

func (c Config) validate(minPlayers, maxPlayers int) error {
	if len(c.Players) < minPlayers {
		return fmt.Errorf("need at least %d players, got %d", minPlayers, len(c.Players))
	}
	if len(c.Players) > maxPlayers {
		return fmt.Errorf("at most %d players, got %d", maxPlayers, len(c.Players))
	}
	seen := make(map[string]bool, len(c.Players))
	for i, p := range c.Players {
		if p.ID == "" {
			return fmt.Errorf("player #%d has empty id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate player id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func (c Config) effectiveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
