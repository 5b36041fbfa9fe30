package replay

import "encoding/json"

// GameScript is a declarative description of a game to replay: who sat where,
// how the decks were stacked and every move taken with its choice answers.
type GameScript struct {
	GameID string     `json:"game_id,omitempty"`
	Seats  []SeatSpec `json:"seats"`
	Seed   int64      `json:"seed,omitempty"`

	// Decks pins the deck order per age. Each listed age must be a full
	// permutation of that age's cards; unlisted ages shuffle from the seed.
	Decks map[int][]string `json:"decks,omitempty"`

	Moves []MoveSpec `json:"moves"`
}

// SeatSpec seats one player.
type SeatSpec struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Human  bool   `json:"human,omitempty"`
	IsHero bool   `json:"is_hero,omitempty"`
}

// MoveSpec is one top-level action. Choices answers the questions the action
// asks, in the order they are asked.
type MoveSpec struct {
	Player  string     `json:"player"`
	Action  string     `json:"action"`
	Card    string     `json:"card,omitempty"`
	Choices [][]string `json:"choices,omitempty"`
}

// ReplayTape is the generated event stream, rendered from the hero's point
// of view: other hands are redacted in every snapshot.
type ReplayTape struct {
	TapeVersion int           `json:"tape_version"`
	GameID      string        `json:"game_id"`
	HeroID      string        `json:"hero_id"`
	Events      []ReplayEvent `json:"events"`
}

// ReplayEvent is one tape entry. Value holds the event payload encoded as
// JSON; its shape depends on Type.
type ReplayEvent struct {
	Type  string          `json:"type"`
	Seq   uint64          `json:"seq"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Event types carried in ReplayEvent.Type.
const (
	EventSnapshot     = "snapshot"
	EventActionResult = "actionResult"
	EventChoice       = "choice"
	EventGameEnd      = "gameEnd"
)

// ActionResultEvent records an applied action.
type ActionResultEvent struct {
	Player string `json:"player"`
	Action string `json:"action"`
	Card   string `json:"card,omitempty"`
}

// ChoiceEvent records a question the action asked and the scripted answer.
type ChoiceEvent struct {
	Player  string   `json:"player"`
	Prompt  string   `json:"prompt,omitempty"`
	Options []string `json:"options"`
	Min     int      `json:"min"`
	Max     int      `json:"max"`
	Picks   []string `json:"picks"`
}

// GameEndEvent records how the game finished.
type GameEndEvent struct {
	Winner string `json:"winner"`
	Reason string `json:"reason"`
}
