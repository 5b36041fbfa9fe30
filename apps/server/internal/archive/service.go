// Package archive persists finished games so players can review their
// recent matches.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const defaultRecentLimit = 50

var ErrNotFound = errors.New("not found")

// SeatRecord identifies who held a seat for the archived game.
type SeatRecord struct {
	SeatID   string `json:"seat_id"`
	UserID   uint64 `json:"user_id,omitempty"`
	Nickname string `json:"nickname"`
	Bot      bool   `json:"bot"`
}

// MoveRecord is one applied action, with the choice answers it consumed in
// ask order.
type MoveRecord struct {
	Seat    string     `json:"seat"`
	Kind    string     `json:"kind"`
	Card    string     `json:"card,omitempty"`
	Choices [][]string `json:"choices,omitempty"`
}

// GameRecord is the full archived game.
type GameRecord struct {
	GameID        string          `json:"game_id"`
	PlayedAt      time.Time       `json:"played_at"`
	WinnerSeat    string          `json:"winner_seat"`
	Reason        string          `json:"reason"`
	Seats         []SeatRecord    `json:"seats"`
	Moves         []MoveRecord    `json:"moves"`
	FinalSnapshot json.RawMessage `json:"final_snapshot,omitempty"`
}

// GameSummary is the listing shape, without moves or snapshot.
type GameSummary struct {
	GameID     string       `json:"game_id"`
	PlayedAt   time.Time    `json:"played_at"`
	WinnerSeat string       `json:"winner_seat"`
	Reason     string       `json:"reason"`
	Seats      []SeatRecord `json:"seats"`
}

type Service interface {
	Close() error
	RecordGame(ctx context.Context, rec *GameRecord) error
	ListRecent(ctx context.Context, userID uint64, limit int) ([]GameSummary, error)
	GetGame(ctx context.Context, gameID string) (*GameRecord, error)
}

type noopService struct{}

func (n *noopService) Close() error { return nil }

func (n *noopService) RecordGame(_ context.Context, _ *GameRecord) error { return nil }

func (n *noopService) ListRecent(_ context.Context, _ uint64, _ int) ([]GameSummary, error) {
	return []GameSummary{}, nil
}

func (n *noopService) GetGame(_ context.Context, _ string) (*GameRecord, error) {
	return nil, ErrNotFound
}

// NewService builds the archive backend for the requested mode. Memory mode
// keeps nothing.
func NewService(mode string) (Service, string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "memory", "mem", "none":
		return &noopService{}, "memory-noop", nil
	case "sqlite", "local":
		service, err := NewSQLiteServiceFromEnv()
		if err != nil {
			return nil, "sqlite", err
		}
		return service, "sqlite", nil
	case "db", "postgres", "postgresql":
		service, err := NewPostgresServiceFromEnv()
		if err != nil {
			return nil, "db", err
		}
		return service, "db", nil
	default:
		return nil, mode, fmt.Errorf("invalid archive mode %q", mode)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > defaultRecentLimit {
		return defaultRecentLimit
	}
	return limit
}
