package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultArchiveDBName = "splay_archive.db"

type SQLiteService struct {
	db *sql.DB
}

func NewSQLiteServiceFromEnv() (*SQLiteService, error) {
	dbPath := strings.TrimSpace(os.Getenv("ARCHIVE_DATABASE_PATH"))
	if dbPath == "" {
		userConfigDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(userConfigDir, "SplayLite", defaultArchiveDBName)
	}
	return NewSQLiteService(dbPath)
}

func NewSQLiteService(dbPath string) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := ensureSQLiteArchiveSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{db: db}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) RecordGame(ctx context.Context, rec *GameRecord) error {
	if rec == nil || strings.TrimSpace(rec.GameID) == "" {
		return fmt.Errorf("invalid game record")
	}

	seatsJSON, err := json.Marshal(rec.Seats)
	if err != nil {
		return err
	}
	movesJSON, err := json.Marshal(rec.Moves)
	if err != nil {
		return err
	}
	snapshotJSON := []byte("null")
	if len(rec.FinalSnapshot) > 0 {
		snapshotJSON = rec.FinalSnapshot
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	playedAtMs := rec.PlayedAt.UTC().UnixMilli()
	if _, err := tx.ExecContext(ctx, `
INSERT INTO games (
    game_id, played_at_ms, winner_seat, reason, seats_json, moves_json, snapshot_json
)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(game_id) DO UPDATE SET
    played_at_ms = excluded.played_at_ms,
    winner_seat = excluded.winner_seat,
    reason = excluded.reason,
    seats_json = excluded.seats_json,
    moves_json = excluded.moves_json,
    snapshot_json = excluded.snapshot_json
`, rec.GameID, playedAtMs, rec.WinnerSeat, rec.Reason,
		string(seatsJSON), string(movesJSON), string(snapshotJSON)); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_players WHERE game_id = ?`, rec.GameID); err != nil {
		return err
	}
	for _, seat := range rec.Seats {
		if seat.UserID == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO game_players (game_id, user_id) VALUES (?, ?)
`, rec.GameID, seat.UserID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteService) ListRecent(ctx context.Context, userID uint64, limit int) ([]GameSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT g.game_id, g.played_at_ms, g.winner_seat, g.reason, g.seats_json
FROM games AS g
JOIN game_players AS p ON p.game_id = g.game_id
WHERE p.user_id = ?
ORDER BY g.played_at_ms DESC
LIMIT ?
`, userID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []GameSummary{}
	for rows.Next() {
		var item GameSummary
		var playedAtMs int64
		var seatsJSON string
		if err := rows.Scan(&item.GameID, &playedAtMs, &item.WinnerSeat, &item.Reason, &seatsJSON); err != nil {
			return nil, err
		}
		item.PlayedAt = time.UnixMilli(playedAtMs).UTC()
		if err := json.Unmarshal([]byte(seatsJSON), &item.Seats); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLiteService) GetGame(ctx context.Context, gameID string) (*GameRecord, error) {
	var rec GameRecord
	var playedAtMs int64
	var seatsJSON, movesJSON, snapshotJSON string
	err := s.db.QueryRowContext(ctx, `
SELECT game_id, played_at_ms, winner_seat, reason, seats_json, moves_json, snapshot_json
FROM games
WHERE game_id = ?
`, gameID).Scan(&rec.GameID, &playedAtMs, &rec.WinnerSeat, &rec.Reason,
		&seatsJSON, &movesJSON, &snapshotJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
	if err := json.Unmarshal([]byte(seatsJSON), &rec.Seats); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(movesJSON), &rec.Moves); err != nil {
		return nil, err
	}
	if snapshotJSON != "" && snapshotJSON != "null" {
		rec.FinalSnapshot = json.RawMessage(snapshotJSON)
	}
	return &rec, nil
}

func ensureSQLiteArchiveSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS games (
    game_id TEXT PRIMARY KEY,
    played_at_ms INTEGER NOT NULL,
    winner_seat TEXT NOT NULL DEFAULT '',
    reason TEXT NOT NULL DEFAULT '',
    seats_json TEXT NOT NULL,
    moves_json TEXT NOT NULL,
    snapshot_json TEXT NOT NULL DEFAULT 'null'
)`,
		`
CREATE TABLE IF NOT EXISTS game_players (
    game_id TEXT NOT NULL,
    user_id INTEGER NOT NULL,
    PRIMARY KEY (game_id, user_id),
    FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE
)`,
		`CREATE INDEX IF NOT EXISTS idx_game_players_user ON game_players(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_games_played_at ON games(played_at_ms DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
