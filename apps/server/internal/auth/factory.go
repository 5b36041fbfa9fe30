package auth

import (
	"fmt"
	"strings"
)

const (
	AuthModeMemory = "memory"
	AuthModeSQLite = "sqlite"
	AuthModeDB     = "db"
)

// NewService builds the auth backend for the requested mode.
func NewService(mode string) (Service, string, error) {
	switch normalizeMode(mode) {
	case AuthModeDB:
		store, err := NewPostgresStoreFromEnv()
		if err != nil {
			return nil, AuthModeDB, err
		}
		return store, AuthModeDB, nil
	case AuthModeSQLite:
		store, err := NewSQLiteStoreFromEnv()
		if err != nil {
			return nil, AuthModeSQLite, err
		}
		return store, AuthModeSQLite, nil
	case AuthModeMemory:
		return NewManager(), AuthModeMemory, nil
	default:
		return nil, mode, fmt.Errorf("invalid auth mode %q (supported: %s, %s, %s)",
			mode, AuthModeMemory, AuthModeSQLite, AuthModeDB)
	}
}

func normalizeMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", AuthModeMemory, "mem":
		return AuthModeMemory
	case AuthModeSQLite, "local":
		return AuthModeSQLite
	case AuthModeDB, "postgres", "postgresql":
		return AuthModeDB
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}
