package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"os"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Service is the account/session contract consumed by the gateway and the
// HTTP handlers.
type Service interface {
	Register(username, password string) (accountID uint64, sessionToken string, err error)
	Login(username, password string) (accountID uint64, sessionToken string, err error)
	ResolveSession(token string) (accountID uint64, username string, ok bool)
	Logout(token string)
	Close() error

	// Guest quick-play: reuse the account bound to token when still valid,
	// otherwise mint a fresh guest account and session.
	ResolveOrCreateAccount(token string) (accountID uint64, sessionToken string, reused bool)
}

const (
	defaultSessionTTL = 30 * 24 * time.Hour
	tokenBytes        = 32
	guestNameLen      = 12
)

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]{2,31}$`)

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// checkCredentials validates and hashes a registration username/password
// pair. Every backend registers through this so the account rules cannot
// drift between stores.
func checkCredentials(username, password string) (normalized string, hash []byte, err error) {
	if !usernamePattern.MatchString(strings.TrimSpace(username)) {
		return "", nil, ErrInvalidUsername
	}
	if len(password) < 6 || len(password) > 72 {
		return "", nil, ErrInvalidPassword
	}
	hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}
	return normalizeUsername(username), hash, nil
}

func mustToken() string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

func newGuestName() string {
	return "guest_" + mustToken()[:guestNameLen]
}

func sessionTTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("AUTH_SESSION_TTL"))
	if raw == "" {
		return defaultSessionTTL
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		return defaultSessionTTL
	}
	return ttl
}
