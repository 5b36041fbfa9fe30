package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const storeOpTimeout = 5 * time.Second

// dialect is the small surface on which SQLite and Postgres differ for the
// auth schema. Queries are written once with '?' placeholders and rebound
// per backend.
type dialect interface {
	Name() string
	Rebind(query string) string
	IsUniqueViolation(err error) bool
}

// Store persists accounts and sessions through database/sql. The two kinds
// of account this server has, named logins and guests, share one accounts
// table: guests carry a NULL password hash and a guest flag, so a single
// query answers whether a name may log in.
type Store struct {
	db  *sql.DB
	d   dialect
	ttl time.Duration
}

const (
	qInsertAccount = `
INSERT INTO accounts (username, password_hash, guest, created_at_ms, last_seen_at_ms)
VALUES (?, ?, ?, ?, ?)
RETURNING id`
	qLoginRow = `
SELECT id, password_hash
FROM accounts
WHERE lower(username) = ? AND NOT guest`
	qTouchAccount = `
UPDATE accounts SET last_seen_at_ms = ? WHERE id = ?`
	qInsertSession = `
INSERT INTO auth_sessions (token, account_id, expires_at_ms)
VALUES (?, ?, ?)`
	qRefreshSession = `
UPDATE auth_sessions SET expires_at_ms = ? WHERE token = ? AND expires_at_ms > ?`
	qSessionAccount = `
SELECT a.id, a.username
FROM auth_sessions AS s
JOIN accounts AS a ON a.id = s.account_id
WHERE s.token = ?`
	qDeleteSession = `
DELETE FROM auth_sessions WHERE token = ?`
)

func newStore(db *sql.DB, d dialect, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Store{db: db, d: d, ttl: ttl}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Register(username, password string) (uint64, string, error) {
	name, hash, err := checkCredentials(username, password)
	if err != nil {
		return 0, "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeOpTimeout)
	defer cancel()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", err
	}
	defer tx.Rollback()

	nowMs := time.Now().UTC().UnixMilli()
	var accountID uint64
	err = tx.QueryRowContext(ctx, s.d.Rebind(qInsertAccount),
		name, string(hash), false, nowMs, nowMs).Scan(&accountID)
	if err != nil {
		if s.d.IsUniqueViolation(err) {
			return 0, "", ErrUsernameTaken
		}
		return 0, "", err
	}
	token, err := s.openSessionTx(ctx, tx, accountID, nowMs)
	if err != nil {
		return 0, "", err
	}
	if err := tx.Commit(); err != nil {
		return 0, "", err
	}
	return accountID, token, nil
}

func (s *Store) Login(username, password string) (uint64, string, error) {
	name := normalizeUsername(username)
	if name == "" || password == "" {
		return 0, "", ErrInvalidCredentials
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeOpTimeout)
	defer cancel()

	var accountID uint64
	var hash sql.NullString
	err := s.db.QueryRowContext(ctx, s.d.Rebind(qLoginRow), name).Scan(&accountID, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", ErrInvalidCredentials
	}
	if err != nil {
		return 0, "", err
	}
	if !hash.Valid || bcrypt.CompareHashAndPassword([]byte(hash.String), []byte(password)) != nil {
		return 0, "", ErrInvalidCredentials
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", err
	}
	defer tx.Rollback()

	nowMs := time.Now().UTC().UnixMilli()
	if _, err := tx.ExecContext(ctx, s.d.Rebind(qTouchAccount), nowMs, accountID); err != nil {
		return 0, "", err
	}
	token, err := s.openSessionTx(ctx, tx, accountID, nowMs)
	if err != nil {
		return 0, "", err
	}
	if err := tx.Commit(); err != nil {
		return 0, "", err
	}
	return accountID, token, nil
}

// ResolveSession slides a live session's expiry forward and returns its
// account. Expired tokens simply fail to refresh.
func (s *Store) ResolveSession(token string) (uint64, string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeOpTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", false
	}
	defer tx.Rollback()

	nowMs := time.Now().UTC().UnixMilli()
	res, err := tx.ExecContext(ctx, s.d.Rebind(qRefreshSession),
		nowMs+s.ttl.Milliseconds(), token, nowMs)
	if err != nil {
		return 0, "", false
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return 0, "", false
	}

	var accountID uint64
	var username string
	if err := tx.QueryRowContext(ctx, s.d.Rebind(qSessionAccount), token).Scan(&accountID, &username); err != nil {
		return 0, "", false
	}
	if err := tx.Commit(); err != nil {
		return 0, "", false
	}
	return accountID, username, true
}

func (s *Store) Logout(token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeOpTimeout)
	defer cancel()
	_, _ = s.db.ExecContext(ctx, s.d.Rebind(qDeleteSession), token)
}

func (s *Store) ResolveOrCreateAccount(token string) (uint64, string, bool) {
	if accountID, _, ok := s.ResolveSession(token); ok {
		return accountID, strings.TrimSpace(token), true
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeOpTimeout)
	defer cancel()

	// Generated guest names can collide with the unique index; retry with a
	// fresh name.
	for attempt := 0; attempt < 5; attempt++ {
		accountID, sessionToken, err := s.insertGuest(ctx)
		if err == nil {
			return accountID, sessionToken, false
		}
		if !s.d.IsUniqueViolation(err) {
			return 0, "", false
		}
	}
	return 0, "", false
}

func (s *Store) insertGuest(ctx context.Context) (uint64, string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", err
	}
	defer tx.Rollback()

	nowMs := time.Now().UTC().UnixMilli()
	var accountID uint64
	err = tx.QueryRowContext(ctx, s.d.Rebind(qInsertAccount),
		newGuestName(), nil, true, nowMs, nowMs).Scan(&accountID)
	if err != nil {
		return 0, "", err
	}
	token, err := s.openSessionTx(ctx, tx, accountID, nowMs)
	if err != nil {
		return 0, "", err
	}
	if err := tx.Commit(); err != nil {
		return 0, "", err
	}
	return accountID, token, nil
}

func (s *Store) openSessionTx(ctx context.Context, tx *sql.Tx, accountID uint64, nowMs int64) (string, error) {
	expiresMs := nowMs + s.ttl.Milliseconds()
	for attempt := 0; attempt < 5; attempt++ {
		token := mustToken()
		_, err := tx.ExecContext(ctx, s.d.Rebind(qInsertSession), token, accountID, expiresMs)
		if err == nil {
			return token, nil
		}
		if !s.d.IsUniqueViolation(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("failed to generate unique session token")
}

// rebindPositional rewrites '?' placeholders to '$1'..'$n'. The auth queries
// carry no string literals, so a bare scan is enough.
func rebindPositional(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
