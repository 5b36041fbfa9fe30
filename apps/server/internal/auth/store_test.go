package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewSQLiteStore(":memory:", time.Hour)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RegisterAndLogin(t *testing.T) {
	s := newTestStore(t)

	accountID, token, err := s.Register("ada_01", "secret12")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if accountID == 0 || token == "" {
		t.Fatalf("got account %d token %q", accountID, token)
	}

	resolvedID, username, ok := s.ResolveSession(token)
	if !ok || resolvedID != accountID || username != "ada_01" {
		t.Fatalf("resolve = (%d, %q, %v)", resolvedID, username, ok)
	}

	if _, _, err := s.Register("Ada_01", "secret12"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, _, err := s.Login("ada_01", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	loginID, loginToken, err := s.Login("ada_01", "secret12")
	if err != nil || loginID != accountID || loginToken == "" {
		t.Fatalf("login = (%d, %q, %v)", loginID, loginToken, err)
	}
}

func TestStore_LogoutInvalidatesSession(t *testing.T) {
	s := newTestStore(t)
	_, token, err := s.Register("ada_01", "secret12")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	s.Logout(token)
	if _, _, ok := s.ResolveSession(token); ok {
		t.Fatalf("expected logged out token to be invalid")
	}
}

func TestStore_GuestAccounts(t *testing.T) {
	s := newTestStore(t)

	accountID, token, reused := s.ResolveOrCreateAccount("")
	if accountID == 0 || token == "" || reused {
		t.Fatalf("guest = (%d, %q, %v)", accountID, token, reused)
	}
	_, username, ok := s.ResolveSession(token)
	if !ok || !strings.HasPrefix(username, "guest_") {
		t.Fatalf("guest session = (%q, %v)", username, ok)
	}

	againID, againToken, reused := s.ResolveOrCreateAccount(token)
	if !reused || againID != accountID || againToken != token {
		t.Fatalf("reuse = (%d, %q, %v)", againID, againToken, reused)
	}

	// Guests have no password and must not be reachable through Login.
	if _, _, err := s.Login(username, ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := s.Login(username, "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRebindPositional(t *testing.T) {
	got := rebindPositional(`INSERT INTO t (a, b) VALUES (?, ?) RETURNING ?`)
	want := `INSERT INTO t (a, b) VALUES ($1, $2) RETURNING $3`
	if got != want {
		t.Fatalf("rebind = %q, want %q", got, want)
	}
}
