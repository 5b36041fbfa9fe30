package auth

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Manager keeps accounts and sessions in process memory, the default for a
// single-binary deployment. Guest accounts carry no password hash and can
// never log in by name; registered accounts go through bcrypt.
type Manager struct {
	mu       sync.Mutex
	ttl      time.Duration
	lastID   uint64
	byID     map[uint64]*memAccount
	byName   map[string]uint64
	sessions map[string]memSession
}

type memAccount struct {
	id       uint64
	name     string
	hash     []byte // nil for guests
	guest    bool
	lastSeen time.Time
}

type memSession struct {
	account uint64
	expires time.Time
}

func NewManager() *Manager {
	return &Manager{
		ttl: defaultSessionTTL,
		// Readable non-trivial ID range.
		lastID:   100000,
		byID:     make(map[uint64]*memAccount),
		byName:   make(map[string]uint64),
		sessions: make(map[string]memSession),
	}
}

func (m *Manager) Close() error { return nil }

// Register creates a named account and returns an authenticated session.
func (m *Manager) Register(username, password string) (uint64, string, error) {
	name, hash, err := checkCredentials(username, password)
	if err != nil {
		return 0, "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byName[name]; taken {
		return 0, "", ErrUsernameTaken
	}
	acct := m.createAccountLocked(name, time.Now())
	acct.hash = hash
	return acct.id, m.openSessionLocked(acct), nil
}

// Login checks a password against the named account and opens a session.
func (m *Manager) Login(username, password string) (uint64, string, error) {
	name := normalizeUsername(username)
	if name == "" || password == "" {
		return 0, "", ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct := m.byID[m.byName[name]]
	if acct == nil || acct.guest || len(acct.hash) == 0 {
		return 0, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) != nil {
		return 0, "", ErrInvalidCredentials
	}
	acct.lastSeen = time.Now()
	return acct.id, m.openSessionLocked(acct), nil
}

// ResolveSession validates a token and slides its expiry forward.
func (m *Manager) ResolveSession(token string) (uint64, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct := m.sessionAccountLocked(token, time.Now())
	if acct == nil {
		return 0, "", false
	}
	return acct.id, acct.name, true
}

func (m *Manager) Logout(token string) {
	if token == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// ResolveOrCreateAccount reuses the session when the token still resolves
// and otherwise mints a guest account with a fresh session.
func (m *Manager) ResolveOrCreateAccount(token string) (uint64, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if acct := m.sessionAccountLocked(token, now); acct != nil {
		return acct.id, token, true
	}
	acct := m.createAccountLocked(newGuestName(), now)
	acct.guest = true
	return acct.id, m.openSessionLocked(acct), false
}

func (m *Manager) createAccountLocked(name string, now time.Time) *memAccount {
	m.lastID++
	acct := &memAccount{id: m.lastID, name: name, lastSeen: now}
	m.byID[acct.id] = acct
	m.byName[name] = acct.id
	return acct
}

func (m *Manager) openSessionLocked(acct *memAccount) string {
	token := mustToken()
	m.sessions[token] = memSession{account: acct.id, expires: acct.lastSeen.Add(m.ttl)}
	return token
}

func (m *Manager) sessionAccountLocked(token string, now time.Time) *memAccount {
	if token == "" {
		return nil
	}
	s, ok := m.sessions[token]
	if !ok {
		return nil
	}
	if !now.Before(s.expires) {
		delete(m.sessions, token)
		return nil
	}
	s.expires = now.Add(m.ttl)
	m.sessions[token] = s
	acct := m.byID[s.account]
	if acct != nil {
		acct.lastSeen = now
	}
	return acct
}
