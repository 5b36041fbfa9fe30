// Package lobby assigns players to rooms.
package lobby

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"splay-lite/apps/server/internal/archive"
	"splay-lite/apps/server/internal/room"
	"splay-lite/bot"
	"splay-lite/gamespec"
)

const idleRoomTTL = 10 * time.Minute

// Lobby manages all rooms and player assignments.
type Lobby struct {
	mu    sync.RWMutex
	rooms map[string]*room.Room

	spec     *gamespec.GameSpec
	config   room.Config
	archive  archive.Service
	personas *bot.Registry

	stopOnce sync.Once
	done     chan struct{}
}

// New creates a lobby and starts its idle-room sweeper.
func New(
	spec *gamespec.GameSpec,
	cfg room.Config,
	archiveService archive.Service,
	personas *bot.Registry,
) *Lobby {
	l := &Lobby{
		rooms:    make(map[string]*room.Room),
		spec:     spec,
		config:   cfg,
		archive:  archiveService,
		personas: personas,
		done:     make(chan struct{}),
	}
	go l.sweep()
	return l
}

// QuickStart finds or creates a joinable room for the player.
func (l *Lobby) QuickStart(userID uint64, broadcastFn func(userID uint64, data []byte)) (*room.Room, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.rooms {
		if r.HasSpace() {
			log.Printf("[Lobby] QuickStart: user %d joining existing room %s", userID, r.ID)
			return r, nil
		}
	}

	roomID := fmt.Sprintf("room_%s", uuid.NewString()[:8])
	r := room.New(roomID, l.spec, l.config, broadcastFn, l.archive, l.personas)
	if r == nil {
		return nil, fmt.Errorf("failed to create room")
	}
	l.rooms[roomID] = r

	log.Printf("[Lobby] QuickStart: user %d created new room %s", userID, roomID)
	return r, nil
}

// GetRoom returns a room by ID.
func (l *Lobby) GetRoom(roomID string) *room.Room {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rooms[roomID]
}

// ListRooms returns all room IDs.
func (l *Lobby) ListRooms() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.rooms))
	for id := range l.rooms {
		ids = append(ids, id)
	}
	return ids
}

// Stop shuts down the lobby and every room.
func (l *Lobby) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	for id, r := range l.rooms {
		r.Stop()
		delete(l.rooms, id)
	}
}

func (l *Lobby) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.reapIdleRooms()
		case <-l.done:
			return
		}
	}
}

func (l *Lobby) reapIdleRooms() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, r := range l.rooms {
		if r.IsClosed() || r.IsIdleFor(idleRoomTTL) {
			r.Stop()
			delete(l.rooms, id)
			log.Printf("[Lobby] Reaped idle room %s", id)
		}
	}
}
