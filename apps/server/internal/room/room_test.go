package room

import (
	"errors"
	"testing"
	"time"

	"splay-lite/apps/server/internal/archive"
	"splay-lite/bot"
	"splay-lite/engine"
	"splay-lite/games/innovation"
)

// newTestRoom builds a room without starting the actor goroutine so tests
// can drive the locked handlers synchronously.
func newTestRoom(t *testing.T) *Room {
	t.Helper()

	spec := innovation.NewSpec()
	archiveService, _, err := archive.NewService("memory")
	if err != nil {
		t.Fatalf("archive.NewService err: %v", err)
	}

	return &Room{
		ID: "room_test",
		Config: Config{
			MaxPlayers: 2,
			Seed:       7,
			StartDelay: defaultStartDelay,
			ActionTime: defaultActionTime,
			ChoiceTime: defaultChoiceTime,
		},
		spec:      spec,
		reducer:   engine.NewReducer(spec),
		players:   make(map[uint64]*PlayerConn),
		seatUsers: make(map[string]uint64),
		seatNames: make(map[string]string),
		botSeats:  make(map[string]bot.Policy),
		events:    make(chan Event, 256),
		done:      make(chan struct{}),
		broadcast: func(uint64, []byte) {},
		archive:   archiveService,
		personas:  bot.NewRegistry(),
	}
}

func TestHandleJoin_AutoStartsWhenFull(t *testing.T) {
	r := newTestRoom(t)

	if err := r.handleJoin(1, "ada"); err != nil {
		t.Fatalf("first join err: %v", err)
	}
	if r.started {
		t.Fatalf("game should not start with one player")
	}
	if r.startAt.IsZero() {
		t.Fatalf("expected a scheduled start after first join")
	}

	if err := r.handleJoin(2, "kit"); err != nil {
		t.Fatalf("second join err: %v", err)
	}
	if !r.started {
		t.Fatalf("expected game to start once the room filled")
	}
	if r.st == nil {
		t.Fatalf("expected game state after start")
	}
	if got := r.seatUsers["p1"]; got != 1 {
		t.Fatalf("expected seat p1 held by user 1, got %d", got)
	}
	if got := r.seatUsers["p2"]; got != 2 {
		t.Fatalf("expected seat p2 held by user 2, got %d", got)
	}
	if len(r.botSeats) != 0 {
		t.Fatalf("expected no bot seats in a full human room, got %d", len(r.botSeats))
	}
	if r.players[1].SeatID != "p1" || r.players[2].SeatID != "p2" {
		t.Fatalf("seat assignment mismatch: %q %q", r.players[1].SeatID, r.players[2].SeatID)
	}
}

func TestHandleAction_EnforcesTurnOrder(t *testing.T) {
	r := newTestRoom(t)
	if err := r.handleJoin(1, "ada"); err != nil {
		t.Fatalf("join err: %v", err)
	}
	if err := r.handleJoin(2, "kit"); err != nil {
		t.Fatalf("join err: %v", err)
	}

	// p2 acting out of turn is rejected by the engine.
	err := r.handleAction(Event{Type: EventAction, UserID: 2, ActionKind: engine.ActionDraw})
	var illegal *engine.IllegalActionError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalActionError for out-of-turn action, got %v", err)
	}

	before := r.st
	if err := r.handleAction(Event{Type: EventAction, UserID: 1, ActionKind: engine.ActionDraw}); err != nil {
		t.Fatalf("draw err: %v", err)
	}
	if r.st == before {
		t.Fatalf("expected a new state after a completed action")
	}
	if len(r.moves) != 1 {
		t.Fatalf("expected 1 recorded move, got %d", len(r.moves))
	}
	if r.moves[0].Seat != "p1" || r.moves[0].Kind != "draw" {
		t.Fatalf("unexpected move record: %+v", r.moves[0])
	}
}

func TestHandleAction_RejectsUnseatedUser(t *testing.T) {
	r := newTestRoom(t)
	if err := r.handleJoin(1, "ada"); err != nil {
		t.Fatalf("join err: %v", err)
	}
	if err := r.handleJoin(2, "kit"); err != nil {
		t.Fatalf("join err: %v", err)
	}

	err := r.handleAction(Event{Type: EventAction, UserID: 99, ActionKind: engine.ActionDraw})
	if !errors.Is(err, ErrNotSeated) {
		t.Fatalf("expected ErrNotSeated, got %v", err)
	}
}

func TestHandleLeave_BeforeStartCancelsSchedule(t *testing.T) {
	r := newTestRoom(t)
	if err := r.handleJoin(1, "ada"); err != nil {
		t.Fatalf("join err: %v", err)
	}
	if err := r.handleLeave(1); err != nil {
		t.Fatalf("leave err: %v", err)
	}

	if len(r.players) != 0 {
		t.Fatalf("expected empty roster after leave")
	}
	if !r.startAt.IsZero() {
		t.Fatalf("expected start schedule cleared for empty room")
	}
	if r.emptySince.IsZero() {
		t.Fatalf("expected emptySince set for empty room")
	}
}

func TestEnforceActionTimeout_PlaysFallbackAction(t *testing.T) {
	r := newTestRoom(t)
	if err := r.handleJoin(1, "ada"); err != nil {
		t.Fatalf("join err: %v", err)
	}
	if err := r.handleJoin(2, "kit"); err != nil {
		t.Fatalf("join err: %v", err)
	}
	if r.actionSeat != "p1" {
		t.Fatalf("expected action prompt for p1, got %q", r.actionSeat)
	}

	movesBefore := len(r.moves)
	r.enforceActionTimeout(r.actionDeadline.Add(time.Second))
	if len(r.moves) != movesBefore+1 {
		t.Fatalf("expected timeout to auto-play one action, moves=%d", len(r.moves))
	}
	if r.moves[movesBefore].Seat != "p1" {
		t.Fatalf("expected auto action for p1, got %+v", r.moves[movesBefore])
	}
}
