// Package room hosts live games. Each room is an actor: a single goroutine
// owns the engine state and consumes events submitted by the gateway, bots,
// and timers.
package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"splay-lite/apps/server/internal/archive"
	"splay-lite/apps/server/internal/codec"
	"splay-lite/bot"
	"splay-lite/engine"
	"splay-lite/gamespec"
)

// Room runs one game from lobby fill to archive.
type Room struct {
	ID     string
	Config Config

	mu       sync.RWMutex
	spec     *gamespec.GameSpec
	reducer  *engine.Reducer
	st       *engine.State
	pending  *engine.PendingAction
	started  bool
	finished bool
	closed   bool
	stopOnce sync.Once

	players   map[uint64]*PlayerConn // userID -> connection info
	joinOrder []uint64
	seatUsers map[string]uint64   // seatID -> userID, 0 for bots
	seatNames map[string]string   // seatID -> display name
	botSeats  map[string]bot.Policy

	events chan Event
	done   chan struct{}

	serverSeq uint64

	actionSeat     string
	actionDeadline time.Time
	choiceDeadline time.Time
	startAt        time.Time
	emptySince     time.Time

	broadcast func(userID uint64, data []byte)
	archive   archive.Service
	personas  *bot.Registry
	moves     []archive.MoveRecord
}

// Config controls room behavior.
type Config struct {
	MaxPlayers int
	Seed       int64
	BotSeed    int64
	StartDelay time.Duration
	ActionTime time.Duration
	ChoiceTime time.Duration
}

// PlayerConn tracks one human member of the room.
type PlayerConn struct {
	UserID   uint64
	Nickname string
	SeatID   string // empty until the game starts or for spectators
	Online   bool
	LastSeen time.Time
}

type EventType int

const (
	EventJoin EventType = iota
	EventLeave
	EventAction
	EventChoice
	EventStartGame
	EventConnLost
	EventConnResume
	EventClose
)

// Event is a message to the room actor. Human events carry UserID; events
// injected for bot seats carry SeatID directly.
type Event struct {
	Type       EventType
	UserID     uint64
	Nickname   string
	SeatID     string
	ActionKind engine.ActionKind
	CardID     string
	ChoiceID   string
	Picks      []string
	Timestamp  time.Time
	Response   chan error
}

var (
	ErrRoomClosed      = errors.New("room closed")
	ErrNotSeated       = errors.New("not seated in this room")
	ErrNotStarted      = errors.New("game not started")
	ErrAwaitingChoice  = errors.New("an effect is awaiting a choice")
	ErrNoChoicePending = errors.New("no choice pending")
)

const (
	defaultStartDelay = 3 * time.Second
	defaultActionTime = 45 * time.Second
	defaultChoiceTime = 30 * time.Second
	botThinkDelay     = 400 * time.Millisecond
	offlineSeatTTL    = 60 * time.Second
)

// New creates a room and starts its actor goroutine.
func New(
	id string,
	spec *gamespec.GameSpec,
	cfg Config,
	broadcastFn func(userID uint64, data []byte),
	archiveService archive.Service,
	personas *bot.Registry,
) *Room {
	if cfg.MaxPlayers <= 0 || cfg.MaxPlayers > spec.MaxPlayers {
		cfg.MaxPlayers = spec.MaxPlayers
	}
	if cfg.StartDelay <= 0 {
		cfg.StartDelay = defaultStartDelay
	}
	if cfg.ActionTime <= 0 {
		cfg.ActionTime = defaultActionTime
	}
	if cfg.ChoiceTime <= 0 {
		cfg.ChoiceTime = defaultChoiceTime
	}

	r := &Room{
		ID:         id,
		Config:     cfg,
		spec:       spec,
		reducer:    engine.NewReducer(spec),
		players:    make(map[uint64]*PlayerConn),
		seatUsers:  make(map[string]uint64),
		seatNames:  make(map[string]string),
		botSeats:   make(map[string]bot.Policy),
		events:     make(chan Event, 256),
		done:       make(chan struct{}),
		broadcast:  broadcastFn,
		archive:    archiveService,
		personas:   personas,
		emptySince: time.Now(),
	}

	go r.run()

	log.Printf("[Room %s] Created (max=%d)", id, cfg.MaxPlayers)
	return r
}

func (r *Room) run() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case event := <-r.events:
			err := r.handleEvent(event)
			if event.Response != nil {
				event.Response <- err
			}
		case <-ticker.C:
			r.tick()
		case <-r.done:
			log.Printf("[Room %s] Actor stopped", r.ID)
			return
		}
	}
}

func (r *Room) handleEvent(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed && e.Type != EventClose {
		return ErrRoomClosed
	}

	switch e.Type {
	case EventJoin:
		return r.handleJoin(e.UserID, e.Nickname)
	case EventLeave:
		return r.handleLeave(e.UserID)
	case EventAction:
		return r.handleAction(e)
	case EventChoice:
		return r.handleChoice(e)
	case EventStartGame:
		return r.handleStartGame()
	case EventConnLost:
		return r.handleConnLost(e.UserID, e.Timestamp)
	case EventConnResume:
		return r.handleConnResume(e.UserID, e.Nickname, e.Timestamp)
	case EventClose:
		r.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.Type)
	}
}

func (r *Room) handleJoin(userID uint64, nickname string) error {
	now := time.Now()
	resolved := normalizeNickname(nickname, userID)
	if player, exists := r.players[userID]; exists {
		player.Online = true
		player.LastSeen = now
		player.Nickname = resolved
		r.sendRoomSnapshot(userID)
		r.sendPromptIfActing(userID)
		return nil
	}

	r.players[userID] = &PlayerConn{
		UserID:   userID,
		Nickname: resolved,
		Online:   true,
		LastSeen: now,
	}
	r.joinOrder = append(r.joinOrder, userID)
	r.emptySince = time.Time{}
	log.Printf("[Room %s] Player %d (%s) joined", r.ID, userID, resolved)

	if !r.started && r.startAt.IsZero() {
		r.startAt = now.Add(r.Config.StartDelay)
	}
	if !r.started && r.humanCount() >= r.Config.MaxPlayers {
		if err := r.handleStartGame(); err != nil {
			log.Printf("[Room %s] start on full room failed: %v", r.ID, err)
		}
		return nil
	}

	r.sendRoomSnapshot(userID)
	r.broadcastRoster()
	return nil
}

func (r *Room) handleLeave(userID uint64) error {
	player := r.players[userID]
	if player == nil {
		return nil
	}
	delete(r.players, userID)
	for i, id := range r.joinOrder {
		if id == userID {
			r.joinOrder = append(r.joinOrder[:i], r.joinOrder[i+1:]...)
			break
		}
	}
	// A started game keeps the seat; timeouts will play it out.
	log.Printf("[Room %s] Player %d left", r.ID, userID)
	if len(r.players) == 0 {
		r.emptySince = time.Now()
		if !r.started {
			r.startAt = time.Time{}
		}
	}
	r.broadcastRoster()
	return nil
}

func (r *Room) handleStartGame() error {
	if r.closed {
		return ErrRoomClosed
	}
	if r.started {
		return nil
	}
	humans := r.humanCount()
	if humans == 0 {
		return nil
	}
	r.startAt = time.Time{}

	target := humans
	if target < r.spec.MinPlayers {
		target = r.spec.MinPlayers
	}
	if target > r.Config.MaxPlayers {
		target = r.Config.MaxPlayers
	}

	seats := make([]engine.Seat, 0, target)
	seatIdx := 0
	for _, userID := range r.joinOrder {
		if seatIdx >= target {
			break
		}
		player := r.players[userID]
		if player == nil {
			continue
		}
		seatIdx++
		seatID := fmt.Sprintf("p%d", seatIdx)
		player.SeatID = seatID
		r.seatUsers[seatID] = userID
		r.seatNames[seatID] = player.Nickname
		seats = append(seats, engine.Seat{ID: seatID, Name: player.Nickname, Human: true})
	}

	// Fill the remaining seats with bots.
	roster := r.botRoster(target - seatIdx)
	for i, persona := range roster {
		seatIdx++
		seatID := fmt.Sprintf("p%d", seatIdx)
		r.seatUsers[seatID] = 0
		r.seatNames[seatID] = persona.Name
		r.botSeats[seatID] = bot.NewGreedy(persona, r.Config.BotSeed+int64(i)+1)
		seats = append(seats, engine.Seat{ID: seatID, Name: persona.Name, Human: false})
	}

	st, err := engine.NewGame(r.spec, engine.Config{
		GameID:  r.ID,
		Players: seats,
		Seed:    r.Config.Seed,
	})
	if err != nil {
		// Roll back seat assignments so a later start can retry.
		for _, player := range r.players {
			player.SeatID = ""
		}
		r.seatUsers = make(map[string]uint64)
		r.seatNames = make(map[string]string)
		r.botSeats = make(map[string]bot.Policy)
		return err
	}

	r.st = st
	r.started = true
	r.moves = nil
	log.Printf("[Room %s] Game started with %d seats (%d humans, %d bots)",
		r.ID, len(seats), humans, len(r.botSeats))

	r.push(0, codec.ServerGameStart, codec.GameStartPayload{
		GameID: r.ID,
		Seats:  r.seatInfos(),
	})
	r.broadcastSnapshots()
	r.promptCurrentLocked()
	return nil
}

func (r *Room) handleAction(e Event) error {
	if !r.started || r.st == nil {
		return ErrNotStarted
	}
	if r.finished {
		return engine.ErrTerminalState
	}
	if r.pending != nil {
		return ErrAwaitingChoice
	}

	seatID, err := r.resolveSeat(e)
	if err != nil {
		return err
	}

	action := engine.Action{Kind: e.ActionKind, PlayerID: seatID, CardID: e.CardID}
	out, err := r.reducer.Apply(r.st, action)
	if err != nil {
		return err
	}

	r.clearActionTimeoutLocked()
	r.moves = append(r.moves, archive.MoveRecord{
		Seat: seatID,
		Kind: action.Kind.String(),
		Card: action.CardID,
	})
	log.Printf("[Room %s] %s plays %s", r.ID, seatID, action)

	if out.Pending != nil {
		r.pending = out.Pending
		r.promptChoiceLocked()
		return nil
	}

	r.settleActionLocked(action, out.State)
	return nil
}

func (r *Room) handleChoice(e Event) error {
	if !r.started || r.pending == nil {
		return ErrNoChoicePending
	}

	seatID, err := r.resolveSeat(e)
	if err != nil {
		return err
	}
	pc := r.pending.Choice()
	if pc == nil || pc.PlayerID != seatID {
		return fmt.Errorf("choice is not yours to make")
	}

	out, err := r.reducer.Resume(r.pending, e.ChoiceID, e.Picks)
	if err != nil {
		// The pending action is untouched; the chooser may retry.
		return err
	}

	r.choiceDeadline = time.Time{}
	if n := len(r.moves); n > 0 {
		r.moves[n-1].Choices = append(r.moves[n-1].Choices, append([]string{}, e.Picks...))
	}

	if out.Pending != nil {
		r.pending = out.Pending
		r.promptChoiceLocked()
		return nil
	}

	action := r.pending.Action()
	r.pending = nil
	r.settleActionLocked(action, out.State)
	return nil
}

// settleActionLocked installs the post-action state and drives the game
// forward.
func (r *Room) settleActionLocked(action engine.Action, next *engine.State) {
	r.st = next
	r.push(0, codec.ServerActionResult, codec.ActionResultPayload{
		SeatID: action.PlayerID,
		Kind:   action.Kind.String(),
		Card:   action.CardID,
		Ended:  r.st.Ended(),
	})
	r.broadcastSnapshots()

	if r.st.Ended() {
		r.finishGameLocked()
		return
	}
	r.promptCurrentLocked()
}

func (r *Room) promptCurrentLocked() {
	cur := r.st.CurrentPlayerState()
	if cur == nil {
		return
	}
	legal, err := r.reducer.Generator().Legal(r.st, cur.ID)
	if err != nil {
		log.Printf("[Room %s] legal actions failed for %s: %v", r.ID, cur.ID, err)
		return
	}

	if policy, isBot := r.botSeats[cur.ID]; isBot {
		r.scheduleBotAction(cur.ID, policy, legal)
		return
	}

	r.actionSeat = cur.ID
	r.actionDeadline = time.Now().Add(r.Config.ActionTime)
	userID := r.seatUsers[cur.ID]
	if userID == 0 {
		return
	}
	r.send(userID, codec.ServerActionPrompt, codec.ActionPromptPayload{
		SeatID:     cur.ID,
		Actions:    codec.ActionOptions(legal),
		DeadlineMs: r.actionDeadline.UnixMilli(),
	})
}

func (r *Room) promptChoiceLocked() {
	pc := r.pending.Choice()
	if pc == nil {
		return
	}

	if policy, isBot := r.botSeats[pc.PlayerID]; isBot {
		r.scheduleBotChoice(pc, policy)
		return
	}

	r.choiceDeadline = time.Now().Add(r.Config.ChoiceTime)
	userID := r.seatUsers[pc.PlayerID]
	if userID == 0 {
		return
	}
	r.send(userID, codec.ServerChoicePrompt, codec.ChoicePrompt(pc))
}

// scheduleBotAction runs the bot policy off the actor goroutine and injects
// its decision back as an event. The think delay keeps the pacing readable
// for human opponents.
func (r *Room) scheduleBotAction(seatID string, policy bot.Policy, legal []engine.Action) {
	stCopy := r.st.Clone()
	legalCopy := append([]engine.Action{}, legal...)

	go func() {
		time.Sleep(botThinkDelay)
		remaining := legalCopy
		for len(remaining) > 0 {
			action := policy.ChooseAction(r.spec, stCopy, remaining)
			err := r.SubmitEvent(Event{
				Type:       EventAction,
				SeatID:     seatID,
				ActionKind: action.Kind,
				CardID:     action.CardID,
			})
			if err == nil || errors.Is(err, ErrRoomClosed) {
				return
			}
			// The action was legal but its effect program failed at
			// runtime. Drop it and let the policy pick again.
			log.Printf("[Room %s] bot %s action %s rejected: %v", r.ID, seatID, action, err)
			filtered := remaining[:0:0]
			for _, a := range remaining {
				if a != action {
					filtered = append(filtered, a)
				}
			}
			remaining = filtered
		}
	}()
}

func (r *Room) scheduleBotChoice(pc *engine.PendingChoice, policy bot.Policy) {
	stCopy := r.st.Clone()
	pcCopy := *pc
	pcCopy.Options = append([]string{}, pc.Options...)

	go func() {
		time.Sleep(botThinkDelay)
		picks := policy.AnswerChoice(r.spec, stCopy, &pcCopy)
		err := r.SubmitEvent(Event{
			Type:     EventChoice,
			SeatID:   pcCopy.PlayerID,
			ChoiceID: pcCopy.ChoiceID,
			Picks:    picks,
		})
		if err != nil && !errors.Is(err, ErrRoomClosed) {
			log.Printf("[Room %s] bot %s choice rejected: %v", r.ID, pcCopy.PlayerID, err)
		}
	}()
}

func (r *Room) finishGameLocked() {
	if r.finished {
		return
	}
	r.finished = true
	r.clearActionTimeoutLocked()
	r.choiceDeadline = time.Time{}

	result := r.st.Result
	winner, reason := "", ""
	if result != nil {
		winner, reason = result.WinnerID, result.Reason
	}
	log.Printf("[Room %s] Game over: winner=%s reason=%s", r.ID, winner, reason)

	r.push(0, codec.ServerGameEnd, codec.GameEndPayload{
		WinnerSeat: winner,
		Reason:     reason,
	})

	rec := &archive.GameRecord{
		GameID:     r.ID,
		PlayedAt:   time.Now().UTC(),
		WinnerSeat: winner,
		Reason:     reason,
		Seats:      r.seatRecords(),
		Moves:      append([]archive.MoveRecord{}, r.moves...),
	}
	if snapshot, err := json.Marshal(engine.TakeSnapshot(r.spec, r.st, "")); err == nil {
		rec.FinalSnapshot = snapshot
	}
	archiveService := r.archive
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := archiveService.RecordGame(ctx, rec); err != nil {
			log.Printf("[Room %s] archive record failed: %v", r.ID, err)
		}
	}()
}

func (r *Room) tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	now := time.Now()

	if !r.started && !r.startAt.IsZero() && !now.Before(r.startAt) {
		if err := r.handleStartGame(); err != nil {
			log.Printf("[Room %s] scheduled start failed: %v", r.ID, err)
			r.startAt = now.Add(r.Config.StartDelay)
		}
	}
	r.releaseOfflinePlayers(now)
	r.enforceActionTimeout(now)
	r.enforceChoiceTimeout(now)
}

func (r *Room) releaseOfflinePlayers(now time.Time) {
	if r.started {
		return
	}
	for userID, player := range r.players {
		if player.Online || now.Sub(player.LastSeen) < offlineSeatTTL {
			continue
		}
		if err := r.handleLeave(userID); err != nil {
			log.Printf("[Room %s] auto-leave failed for offline user %d: %v", r.ID, userID, err)
		}
	}
}

// enforceActionTimeout plays a fallback action for a stalled human seat. The
// legal set always contains draw and pass, tried in that order.
func (r *Room) enforceActionTimeout(now time.Time) {
	if r.actionSeat == "" || r.actionDeadline.IsZero() || now.Before(r.actionDeadline) {
		return
	}
	seatID := r.actionSeat
	r.clearActionTimeoutLocked()

	if r.pending != nil || r.st == nil || r.st.Ended() {
		return
	}
	cur := r.st.CurrentPlayerState()
	if cur == nil || cur.ID != seatID {
		return
	}

	legal, err := r.reducer.Generator().Legal(r.st, seatID)
	if err != nil {
		log.Printf("[Room %s] timeout legal actions failed: %v", r.ID, err)
		return
	}
	for _, kind := range []engine.ActionKind{engine.ActionDraw, engine.ActionPass} {
		for _, a := range legal {
			if a.Kind != kind {
				continue
			}
			log.Printf("[Room %s] Action timeout for %s, auto %s", r.ID, seatID, a)
			if err := r.handleAction(Event{
				Type:       EventAction,
				SeatID:     seatID,
				ActionKind: a.Kind,
				CardID:     a.CardID,
			}); err != nil {
				log.Printf("[Room %s] timeout auto action failed: %v", r.ID, err)
				continue
			}
			return
		}
	}
}

// enforceChoiceTimeout answers a stalled choice minimally: decline when
// allowed, otherwise take the first Min options.
func (r *Room) enforceChoiceTimeout(now time.Time) {
	if r.pending == nil || r.choiceDeadline.IsZero() || now.Before(r.choiceDeadline) {
		return
	}
	pc := r.pending.Choice()
	if pc == nil {
		return
	}
	r.choiceDeadline = time.Time{}

	var picks []string
	if pc.Min > 0 && pc.Min <= len(pc.Options) {
		picks = append([]string{}, pc.Options[:pc.Min]...)
	}
	log.Printf("[Room %s] Choice timeout for %s, auto picks=%v", r.ID, pc.PlayerID, picks)
	if err := r.handleChoice(Event{
		Type:     EventChoice,
		SeatID:   pc.PlayerID,
		ChoiceID: pc.ChoiceID,
		Picks:    picks,
	}); err != nil {
		log.Printf("[Room %s] timeout auto choice failed: %v", r.ID, err)
	}
}

func (r *Room) resolveSeat(e Event) (string, error) {
	if e.SeatID != "" && e.UserID == 0 {
		// Internal event (bot or timer).
		if _, ok := r.seatNames[e.SeatID]; !ok {
			return "", ErrNotSeated
		}
		return e.SeatID, nil
	}
	player := r.players[e.UserID]
	if player == nil || player.SeatID == "" {
		return "", ErrNotSeated
	}
	return player.SeatID, nil
}

func (r *Room) handleConnLost(userID uint64, ts time.Time) error {
	player := r.players[userID]
	if player == nil {
		return nil
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	player.Online = false
	player.LastSeen = ts
	log.Printf("[Room %s] Player %d connection lost", r.ID, userID)
	return nil
}

func (r *Room) handleConnResume(userID uint64, nickname string, ts time.Time) error {
	player := r.players[userID]
	if player == nil {
		return nil
	}
	player.Nickname = normalizeNickname(nickname, userID)
	if ts.IsZero() {
		ts = time.Now()
	}
	player.Online = true
	player.LastSeen = ts
	r.sendRoomSnapshot(userID)
	r.sendPromptIfActing(userID)
	log.Printf("[Room %s] Player %d connection resumed", r.ID, userID)
	return nil
}

func (r *Room) sendPromptIfActing(userID uint64) {
	if !r.started || r.st == nil || r.st.Ended() {
		return
	}
	player := r.players[userID]
	if player == nil || player.SeatID == "" {
		return
	}
	if r.pending != nil {
		pc := r.pending.Choice()
		if pc != nil && pc.PlayerID == player.SeatID {
			r.send(userID, codec.ServerChoicePrompt, codec.ChoicePrompt(pc))
		}
		return
	}
	cur := r.st.CurrentPlayerState()
	if cur == nil || cur.ID != player.SeatID {
		return
	}
	legal, err := r.reducer.Generator().Legal(r.st, cur.ID)
	if err != nil {
		return
	}
	r.send(userID, codec.ServerActionPrompt, codec.ActionPromptPayload{
		SeatID:     cur.ID,
		Actions:    codec.ActionOptions(legal),
		DeadlineMs: r.actionDeadline.UnixMilli(),
	})
}

// SubmitEvent sends an event to the actor and waits for the result.
func (r *Room) SubmitEvent(e Event) error {
	e.Timestamp = time.Now()
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}

	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return ErrRoomClosed
	}

	select {
	case r.events <- e:
	case <-r.done:
		return ErrRoomClosed
	}

	select {
	case err := <-e.Response:
		return err
	case <-r.done:
		return ErrRoomClosed
	}
}

// Stop shuts down the room actor.
func (r *Room) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Room) stopLocked() {
	r.closed = true
	r.stopOnce.Do(func() {
		close(r.done)
	})
}

func (r *Room) clearActionTimeoutLocked() {
	r.actionSeat = ""
	r.actionDeadline = time.Time{}
}

// Started reports whether the game is underway.
func (r *Room) Started() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.started
}

// Finished reports whether the game has ended.
func (r *Room) Finished() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.finished
}

// HasSpace reports whether another human can still get a seat.
func (r *Room) HasSpace() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.started && !r.closed && r.humanCount() < r.Config.MaxPlayers
}

// IsIdleFor reports whether the room has been empty for at least ttl.
func (r *Room) IsIdleFor(ttl time.Duration) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return true
	}
	if len(r.players) > 0 {
		return false
	}
	if r.emptySince.IsZero() {
		return false
	}
	return time.Since(r.emptySince) >= ttl
}

func (r *Room) IsClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

// --- roster and broadcast helpers (caller must hold r.mu) ---

func (r *Room) humanCount() int {
	return len(r.players)
}

func (r *Room) botRoster(n int) []*bot.Persona {
	if n <= 0 || r.personas == nil {
		return nil
	}
	roster := r.personas.All()
	if len(roster) == 0 {
		return nil
	}
	picked := make([]*bot.Persona, 0, n)
	for i := 0; i < n; i++ {
		picked = append(picked, roster[i%len(roster)])
	}
	return picked
}

func (r *Room) seatInfos() []codec.SeatInfo {
	infos := make([]codec.SeatInfo, 0, len(r.seatNames))
	for i := 1; i <= len(r.seatNames); i++ {
		seatID := fmt.Sprintf("p%d", i)
		userID := r.seatUsers[seatID]
		online := true
		if userID != 0 {
			if player := r.players[userID]; player != nil {
				online = player.Online
			} else {
				online = false
			}
		}
		infos = append(infos, codec.SeatInfo{
			SeatID:   seatID,
			UserID:   userID,
			Nickname: r.seatNames[seatID],
			Bot:      userID == 0,
			Online:   online,
		})
	}
	return infos
}

func (r *Room) seatRecords() []archive.SeatRecord {
	infos := r.seatInfos()
	records := make([]archive.SeatRecord, 0, len(infos))
	for _, info := range infos {
		records = append(records, archive.SeatRecord{
			SeatID:   info.SeatID,
			UserID:   info.UserID,
			Nickname: info.Nickname,
			Bot:      info.Bot,
		})
	}
	return records
}

func (r *Room) nextSeq() uint64 {
	r.serverSeq++
	return r.serverSeq
}

// send pushes one typed payload to a single user.
func (r *Room) send(userID uint64, msgType string, payload any) {
	data, err := codec.Encode(msgType, r.ID, r.nextSeq(), payload)
	if err != nil {
		log.Printf("[Room %s] encode %s failed: %v", r.ID, msgType, err)
		return
	}
	r.broadcast(userID, data)
}

// push sends a payload to every member, or to a single user when userID is
// non-zero.
func (r *Room) push(userID uint64, msgType string, payload any) {
	if userID != 0 {
		r.send(userID, msgType, payload)
		return
	}
	for id := range r.players {
		r.send(id, msgType, payload)
	}
}

func (r *Room) sendRoomSnapshot(userID uint64) {
	payload := codec.RoomSnapshotPayload{
		Seats:   r.seatInfos(),
		Started: r.started,
	}
	if player := r.players[userID]; player != nil {
		payload.SeatedAs = player.SeatID
	}
	if r.started && r.st != nil {
		// Unseated members are spectators; the empty viewer ID would
		// produce the omniscient view, so give them a non-seat one.
		viewer := payload.SeatedAs
		if viewer == "" {
			viewer = "spectator"
		}
		snap := engine.TakeSnapshot(r.spec, r.st, viewer)
		payload.Game = &snap
	}
	r.send(userID, codec.ServerRoomSnapshot, payload)
}

func (r *Room) broadcastSnapshots() {
	for userID := range r.players {
		r.sendRoomSnapshot(userID)
	}
}

func (r *Room) broadcastRoster() {
	payload := codec.RoomSnapshotPayload{
		Seats:   r.seatInfos(),
		Started: r.started,
	}
	for userID := range r.players {
		p := payload
		if player := r.players[userID]; player != nil {
			p.SeatedAs = player.SeatID
		}
		r.send(userID, codec.ServerRoomSnapshot, p)
	}
}

func normalizeNickname(raw string, userID uint64) string {
	if raw == "" {
		return fmt.Sprintf("user_%d", userID)
	}
	return raw
}
