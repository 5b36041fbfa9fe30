// Package codec defines the JSON wire envelopes exchanged between the
// gateway and clients, and helpers to build server payloads from engine
// state.
package codec

import (
	"encoding/json"
	"time"

	"splay-lite/engine"
)

// Client -> server message types.
const (
	ClientJoinRoom = "join_room"
	ClientAction   = "action"
	ClientChoice   = "choice"
	ClientLeave    = "leave"
)

// Server -> client message types.
const (
	ServerError        = "error"
	ServerRoomSnapshot = "room_snapshot"
	ServerSeatUpdate   = "seat_update"
	ServerGameStart    = "game_start"
	ServerActionResult = "action_result"
	ServerActionPrompt = "action_prompt"
	ServerChoicePrompt = "choice_prompt"
	ServerGameEnd      = "game_end"
)

// ClientEnvelope is the single message shape clients send over the socket.
type ClientEnvelope struct {
	Type   string         `json:"type"`
	RoomID string         `json:"room_id,omitempty"`
	Action *ActionRequest `json:"action,omitempty"`
	Choice *ChoiceRequest `json:"choice,omitempty"`
}

type ActionRequest struct {
	Kind string `json:"kind"`
	Card string `json:"card,omitempty"`
}

type ChoiceRequest struct {
	ChoiceID string   `json:"choice_id"`
	Picks    []string `json:"picks"`
}

// ServerEnvelope wraps every server push with ordering metadata.
type ServerEnvelope struct {
	Type       string          `json:"type"`
	RoomID     string          `json:"room_id,omitempty"`
	ServerSeq  uint64          `json:"server_seq"`
	ServerTsMs int64           `json:"server_ts_ms"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SeatInfo describes one seat of a room to clients.
type SeatInfo struct {
	SeatID   string `json:"seat_id"`
	UserID   uint64 `json:"user_id,omitempty"`
	Nickname string `json:"nickname"`
	Bot      bool   `json:"bot"`
	Online   bool   `json:"online"`
}

// RoomSnapshotPayload carries a per-viewer redacted game snapshot plus the
// seat roster. Game is null until the game has started.
type RoomSnapshotPayload struct {
	Seats    []SeatInfo       `json:"seats"`
	SeatedAs string           `json:"seated_as,omitempty"`
	Started  bool             `json:"started"`
	Game     *engine.Snapshot `json:"game,omitempty"`
}

type SeatUpdatePayload struct {
	Seat SeatInfo `json:"seat"`
	Left bool     `json:"left,omitempty"`
}

type GameStartPayload struct {
	GameID string     `json:"game_id"`
	Seats  []SeatInfo `json:"seats"`
}

type ActionResultPayload struct {
	SeatID string `json:"seat_id"`
	Kind   string `json:"kind"`
	Card   string `json:"card,omitempty"`
	Ended  bool   `json:"ended"`
}

// ActionOption is one entry of the legal-action menu sent to the player to
// act.
type ActionOption struct {
	Kind string `json:"kind"`
	Card string `json:"card,omitempty"`
}

type ActionPromptPayload struct {
	SeatID     string         `json:"seat_id"`
	Actions    []ActionOption `json:"actions"`
	DeadlineMs int64          `json:"deadline_ms,omitempty"`
}

type ChoicePromptPayload struct {
	ChoiceID string   `json:"choice_id"`
	SeatID   string   `json:"seat_id"`
	Kind     string   `json:"kind"`
	Prompt   string   `json:"prompt,omitempty"`
	Options  []string `json:"options"`
	Min      int      `json:"min"`
	Max      int      `json:"max"`
	Optional bool     `json:"optional"`
}

type GameEndPayload struct {
	WinnerSeat string `json:"winner_seat"`
	Reason     string `json:"reason"`
}

// Encode wraps payload in a ServerEnvelope and marshals the whole message.
func Encode(msgType, roomID string, serverSeq uint64, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ServerEnvelope{
		Type:       msgType,
		RoomID:     roomID,
		ServerSeq:  serverSeq,
		ServerTsMs: time.Now().UnixMilli(),
		Payload:    raw,
	})
}

// Decode parses a client message.
func Decode(data []byte) (*ClientEnvelope, error) {
	var env ClientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// ActionOptions converts a legal-action set into the prompt menu shape.
func ActionOptions(legal []engine.Action) []ActionOption {
	opts := make([]ActionOption, 0, len(legal))
	for _, a := range legal {
		opts = append(opts, ActionOption{Kind: a.Kind.String(), Card: a.CardID})
	}
	return opts
}

// ChoicePrompt converts a pending engine choice into its wire shape.
func ChoicePrompt(pc *engine.PendingChoice) ChoicePromptPayload {
	return ChoicePromptPayload{
		ChoiceID: pc.ChoiceID,
		SeatID:   pc.PlayerID,
		Kind:     pc.Kind.String(),
		Prompt:   pc.Prompt,
		Options:  append([]string{}, pc.Options...),
		Min:      pc.Min,
		Max:      pc.Max,
		Optional: pc.Optional,
	}
}
