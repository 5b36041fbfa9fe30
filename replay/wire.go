package replay

import "encoding/json"

// WireReplayTape is the camelCase shape the web client consumes.
type WireReplayTape struct {
	TapeVersion int               `json:"tapeVersion"`
	GameID      string            `json:"gameId"`
	HeroID      string            `json:"heroId"`
	Events      []WireReplayEvent `json:"events"`
}

type WireReplayEvent struct {
	Type  string          `json:"type"`
	Seq   uint64          `json:"seq"`
	Value json.RawMessage `json:"value,omitempty"`
}

func ToWireReplayTape(tape *ReplayTape) *WireReplayTape {
	if tape == nil {
		return nil
	}
	out := &WireReplayTape{
		TapeVersion: tape.TapeVersion,
		GameID:      tape.GameID,
		HeroID:      tape.HeroID,
		Events:      make([]WireReplayEvent, 0, len(tape.Events)),
	}
	for _, e := range tape.Events {
		out.Events = append(out.Events, WireReplayEvent{
			Type:  e.Type,
			Seq:   e.Seq,
			Value: e.Value,
		})
	}
	return out
}
