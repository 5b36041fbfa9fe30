package engine

import (
	"fmt"

	"splay-lite/gamespec"
)

// Correction is a manual fix to the canonical state, issued by an operator
// when reconciliation cannot resolve a table on its own. The variant set is
// closed; ApplyCorrections dispatches exhaustively.
type Correction interface {
	correctionMarker()
}

// SetCard places a card into a zone, pulling it out of wherever canon holds
// it. Position is "top" or "bottom".
type SetCard struct {
	ZoneID   string
	CardID   string
	Position string
}

// SetSplay forces a board stack's splay direction.
type SetSplay struct {
	PlayerID  string
	Color     gamespec.Color
	Direction gamespec.SplayDirection
}

// ConfirmZone asserts that a zone's canonical contents match the table. It
// changes nothing; it exists so an operator transcript records what was
// checked, not only what was altered.
type ConfirmZone struct {
	ZoneID string
}

func (SetCard) correctionMarker()     {}
func (SetSplay) correctionMarker()    {}
func (ConfirmZone) correctionMarker() {}

// ApplyCorrections applies the corrections in order to a clone of the state.
// Any failing correction aborts the whole batch; the input state is never
// mutated.
func ApplyCorrections(spec *gamespec.GameSpec, st *State, corrections []Correction) (*State, error) {
	out := st.Clone()
	for i, c := range corrections {
		var err error
		switch cc := c.(type) {
		case SetCard:
			err = applySetCard(spec, out, cc)
		case SetSplay:
			err = applySetSplay(spec, out, cc)
		case ConfirmZone:
			_, err = out.resolveZoneID(spec, cc.ZoneID)
		default:
			err = fmt.Errorf("unknown correction type %T", c)
		}
		if err != nil {
			return nil, fmt.Errorf("correction #%d: %w", i, err)
		}
	}
	return out, nil
}

func applySetCard(spec *gamespec.GameSpec, st *State, c SetCard) error {
	if spec.Card(c.CardID) == nil {
		return &UnresolvedRefError{Kind: "card", Ref: c.CardID}
	}
	handle, err := st.resolveZoneID(spec, c.ZoneID)
	if err != nil {
		return err
	}
	removeCardEverywhere(spec, st, c.CardID)
	var atStart bool
	switch c.Position {
	case "bottom":
		atStart = !handle.topFirst
	case "top", "":
		atStart = handle.topFirst
	default:
		return fmt.Errorf("unknown position %q", c.Position)
	}
	if atStart {
		*handle.cards = append([]string{c.CardID}, *handle.cards...)
	} else {
		*handle.cards = append(*handle.cards, c.CardID)
	}
	return nil
}

func applySetSplay(spec *gamespec.GameSpec, st *State, c SetSplay) error {
	if !spec.HasColor(c.Color) {
		return &UnresolvedRefError{Kind: "zone", Ref: "color " + string(c.Color)}
	}
	p := st.Player(c.PlayerID)
	if p == nil {
		return &UnresolvedRefError{Kind: "player", Ref: c.PlayerID}
	}
	p.BoardStack(c.Color).Splay = c.Direction
	return nil
}
