package engine

import (
	"fmt"
	"strings"

	"splay-lite/gamespec"
)

// Reconciliation merges an externally observed table layout into the
// canonical state. The observer owns confidence; the engine owns legality:
// observed changes that keep every card in exactly one zone are applied,
// everything else is reported as a conflict and left alone.

// ConflictType classifies a disagreement between observation and canon.
type ConflictType string

const (
	ConflictCardMoved     ConflictType = "card_moved"
	ConflictCountMismatch ConflictType = "card_count_mismatch"
	ConflictImpossible    ConflictType = "impossible_state"
	ConflictSplayChanged  ConflictType = "splay_changed"
	ConflictUnknownCard   ConflictType = "unknown_card"
)

// Severity grades a conflict from expected drift to impossible observation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Conflict is one reconciliation finding.
type Conflict struct {
	Type     ConflictType
	Severity Severity
	ZoneID   string
	CardID   string
	Message  string
}

// ObservedZone is one zone as seen by an observer. Cards are bottom to top
// for board stacks, zone order otherwise.
type ObservedZone struct {
	ZoneID     string
	Cards      []string
	Splay      *gamespec.SplayDirection
	Confidence float64
}

// Observation is a partial view of the table; zones not listed are trusted
// as-is from canon.
type Observation struct {
	Zones []ObservedZone
}

// Zone IDs address zones the way observations name them:
// "<player>_hand", "<player>_score", "<player>_board_<color>",
// "achievements", "age_<n>".
func zoneID(playerID, zone string) string {
	return playerID + "_" + zone
}

type zoneHandle struct {
	cards *[]string
	splay *gamespec.SplayDirection
	// topFirst marks zones whose index 0 is the top card (supply decks).
	// Everywhere else the last element is the top.
	topFirst bool
}

func (s *State) resolveZoneID(spec *gamespec.GameSpec, id string) (*zoneHandle, error) {
	if id == "achievements" {
		return &zoneHandle{cards: &s.Achievements.Cards}, nil
	}
	if strings.HasPrefix(id, "age_") {
		var age int
		if _, err := fmt.Sscanf(id, "age_%d", &age); err != nil {
			return nil, &UnresolvedRefError{Kind: "zone", Ref: id}
		}
		return &zoneHandle{cards: &s.SupplyDeck(age).Cards, topFirst: true}, nil
	}
	for _, p := range s.Players {
		prefix := p.ID + "_"
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		rest := strings.TrimPrefix(id, prefix)
		switch {
		case rest == "hand":
			return &zoneHandle{cards: &p.Hand.Cards}, nil
		case rest == "score":
			return &zoneHandle{cards: &p.ScorePile.Cards}, nil
		case strings.HasPrefix(rest, "board_"):
			color := gamespec.Color(strings.TrimPrefix(rest, "board_"))
			if !spec.HasColor(color) {
				return nil, &UnresolvedRefError{Kind: "zone", Ref: id}
			}
			stack := p.BoardStack(color)
			return &zoneHandle{cards: &stack.Cards, splay: &stack.Splay}, nil
		}
	}
	return nil, &UnresolvedRefError{Kind: "zone", Ref: id}
}

// Reconcile merges the observation into a clone of the state. The input
// state is untouched; the returned state reflects every applied change and
// the conflicts describe everything noticed, applied or not.
func Reconcile(spec *gamespec.GameSpec, st *State, obs *Observation) (*State, []Conflict) {
	merged := st.Clone()
	var conflicts []Conflict

	for _, oz := range obs.Zones {
		conflicts = append(conflicts, applyObservedZone(spec, merged, oz)...)
	}

	if merged.TotalCards() != st.TotalCards() {
		// Applying a legal observation can never create or destroy cards;
		// if the totals drift the observation as a whole was impossible.
		conflicts = append(conflicts, Conflict{
			Type:     ConflictImpossible,
			Severity: SeverityError,
			Message: fmt.Sprintf("card population changed %d -> %d, observation rejected",
				st.TotalCards(), merged.TotalCards()),
		})
		return st.Clone(), conflicts
	}
	return merged, conflicts
}

func applyObservedZone(spec *gamespec.GameSpec, st *State, oz ObservedZone) []Conflict {
	var conflicts []Conflict
	handle, err := st.resolveZoneID(spec, oz.ZoneID)
	if err != nil {
		return []Conflict{{
			Type:     ConflictImpossible,
			Severity: SeverityError,
			ZoneID:   oz.ZoneID,
			Message:  err.Error(),
		}}
	}

	known := oz.Cards[:0:0]
	for _, id := range oz.Cards {
		if spec.Card(id) == nil {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictUnknownCard,
				Severity: SeverityError,
				ZoneID:   oz.ZoneID,
				CardID:   id,
				Message:  fmt.Sprintf("observed card %q not in spec", id),
			})
			continue
		}
		known = append(known, id)
	}

	before := append([]string(nil), *handle.cards...)
	if !equalStrings(before, known) {
		if len(before) != len(known) {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictCountMismatch,
				Severity: SeverityWarning,
				ZoneID:   oz.ZoneID,
				Message:  fmt.Sprintf("%d cards observed, %d in canon", len(known), len(before)),
			})
		}
		// Pull each observed card out of wherever canon has it, then lay the
		// zone out exactly as observed. Cards observed here but held
		// elsewhere in canon are moves worth flagging. The zone is cleared
		// first so presence checks only see the rest of the table.
		*handle.cards = nil
		for _, id := range known {
			if !contains(before, id) {
				conflicts = append(conflicts, Conflict{
					Type:     ConflictCardMoved,
					Severity: SeverityInfo,
					ZoneID:   oz.ZoneID,
					CardID:   id,
					Message:  fmt.Sprintf("card %q moved into %s", id, oz.ZoneID),
				})
			}
			removeCardEverywhere(spec, st, id)
		}
		for _, id := range before {
			if !contains(known, id) && !cardPresentAnywhere(st, id) {
				// Observed out of this zone but nowhere else: put it back in
				// canon's spot rather than lose it.
				conflicts = append(conflicts, Conflict{
					Type:     ConflictCardMoved,
					Severity: SeverityWarning,
					ZoneID:   oz.ZoneID,
					CardID:   id,
					Message:  fmt.Sprintf("card %q observed out of %s with no destination, kept", id, oz.ZoneID),
				})
				known = append(known, id)
			}
		}
		*handle.cards = known
	}

	if oz.Splay != nil && handle.splay != nil && *handle.splay != *oz.Splay {
		conflicts = append(conflicts, Conflict{
			Type:     ConflictSplayChanged,
			Severity: SeverityInfo,
			ZoneID:   oz.ZoneID,
			Message:  fmt.Sprintf("splay %s observed as %s", *handle.splay, *oz.Splay),
		})
		*handle.splay = *oz.Splay
	}
	return conflicts
}

func removeCardEverywhere(spec *gamespec.GameSpec, st *State, cardID string) {
	if st.Achievements.Remove(cardID) {
		return
	}
	for _, d := range st.Supply {
		if d.Remove(cardID) {
			return
		}
	}
	for _, p := range st.Players {
		if p.Hand.Remove(cardID) || p.ScorePile.Remove(cardID) || p.Achievements.Remove(cardID) {
			return
		}
		for _, color := range spec.Colors {
			if stk, ok := p.Board[color]; ok && stk.Remove(cardID) {
				return
			}
		}
	}
}

func cardPresentAnywhere(st *State, cardID string) bool {
	if st.Achievements.Contains(cardID) {
		return true
	}
	for _, d := range st.Supply {
		if d.Contains(cardID) {
			return true
		}
	}
	for _, p := range st.Players {
		if p.Hand.Contains(cardID) || p.ScorePile.Contains(cardID) || p.Achievements.Contains(cardID) {
			return true
		}
		for _, stk := range p.Board {
			if contains(stk.Cards, cardID) {
				return true
			}
		}
	}
	return false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
