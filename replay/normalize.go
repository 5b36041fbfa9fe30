package replay

import (
	"fmt"
	"strings"

	"splay-lite/engine"
)

type normalizedMove struct {
	action  engine.Action
	choices [][]string
}

type normalizedScript struct {
	gameID string
	seats  []engine.Seat
	heroID string
	moves  []normalizedMove
}

func normalizeScript(script GameScript) (normalizedScript, error) {
	var out normalizedScript
	out.gameID = script.GameID

	if len(script.Seats) < 2 {
		return out, &ReplayError{StepIndex: -1, Reason: "invalid_seats", Message: "at least 2 seats are required"}
	}
	seen := make(map[string]struct{}, len(script.Seats))
	heroCount := 0
	for i, seat := range script.Seats {
		id := strings.TrimSpace(seat.ID)
		if id == "" {
			return out, &ReplayError{StepIndex: -1, Reason: "invalid_seat",
				Message: fmt.Sprintf("seat %d has no id", i)}
		}
		if _, dup := seen[id]; dup {
			return out, &ReplayError{StepIndex: -1, Reason: "duplicate_seat",
				Message: fmt.Sprintf("duplicate seat id %q", id)}
		}
		seen[id] = struct{}{}
		name := strings.TrimSpace(seat.Name)
		if name == "" {
			name = id
		}
		if seat.IsHero {
			heroCount++
			out.heroID = id
		}
		out.seats = append(out.seats, engine.Seat{ID: id, Name: name, Human: seat.Human})
	}
	if heroCount > 1 {
		return out, &ReplayError{StepIndex: -1, Reason: "invalid_hero", Message: "multiple seats marked as hero"}
	}
	if heroCount == 0 {
		out.heroID = out.seats[0].ID
	}

	if len(script.Moves) == 0 {
		return out, &ReplayError{StepIndex: -1, Reason: "invalid_moves", Message: "script has no moves"}
	}
	for i, m := range script.Moves {
		if _, ok := seen[m.Player]; !ok {
			return out, &ReplayError{StepIndex: i, Reason: "unknown_player",
				Message: fmt.Sprintf("move player %q is not seated", m.Player)}
		}
		kind, ok := engine.ParseActionKind(m.Action)
		if !ok {
			return out, &ReplayError{StepIndex: i, Reason: "invalid_action",
				Message: fmt.Sprintf("unknown action %q", m.Action)}
		}
		out.moves = append(out.moves, normalizedMove{
			action:  engine.Action{Kind: kind, PlayerID: m.Player, CardID: m.Card},
			choices: m.Choices,
		})
	}
	return out, nil
}
