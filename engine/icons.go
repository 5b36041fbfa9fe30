package engine

import (
	"splay-lite/gamespec"
)

// visibleSlots is the icon-position visibility contract for covered cards.
// The top card of a stack is always fully visible regardless of splay; a
// covered card exposes positions only through the stack's splay direction.
func visibleSlots(splay gamespec.SplayDirection) []gamespec.IconSlot {
	switch splay {
	case gamespec.SplayLeft:
		return []gamespec.IconSlot{gamespec.SlotTopLeft, gamespec.SlotBottomLeft}
	case gamespec.SplayRight:
		return []gamespec.IconSlot{gamespec.SlotBottomRight}
	case gamespec.SplayUp:
		return []gamespec.IconSlot{
			gamespec.SlotBottomLeft,
			gamespec.SlotBottomCenter,
			gamespec.SlotBottomRight,
		}
	default:
		return nil
	}
}

var allSlots = []gamespec.IconSlot{
	gamespec.SlotTopLeft,
	gamespec.SlotBottomLeft,
	gamespec.SlotBottomCenter,
	gamespec.SlotBottomRight,
}

// VisibleIcons returns the icons card position pos of an n-card stack exposes
// under the given splay. pos 0 is the bottom card, pos n-1 the top. Empty
// slots are omitted.
func VisibleIcons(def *gamespec.CardDef, pos, n int, splay gamespec.SplayDirection) []gamespec.Icon {
	slots := allSlots
	if pos != n-1 {
		slots = visibleSlots(splay)
	}
	var out []gamespec.Icon
	for _, slot := range slots {
		if ic := def.Icons.At(slot); ic != gamespec.IconNone {
			out = append(out, ic)
		}
	}
	return out
}

// CountVisibleIcons counts how many of the given icon the player exposes
// across the whole board, splay-aware, iterating in the spec's color order.
func CountVisibleIcons(spec *gamespec.GameSpec, p *PlayerState, icon gamespec.Icon) int {
	total := 0
	for _, color := range spec.Colors {
		st, ok := p.Board[color]
		if !ok {
			continue
		}
		n := len(st.Cards)
		for pos, id := range st.Cards {
			def := spec.Card(id)
			if def == nil {
				continue
			}
			for _, ic := range VisibleIcons(def, pos, n, st.Splay) {
				if ic == icon {
					total++
				}
			}
		}
	}
	return total
}

// HighestTopCardAge returns the highest age among the player's top board
// cards, 0 for an empty board.
func HighestTopCardAge(spec *gamespec.GameSpec, p *PlayerState) int {
	max := 0
	for _, id := range p.TopCards(spec.Colors) {
		if def := spec.Card(id); def != nil && def.Age > max {
			max = def.Age
		}
	}
	return max
}

// PlayerScore is the sum of the ages of the player's score pile.
func PlayerScore(spec *gamespec.GameSpec, p *PlayerState) int {
	score := 0
	for _, id := range p.ScorePile.Cards {
		if def := spec.Card(id); def != nil {
			score += def.Age
		}
	}
	return score
}
