package engine

import (
	"splay-lite/gamespec"
)

// GamePhase is the coarse lifecycle of a game.
type GamePhase byte

const (
	PhaseSetup GamePhase = iota
	PhasePlaying
	PhaseGameOver
)

func (p GamePhase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game_over"
	default:
		return "invalid_phase"
	}
}

// Zone is an ordered pile of card IDs. For supply decks index 0 is the top of
// the deck; for board stacks the dedicated Stack type is used instead.
type Zone struct {
	Name  string
	Cards []string
}

func (z *Zone) Count() int  { return len(z.Cards) }
func (z *Zone) Empty() bool { return len(z.Cards) == 0 }

// Contains reports whether the zone holds the card.
func (z *Zone) Contains(cardID string) bool {
	for _, id := range z.Cards {
		if id == cardID {
			return true
		}
	}
	return false
}

// Add appends the card to the zone.
func (z *Zone) Add(cardID string) {
	z.Cards = append(z.Cards, cardID)
}

// AddBottom appends to the end, which for supply decks is the deck bottom.
func (z *Zone) AddBottom(cardID string) {
	z.Cards = append(z.Cards, cardID)
}

// RemoveTop removes and returns the first card, false when empty.
func (z *Zone) RemoveTop() (string, bool) {
	if len(z.Cards) == 0 {
		return "", false
	}
	id := z.Cards[0]
	z.Cards = z.Cards[1:]
	return id, true
}

// Remove deletes the first occurrence of the card, preserving order. Returns
// false when the card is not in the zone.
func (z *Zone) Remove(cardID string) bool {
	for i, id := range z.Cards {
		if id == cardID {
			z.Cards = append(z.Cards[:i], z.Cards[i+1:]...)
			return true
		}
	}
	return false
}

func (z *Zone) clone() Zone {
	out := Zone{Name: z.Name}
	if z.Cards != nil {
		out.Cards = append([]string(nil), z.Cards...)
	}
	return out
}

// Stack is one color pile on a player's board. Index 0 is the bottom card and
// the last element is the top, fully visible card.
type Stack struct {
	Cards []string
	Splay gamespec.SplayDirection
}

func (s *Stack) Count() int  { return len(s.Cards) }
func (s *Stack) Empty() bool { return len(s.Cards) == 0 }

// Top returns the top card, false when the stack is empty.
func (s *Stack) Top() (string, bool) {
	if len(s.Cards) == 0 {
		return "", false
	}
	return s.Cards[len(s.Cards)-1], true
}

// Meld puts the card on top. Melding never changes the stack's splay.
func (s *Stack) Meld(cardID string) {
	s.Cards = append(s.Cards, cardID)
}

// Tuck puts the card at the bottom.
func (s *Stack) Tuck(cardID string) {
	s.Cards = append([]string{cardID}, s.Cards...)
}

// Remove deletes the card from the stack, preserving order. A stack reduced
// to fewer than two cards loses its splay.
func (s *Stack) Remove(cardID string) bool {
	for i, id := range s.Cards {
		if id == cardID {
			s.Cards = append(s.Cards[:i], s.Cards[i+1:]...)
			if len(s.Cards) < 2 {
				s.Splay = gamespec.SplayNone
			}
			return true
		}
	}
	return false
}

func (s *Stack) clone() *Stack {
	out := &Stack{Splay: s.Splay}
	if s.Cards != nil {
		out.Cards = append([]string(nil), s.Cards...)
	}
	return out
}

// PlayerState is everything one seat owns.
type PlayerState struct {
	ID    string
	Name  string
	Human bool

	Hand         Zone
	ScorePile    Zone
	Achievements Zone

	// Board maps color to stack. Iterate via the spec's color order, never
	// over this map, to keep enumeration deterministic.
	Board map[gamespec.Color]*Stack
}

// BoardStack returns the stack for a color, creating it on first use.
func (p *PlayerState) BoardStack(color gamespec.Color) *Stack {
	st, ok := p.Board[color]
	if !ok {
		st = &Stack{}
		p.Board[color] = st
	}
	return st
}

// TopCards returns the top card of every non-empty stack in the given color
// order.
func (p *PlayerState) TopCards(colors []gamespec.Color) []string {
	var out []string
	for _, c := range colors {
		if st, ok := p.Board[c]; ok {
			if top, ok := st.Top(); ok {
				out = append(out, top)
			}
		}
	}
	return out
}

func (p *PlayerState) clone() *PlayerState {
	out := &PlayerState{
		ID:           p.ID,
		Name:         p.Name,
		Human:        p.Human,
		Hand:         p.Hand.clone(),
		ScorePile:    p.ScorePile.clone(),
		Achievements: p.Achievements.clone(),
		Board:        make(map[gamespec.Color]*Stack, len(p.Board)),
	}
	for c, st := range p.Board {
		out.Board[c] = st.clone()
	}
	return out
}

// GameResult records how a finished game ended.
type GameResult struct {
	WinnerID string
	Reason   string // "achievements" or "deck_exhausted"
}

// State is the canonical game state. It is a plain value tree: Clone produces
// a fully independent copy, which is how the reducer gets atomicity: mutate
// the clone, publish it only on success.
type State struct {
	GameID string
	SpecID string

	Phase            GamePhase
	Turn             int
	CurrentPlayer    int
	ActionsRemaining int

	Players []*PlayerState

	// Supply maps age to its deck. Index 0 of each deck is the top card.
	Supply map[int]*Zone

	// Achievements holds the claimable shared achievements.
	Achievements Zone

	Seed   int64
	Result *GameResult
}

// Player returns the seat with the given ID, nil when absent.
func (s *State) Player(id string) *PlayerState {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentPlayerState returns the seat whose turn it is.
func (s *State) CurrentPlayerState() *PlayerState {
	if s.CurrentPlayer < 0 || s.CurrentPlayer >= len(s.Players) {
		return nil
	}
	return s.Players[s.CurrentPlayer]
}

// SeatIndex returns the seat position of a player, -1 when absent.
func (s *State) SeatIndex(id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// OpponentsOf lists the other seats in order starting left of the player.
func (s *State) OpponentsOf(id string) []*PlayerState {
	idx := s.SeatIndex(id)
	if idx < 0 {
		return nil
	}
	out := make([]*PlayerState, 0, len(s.Players)-1)
	for off := 1; off < len(s.Players); off++ {
		out = append(out, s.Players[(idx+off)%len(s.Players)])
	}
	return out
}

// Ended reports whether the game has a result.
func (s *State) Ended() bool { return s.Result != nil }

// SupplyDeck returns the deck for an age, creating an empty one on first use.
func (s *State) SupplyDeck(age int) *Zone {
	d, ok := s.Supply[age]
	if !ok {
		d = &Zone{Name: deckZoneName(age)}
		s.Supply[age] = d
	}
	return d
}

// TotalCards counts every card ID in every zone, the conserved quantity.
func (s *State) TotalCards() int {
	n := len(s.Achievements.Cards)
	for _, d := range s.Supply {
		n += len(d.Cards)
	}
	for _, p := range s.Players {
		n += len(p.Hand.Cards) + len(p.ScorePile.Cards) + len(p.Achievements.Cards)
		for _, st := range p.Board {
			n += len(st.Cards)
		}
	}
	return n
}

// Clone deep-copies the state. The copy shares nothing with the original.
func (s *State) Clone() *State {
	out := &State{
		GameID:           s.GameID,
		SpecID:           s.SpecID,
		Phase:            s.Phase,
		Turn:             s.Turn,
		CurrentPlayer:    s.CurrentPlayer,
		ActionsRemaining: s.ActionsRemaining,
		Players:          make([]*PlayerState, len(s.Players)),
		Supply:           make(map[int]*Zone, len(s.Supply)),
		Achievements:     s.Achievements.clone(),
		Seed:             s.Seed,
	}
	for i, p := range s.Players {
		out.Players[i] = p.clone()
	}
	for age, d := range s.Supply {
		c := d.clone()
		out.Supply[age] = &c
	}
	if s.Result != nil {
		r := *s.Result
		out.Result = &r
	}
	return out
}
