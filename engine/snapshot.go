package engine

import (
	"splay-lite/gamespec"
)

// StackSnapshot is one board stack, bottom to top.
type StackSnapshot struct {
	Color string   `json:"color"`
	Cards []string `json:"cards"`
	Splay string   `json:"splay"`
}

// PlayerSnapshot is one seat as seen by a particular viewer. Zones the spec
// declares hidden are redacted to a count for everyone but their owner; the
// score total stays public.
type PlayerSnapshot struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Human          bool            `json:"human"`
	HandCount      int             `json:"hand_count"`
	Hand           []string        `json:"hand,omitempty"`
	Score          int             `json:"score"`
	ScorePileCount int             `json:"score_pile_count"`
	ScorePile      []string        `json:"score_pile,omitempty"`
	Achievements   []string        `json:"achievements"`
	Board          []StackSnapshot `json:"board"`
}

// Snapshot is a point-in-time view of a game for one viewer. An empty viewer
// ID produces the omniscient view used by replays and archives.
type Snapshot struct {
	GameID           string           `json:"game_id"`
	SpecID           string           `json:"spec_id"`
	Phase            string           `json:"phase"`
	Turn             int              `json:"turn"`
	CurrentPlayer    string           `json:"current_player"`
	ActionsRemaining int              `json:"actions_remaining"`
	Ended            bool             `json:"ended"`
	Winner           string           `json:"winner,omitempty"`
	WinReason        string           `json:"win_reason,omitempty"`
	Players          []PlayerSnapshot `json:"players"`
	SupplyCounts     map[int]int      `json:"supply_counts"`
	Achievements     []string         `json:"achievements"`
}

// TakeSnapshot renders the state for a viewer. The snapshot shares no memory
// with the state.
func TakeSnapshot(spec *gamespec.GameSpec, st *State, viewerID string) Snapshot {
	s := Snapshot{
		GameID:           st.GameID,
		SpecID:           st.SpecID,
		Phase:            st.Phase.String(),
		Turn:             st.Turn,
		ActionsRemaining: st.ActionsRemaining,
		Ended:            st.Ended(),
		SupplyCounts:     make(map[int]int, len(st.Supply)),
		Achievements:     append([]string{}, st.Achievements.Cards...),
	}
	if cur := st.CurrentPlayerState(); cur != nil {
		s.CurrentPlayer = cur.ID
	}
	if st.Result != nil {
		s.Winner = st.Result.WinnerID
		s.WinReason = st.Result.Reason
	}
	for age, deck := range st.Supply {
		s.SupplyCounts[age] = deck.Count()
	}
	handHidden := spec.ZoneHidden("hand")
	scoreHidden := spec.ZoneHidden("score_pile")
	for _, p := range st.Players {
		ps := PlayerSnapshot{
			ID:             p.ID,
			Name:           p.Name,
			Human:          p.Human,
			HandCount:      p.Hand.Count(),
			Score:          PlayerScore(spec, p),
			ScorePileCount: p.ScorePile.Count(),
			Achievements:   append([]string{}, p.Achievements.Cards...),
		}
		owned := viewerID == "" || viewerID == p.ID
		if owned || !handHidden {
			ps.Hand = append([]string{}, p.Hand.Cards...)
		}
		if owned || !scoreHidden {
			ps.ScorePile = append([]string{}, p.ScorePile.Cards...)
		}
		for _, color := range spec.Colors {
			stk, ok := p.Board[color]
			if !ok || stk.Empty() {
				continue
			}
			ps.Board = append(ps.Board, StackSnapshot{
				Color: string(color),
				Cards: append([]string{}, stk.Cards...),
				Splay: stk.Splay.String(),
			})
		}
		s.Players = append(s.Players, ps)
	}
	return s
}
