package engine

import (
	"fmt"

	"splay-lite/gamespec"
)

// ActionKind discriminates the top-level actions a player can take.
type ActionKind byte

const (
	ActionDraw ActionKind = iota + 1
	ActionMeld
	ActionDogma
	ActionAchieve
	ActionPass
)

func (k ActionKind) String() string {
	switch k {
	case ActionDraw:
		return "draw"
	case ActionMeld:
		return "meld"
	case ActionDogma:
		return "dogma"
	case ActionAchieve:
		return "achieve"
	case ActionPass:
		return "pass"
	default:
		return "invalid_action"
	}
}

// ParseActionKind maps an action name back to its kind.
func ParseActionKind(s string) (ActionKind, bool) {
	switch s {
	case "draw":
		return ActionDraw, true
	case "meld":
		return ActionMeld, true
	case "dogma":
		return ActionDogma, true
	case "achieve":
		return ActionAchieve, true
	case "pass":
		return ActionPass, true
	default:
		return 0, false
	}
}

// Action is one fully-specified top-level move. CardID carries the payload
// for meld (hand card), dogma (top board card) and achieve (achievement).
type Action struct {
	Kind     ActionKind
	PlayerID string
	CardID   string
}

func (a Action) String() string {
	if a.CardID == "" {
		return fmt.Sprintf("%s:%s", a.PlayerID, a.Kind)
	}
	return fmt.Sprintf("%s:%s:%s", a.PlayerID, a.Kind, a.CardID)
}

// Generator enumerates legal actions. It is a pure projection of the state:
// it never mutates anything and its output order is deterministic. Draw comes
// first, then melds in hand order, dogmas in spec color order, achieves
// ascending by age, pass.
type Generator struct {
	spec *gamespec.GameSpec
}

func NewGenerator(spec *gamespec.GameSpec) *Generator {
	return &Generator{spec: spec}
}

// Legal returns every action the player may take right now. A finished game,
// someone else's turn or an exhausted action budget all yield an empty set.
func (g *Generator) Legal(st *State, playerID string) ([]Action, error) {
	if st.Ended() || st.Phase != PhasePlaying {
		return nil, nil
	}
	cur := st.CurrentPlayerState()
	if cur == nil || cur.ID != playerID || st.ActionsRemaining <= 0 {
		return nil, nil
	}

	var out []Action

	if def := g.spec.Action("draw"); def != nil {
		ok, err := g.precondition(def, st, playerID, nil)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, Action{Kind: ActionDraw, PlayerID: playerID})
		}
	}

	if def := g.spec.Action("meld"); def != nil {
		for _, id := range cur.Hand.Cards {
			ok, err := g.precondition(def, st, playerID, map[string]Value{"action_card": CardValue(id)})
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, Action{Kind: ActionMeld, PlayerID: playerID, CardID: id})
			}
		}
	}

	if def := g.spec.Action("dogma"); def != nil {
		for _, color := range g.spec.Colors {
			stack, ok := cur.Board[color]
			if !ok {
				continue
			}
			top, ok := stack.Top()
			if !ok {
				continue
			}
			cd := g.spec.Card(top)
			if cd == nil || len(cd.Dogmas) == 0 {
				continue
			}
			legal, err := g.precondition(def, st, playerID, map[string]Value{"action_card": CardValue(top)})
			if err != nil {
				return nil, err
			}
			if legal {
				out = append(out, Action{Kind: ActionDogma, PlayerID: playerID, CardID: top})
			}
		}
	}

	if g.spec.Action("achieve") != nil {
		eligible, err := achievableIn(g.spec, st, playerID)
		if err != nil {
			return nil, err
		}
		for _, id := range eligible {
			out = append(out, Action{Kind: ActionAchieve, PlayerID: playerID, CardID: id})
		}
	}

	if g.spec.Turn.CanPass {
		out = append(out, Action{Kind: ActionPass, PlayerID: playerID})
	}
	return out, nil
}

func (g *Generator) precondition(def *gamespec.ActionDef, st *State, playerID string, vars map[string]Value) (bool, error) {
	if def.Precondition == nil {
		return true, nil
	}
	if vars == nil {
		vars = map[string]Value{}
	}
	ctx := &EvalContext{Spec: g.spec, State: st, PlayerID: playerID, Vars: vars}
	return EvalBool(def.Precondition, ctx)
}

// IsLegal reports whether the action is in the player's legal set.
func (g *Generator) IsLegal(st *State, a Action) (bool, error) {
	legal, err := g.Legal(st, a.PlayerID)
	if err != nil {
		return false, err
	}
	for _, l := range legal {
		if l == a {
			return true, nil
		}
	}
	return false, nil
}
