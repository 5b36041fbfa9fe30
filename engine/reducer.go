package engine

import (
	"fmt"

	"splay-lite/gamespec"
)

// PendingAction is a suspended action: the private state clone and the
// interpreter run waiting on a choice. The canonical state it was applied to
// stays untouched until the run completes.
type PendingAction struct {
	action Action
	run    *Run
}

// Action returns the action that suspended.
func (p *PendingAction) Action() Action { return p.action }

// Choice returns the choice the run is waiting on.
func (p *PendingAction) Choice() *PendingChoice { return p.run.Pending() }

// Outcome is the result of applying or resuming an action. Exactly one of
// two shapes: State set with Pending nil (the action completed and State is
// the new canonical state), or Pending set with State nil (the action
// suspended on Pending.Choice()).
type Outcome struct {
	State   *State
	Pending *PendingAction
}

// Reducer applies validated actions to states. Application is atomic: the
// input state is never mutated, and a failing effect program discards its
// clone entirely, so there are no partial applications.
type Reducer struct {
	spec *gamespec.GameSpec
	gen  *Generator
}

func NewReducer(spec *gamespec.GameSpec) *Reducer {
	return &Reducer{spec: spec, gen: NewGenerator(spec)}
}

// Generator exposes the reducer's legal-action projection.
func (r *Reducer) Generator() *Generator { return r.gen }

// Apply validates the action against the legal set and executes its effect
// program on a clone of the state.
func (r *Reducer) Apply(st *State, a Action) (*Outcome, error) {
	if st.Ended() {
		return nil, ErrTerminalState
	}
	legal, err := r.gen.IsLegal(st, a)
	if err != nil {
		return nil, err
	}
	if !legal {
		return nil, &IllegalActionError{PlayerID: a.PlayerID, Action: a.String(), Detail: "not in legal set"}
	}

	clone := st.Clone()

	if a.Kind == ActionPass {
		clone.ActionsRemaining = 0
		r.advanceTurn(clone)
		return &Outcome{State: clone}, nil
	}

	units, err := r.planUnits(clone, a)
	if err != nil {
		return nil, err
	}
	run := newRun(r.spec, clone, units, a.PlayerID, a.CardID)
	run.resume()
	return r.settle(&PendingAction{action: a, run: run})
}

// Resume answers a pending action's choice. An illegal answer leaves the
// pending action intact so the chooser can retry; any other failure discards
// the whole action.
func (r *Reducer) Resume(p *PendingAction, choiceID string, picks []string) (*Outcome, error) {
	if p == nil || p.run == nil {
		return nil, ErrNoChoicePending
	}
	if err := p.run.Provide(choiceID, picks); err != nil {
		return nil, err
	}
	return r.settle(p)
}

func (r *Reducer) settle(p *PendingAction) (*Outcome, error) {
	switch p.run.Status() {
	case RunAwaitingChoice:
		return &Outcome{Pending: p}, nil
	case RunCompleted:
		st := p.run.State()
		if !st.Ended() {
			r.checkAchievementWin(st)
		}
		if !st.Ended() {
			r.advanceTurn(st)
		}
		return &Outcome{State: st}, nil
	case RunFailed:
		return nil, p.run.Err()
	default:
		return nil, fmt.Errorf("run in unexpected status %s", p.run.Status())
	}
}

// planUnits expands an action into the scheduled effect executions. Dogma
// activation applies icon sharing: every opponent with at least as many
// visible trigger icons executes a non-demand effect before the activator.
func (r *Reducer) planUnits(st *State, a Action) ([]execUnit, error) {
	switch a.Kind {
	case ActionDraw:
		return []execUnit{{
			effect: &gamespec.Effect{
				ID:   "action_draw",
				Kind: gamespec.EffectAction,
				Steps: []gamespec.Step{
					{Kind: gamespec.StepDraw, ID: "action_draw"},
				},
			},
			playerID: a.PlayerID,
		}}, nil
	case ActionMeld:
		return []execUnit{{
			effect: &gamespec.Effect{
				ID:   "action_meld",
				Kind: gamespec.EffectAction,
				Steps: []gamespec.Step{
					gamespec.MeldStep("action_meld", gamespec.Prop("source_card")),
				},
			},
			playerID: a.PlayerID,
		}}, nil
	case ActionAchieve:
		return []execUnit{{
			effect: &gamespec.Effect{
				ID:   "action_achieve",
				Kind: gamespec.EffectAction,
				Steps: []gamespec.Step{
					{Kind: gamespec.StepAchieve, ID: "action_achieve", Card: gamespec.Prop("source_card")},
				},
			},
			playerID: a.PlayerID,
		}}, nil
	case ActionDogma:
		return r.planDogma(st, a)
	default:
		return nil, &IllegalActionError{PlayerID: a.PlayerID, Action: a.String(), Detail: "no effect program"}
	}
}

func (r *Reducer) planDogma(st *State, a Action) ([]execUnit, error) {
	def := r.spec.Card(a.CardID)
	if def == nil {
		return nil, &UnresolvedRefError{Kind: "card", Ref: a.CardID}
	}
	executor := st.Player(a.PlayerID)
	if executor == nil {
		return nil, &UnresolvedRefError{Kind: "player", Ref: a.PlayerID}
	}

	var units []execUnit
	for i := range def.Dogmas {
		eff := &def.Dogmas[i]
		if eff.IsDemand() {
			units = append(units, execUnit{effect: eff, playerID: a.PlayerID})
			continue
		}
		mine := CountVisibleIcons(r.spec, executor, eff.TriggerIcon)
		for _, opp := range st.OpponentsOf(a.PlayerID) {
			if CountVisibleIcons(r.spec, opp, eff.TriggerIcon) >= mine {
				units = append(units, execUnit{effect: eff, playerID: opp.ID, shared: true})
			}
		}
		units = append(units, execUnit{effect: eff, playerID: a.PlayerID})
	}
	return units, nil
}

func (r *Reducer) advanceTurn(st *State) {
	st.ActionsRemaining--
	if st.ActionsRemaining > 0 {
		return
	}
	st.CurrentPlayer = (st.CurrentPlayer + 1) % len(st.Players)
	st.Turn++
	st.ActionsRemaining = r.spec.Turn.ActionsPerTurn
}

func (r *Reducer) checkAchievementWin(st *State) {
	for _, w := range r.spec.WinConditions {
		if w.Kind != gamespec.WinAchievementCount {
			continue
		}
		need := w.ThresholdFor(len(st.Players))
		if need <= 0 {
			continue
		}
		for _, p := range st.Players {
			if p.Achievements.Count() >= need {
				st.Result = &GameResult{WinnerID: p.ID, Reason: "achievements"}
				st.Phase = PhaseGameOver
				return
			}
		}
	}
}
