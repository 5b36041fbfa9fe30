package bot

import (
	"fmt"

	"splay-lite/engine"
	"splay-lite/gamespec"
)

// Driver seats one policy per player and plays them through a game. It owns
// the reducer loop: pick an action, apply it, answer every choice the action
// suspends on, repeat.
type Driver struct {
	spec     *gamespec.GameSpec
	reducer  *engine.Reducer
	policies map[string]Policy
}

// NewDriver creates a driver for the spec with a policy per player ID.
func NewDriver(spec *gamespec.GameSpec, policies map[string]Policy) *Driver {
	return &Driver{
		spec:     spec,
		reducer:  engine.NewReducer(spec),
		policies: policies,
	}
}

// choiceBound caps choice rounds within one action. A well-formed effect
// program asks a bounded number of questions; hitting this means a bug.
const choiceBound = 256

// Step plays one full action for the current player, including every choice
// raised along the way, and returns the next state. An action whose effect
// program fails is dropped from the legal set and the policy picks again;
// only a player with no workable action at all is an error.
func (d *Driver) Step(st *engine.State) (*engine.State, error) {
	current := st.CurrentPlayerState()
	pol, ok := d.policies[current.ID]
	if !ok {
		return nil, fmt.Errorf("no policy seated for player %s", current.ID)
	}
	legal, err := d.reducer.Generator().Legal(st, current.ID)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for len(legal) > 0 {
		action := pol.ChooseAction(d.spec, st, legal)
		next, err := d.tryAction(st, action)
		if err == nil {
			return next, nil
		}
		lastErr = fmt.Errorf("%s by %s: %w", action, pol.Name(), err)
		legal = withoutAction(legal, action)
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("player %s has no legal actions", current.ID)
}

func (d *Driver) tryAction(st *engine.State, action engine.Action) (*engine.State, error) {
	out, err := d.reducer.Apply(st, action)
	if err != nil {
		return nil, err
	}
	for rounds := 0; out.Pending != nil; rounds++ {
		if rounds >= choiceBound {
			return nil, fmt.Errorf("%d choice rounds without completing", rounds)
		}
		pc := out.Pending.Choice()
		chooser, ok := d.policies[pc.PlayerID]
		if !ok {
			return nil, fmt.Errorf("no policy seated for chooser %s", pc.PlayerID)
		}
		picks := chooser.AnswerChoice(d.spec, st, pc)
		out, err = d.reducer.Resume(out.Pending, pc.ChoiceID, picks)
		if err != nil {
			return nil, fmt.Errorf("%s answering %s: %w", chooser.Name(), pc.ChoiceID, err)
		}
	}
	return out.State, nil
}

func withoutAction(legal []engine.Action, drop engine.Action) []engine.Action {
	out := legal[:0:0]
	for _, a := range legal {
		if a != drop {
			out = append(out, a)
		}
	}
	return out
}

// Play steps the game until it ends or maxActions is reached.
func (d *Driver) Play(st *engine.State, maxActions int) (*engine.State, error) {
	for i := 0; i < maxActions && !st.Ended(); i++ {
		next, err := d.Step(st)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		st = next
	}
	return st, nil
}
