package gamespec

import (
	"fmt"
	"strings"
)

// ValidationError reports every structural problem found in a spec at once,
// so authors fix a batch per run instead of one problem per run.
type ValidationError struct {
	SpecID   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("spec %q invalid: %s", e.SpecID, strings.Join(e.Problems, "; "))
}

type validator struct {
	spec     *GameSpec
	problems []string
}

func (v *validator) errf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

// Validate checks the spec's structural integrity: closed vocabularies, unique
// IDs, resolvable references and well-shaped effect programs. A spec that
// passes here can still lose games in interesting ways, but it cannot make the
// engine dereference a missing card or dispatch an unknown step kind.
func (s *GameSpec) Validate() error {
	v := &validator{spec: s}

	if s.ID == "" {
		v.errf("missing spec id")
	}
	if s.MinPlayers < 2 {
		v.errf("min_players %d below 2", s.MinPlayers)
	}
	if s.MaxPlayers < s.MinPlayers {
		v.errf("max_players %d below min_players %d", s.MaxPlayers, s.MinPlayers)
	}
	if len(s.Colors) == 0 {
		v.errf("no colors declared")
	}
	if len(s.Icons) == 0 {
		v.errf("no icons declared")
	}
	v.checkVocabUnique()
	v.checkZones()
	v.checkCards()
	v.checkActions()
	v.checkTurn()
	v.checkWinConditions()
	v.checkAchievementAges()

	if len(v.problems) > 0 {
		return &ValidationError{SpecID: s.ID, Problems: v.problems}
	}
	return nil
}

func (v *validator) checkVocabUnique() {
	seenC := map[Color]bool{}
	for _, c := range v.spec.Colors {
		if seenC[c] {
			v.errf("duplicate color %q", c)
		}
		seenC[c] = true
	}
	seenI := map[Icon]bool{}
	for _, ic := range v.spec.Icons {
		if ic == IconNone {
			v.errf("empty icon in vocabulary")
			continue
		}
		if seenI[ic] {
			v.errf("duplicate icon %q", ic)
		}
		seenI[ic] = true
	}
}

func (v *validator) checkZones() {
	seen := map[string]bool{}
	for _, z := range v.spec.Zones {
		if z.Name == "" {
			v.errf("zone with empty name")
			continue
		}
		if seen[z.Name] {
			v.errf("duplicate zone %q", z.Name)
		}
		seen[z.Name] = true
	}
}

func (v *validator) checkCards() {
	if len(v.spec.Cards) == 0 {
		v.errf("no cards declared")
		return
	}
	seen := map[string]bool{}
	for i := range v.spec.Cards {
		c := &v.spec.Cards[i]
		where := fmt.Sprintf("card %q", c.ID)
		if c.ID == "" {
			v.errf("card #%d has empty id", i)
			continue
		}
		if seen[c.ID] {
			v.errf("duplicate %s", where)
		}
		seen[c.ID] = true
		if c.Age < 1 {
			v.errf("%s: age %d below 1", where, c.Age)
		}
		if !v.spec.HasColor(c.Color) {
			v.errf("%s: color %q not in vocabulary", where, c.Color)
		}
		for slot, ic := range c.Icons {
			if ic != IconNone && !v.spec.HasIcon(ic) {
				v.errf("%s: icon %q in slot %s not in vocabulary", where, ic, IconSlot(slot))
			}
		}
		for j := range c.Dogmas {
			eff := &c.Dogmas[j]
			effWhere := fmt.Sprintf("%s effect %q", where, eff.ID)
			if eff.ID == "" {
				v.errf("%s: effect #%d has empty id", where, j)
			}
			if eff.TriggerIcon == IconNone || !v.spec.HasIcon(eff.TriggerIcon) {
				v.errf("%s: trigger icon %q not in vocabulary", effWhere, eff.TriggerIcon)
			}
			if len(eff.Steps) == 0 {
				v.errf("%s: no steps", effWhere)
			}
			v.checkSteps(effWhere, eff.Steps, false)
		}
	}
}

func (v *validator) checkSteps(where string, steps []Step, inDemand bool) {
	for i := range steps {
		st := &steps[i]
		sw := fmt.Sprintf("%s step %q", where, st.ID)
		if st.ID == "" {
			v.errf("%s: step #%d (%s) has empty id", where, i, st.Kind)
		}
		switch st.Kind {
		case StepDraw:
			// count/age optional, defaulted at runtime
		case StepMeld, StepTuck, StepReturn, StepScore:
			if st.Card == nil {
				v.errf("%s: %s without card expression", sw, st.Kind)
			}
		case StepTransfer:
			boardByColor := st.From == "board" && st.Color != nil
			if st.Card == nil && st.Select == SelectNone && !boardByColor {
				v.errf("%s: transfer needs a card expression, selection or board color", sw)
			}
			if st.From == "" || st.To == "" {
				v.errf("%s: transfer needs from and to zones", sw)
			}
		case StepSplay:
			if st.Color == nil {
				v.errf("%s: splay without color expression", sw)
			}
			if st.Direction == SplayNone {
				v.errf("%s: splay to none", sw)
			}
		case StepAchieve:
			// no parameters
		case StepChooseCard, StepChooseOption, StepChoosePlayer:
			v.checkChoice(sw, st)
		case StepConditional:
			if st.Cond == nil {
				v.errf("%s: conditional without condition", sw)
			}
			v.checkSteps(sw, st.Then, inDemand)
			v.checkSteps(sw, st.Else, inDemand)
		case StepForEach:
			if st.Over == nil {
				v.errf("%s: for_each without iteration set", sw)
			}
			if st.LoopVar == "" {
				v.errf("%s: for_each without loop variable", sw)
			}
			v.checkSteps(sw, st.Body, inDemand)
		case StepRepeat:
			if st.MaxIterations <= 0 {
				v.errf("%s: repeat without iteration bound", sw)
			}
			v.checkSteps(sw, st.Body, inDemand)
		case StepDemand:
			if inDemand {
				v.errf("%s: nested demand", sw)
			}
			if len(st.Body) == 0 {
				v.errf("%s: demand without body", sw)
			}
			v.checkSteps(sw, st.Body, true)
		case StepExecuteEffect:
			if st.EffectCard == nil {
				v.errf("%s: execute_effect without card expression", sw)
			}
			if st.EffectIndex < 0 {
				v.errf("%s: negative effect index", sw)
			}
		case StepSetVar:
			if st.Var == "" || st.Value == nil {
				v.errf("%s: set_var needs variable and value", sw)
			}
		default:
			v.errf("%s: unknown step kind %d", sw, st.Kind)
		}
	}
}

func (v *validator) checkChoice(where string, st *Step) {
	c := st.Choice
	if c == nil {
		v.errf("%s: choose step without choice spec", where)
		return
	}
	if c.Min < 0 || (c.Max != 0 && c.Max < c.Min) {
		v.errf("%s: bad choice bounds min=%d max=%d", where, c.Min, c.Max)
	}
	switch st.Kind {
	case StepChooseCard:
		if c.Kind != ChoiceCard {
			v.errf("%s: choose_card with %s choice spec", where, c.Kind)
		}
		switch c.Source {
		case "hand", "score_pile", "board":
		default:
			v.errf("%s: unknown card choice source %q", where, c.Source)
		}
	case StepChooseOption:
		if c.Kind != ChoiceOption {
			v.errf("%s: choose_option with %s choice spec", where, c.Kind)
		}
		if len(c.Options) == 0 {
			v.errf("%s: choose_option without options", where)
		}
	case StepChoosePlayer:
		if c.Kind != ChoicePlayer {
			v.errf("%s: choose_player with %s choice spec", where, c.Kind)
		}
		switch c.Source {
		case "opponents", "all_players":
		default:
			v.errf("%s: unknown player choice source %q", where, c.Source)
		}
	}
}

func (v *validator) checkActions() {
	seen := map[string]bool{}
	for _, a := range v.spec.Actions {
		if a.Name == "" {
			v.errf("action with empty name")
			continue
		}
		if seen[a.Name] {
			v.errf("duplicate action %q", a.Name)
		}
		seen[a.Name] = true
	}
}

func (v *validator) checkTurn() {
	if v.spec.Turn.ActionsPerTurn < 1 {
		v.errf("actions_per_turn %d below 1", v.spec.Turn.ActionsPerTurn)
	}
	if v.spec.Turn.FirstTurnActions < 1 {
		v.errf("first_turn_actions %d below 1", v.spec.Turn.FirstTurnActions)
	}
	if v.spec.Setup.OpeningHandSize < 0 {
		v.errf("opening_hand_size %d negative", v.spec.Setup.OpeningHandSize)
	}
	if v.spec.Setup.OpeningHandSize > 0 && v.spec.Setup.OpeningHandAge < 1 {
		v.errf("opening_hand_age %d below 1", v.spec.Setup.OpeningHandAge)
	}
}

func (v *validator) checkWinConditions() {
	if len(v.spec.WinConditions) == 0 {
		v.errf("no win conditions declared")
	}
	for i, w := range v.spec.WinConditions {
		if w.Kind == WinAchievementCount && w.Threshold <= 0 && len(w.ThresholdByPlayers) == 0 {
			v.errf("win condition #%d: achievement count without threshold", i)
		}
	}
}

func (v *validator) checkAchievementAges() {
	maxAge := v.spec.MaxAge()
	seen := map[int]bool{}
	last := 0
	for _, age := range v.spec.AchievementAges {
		if age < 1 || age > maxAge {
			v.errf("achievement age %d outside population ages", age)
		}
		if seen[age] {
			v.errf("duplicate achievement age %d", age)
		}
		if age < last {
			v.errf("achievement ages not ascending at %d", age)
		}
		seen[age] = true
		last = age
		if len(v.spec.CardsOfAge(age)) == 0 {
			v.errf("achievement age %d has no cards in population", age)
		}
	}
}
