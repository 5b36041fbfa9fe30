package engine

import (
	"fmt"
	"strings"

	"splay-lite/gamespec"
)

// RunStatus is the lifecycle of one effect-program execution.
type RunStatus byte

const (
	RunRunning RunStatus = iota
	RunAwaitingChoice
	RunCompleted
	RunFailed
)

func (s RunStatus) String() string {
	switch s {
	case RunRunning:
		return "running"
	case RunAwaitingChoice:
		return "awaiting_choice"
	case RunCompleted:
		return "completed"
	case RunFailed:
		return "failed"
	default:
		return "invalid_status"
	}
}

// PendingChoice is the suspension point of a run: who must decide, what kind
// of decision it is, and the exact options they may pick from. Options are
// enumerated by the engine; answers outside them are rejected.
type PendingChoice struct {
	ChoiceID string
	PlayerID string
	Kind     gamespec.ChoiceKind
	Prompt   string
	Options  []string
	Min, Max int
	Optional bool
}

// execUnit is one (effect, player) execution scheduled within a run. Dogma
// sharing expands a single activation into several units.
type execUnit struct {
	effect   *gamespec.Effect
	playerID string
	shared   bool // executed by a non-activating player via icon sharing
}

type frame struct {
	steps    []gamespec.Step
	idx      int
	playerID string
	vars     map[string]Value

	// bindOnEnter is applied when the frame first executes, which keeps
	// per-iteration loop bindings correct under suspension.
	bindOnEnter map[string]Value
	entered     bool

	// repeat, when set, rewinds the frame until the body sets "_break" or
	// the iteration budget runs out.
	repeatRemaining int
	repeating       bool
}

// Run executes a scheduled list of effect programs against a private state
// clone. It either runs to completion, suspends on a PendingChoice, or fails;
// a failed run's state must be discarded by the caller.
type Run struct {
	spec         *gamespec.GameSpec
	state        *State
	units        []execUnit
	unitIdx      int
	frames       []*frame
	executorID   string
	sourceCardID string

	pending     *PendingChoice
	pendingBind string
	pendingMax  int
	pendingFrm  *frame

	status    RunStatus
	err       error
	choiceSeq int

	anyShared  bool
	bonusDrawn bool
}

func newRun(spec *gamespec.GameSpec, state *State, units []execUnit, executorID, sourceCardID string) *Run {
	r := &Run{
		spec:         spec,
		state:        state,
		units:        units,
		executorID:   executorID,
		sourceCardID: sourceCardID,
		status:       RunRunning,
	}
	for _, u := range units {
		if u.shared {
			r.anyShared = true
		}
	}
	return r
}

func (r *Run) Status() RunStatus       { return r.status }
func (r *Run) Err() error              { return r.err }
func (r *Run) State() *State           { return r.state }
func (r *Run) Pending() *PendingChoice { return r.pending }

func (r *Run) fail(err error) {
	r.status = RunFailed
	r.err = err
}

func (r *Run) ctx(f *frame) *EvalContext {
	return &EvalContext{
		Spec:         r.spec,
		State:        r.state,
		PlayerID:     f.playerID,
		SourceCardID: r.sourceCardID,
		Vars:         f.vars,
	}
}

// resume drives the run until it suspends, completes or fails.
func (r *Run) resume() {
	for r.status == RunRunning {
		if r.state.Ended() {
			r.status = RunCompleted
			return
		}
		f := r.top()
		if f == nil {
			if r.unitIdx < len(r.units) {
				r.startUnit()
				continue
			}
			if r.anyShared && !r.bonusDrawn {
				// Sharing bonus: the activating player draws once after
				// everyone has executed.
				r.bonusDrawn = true
				if err := r.drawCards(r.executorID, 1, 0, nil); err != nil {
					r.fail(err)
					return
				}
				continue
			}
			r.status = RunCompleted
			return
		}
		if !f.entered {
			f.entered = true
			for k, v := range f.bindOnEnter {
				f.vars[k] = v
			}
		}
		if f.idx >= len(f.steps) {
			if f.repeating && f.repeatRemaining > 0 {
				if brk, ok := f.vars["_break"]; ok && brk.Kind == ValBool && brk.Bool {
					r.pop()
					continue
				}
				f.repeatRemaining--
				f.idx = 0
				continue
			}
			r.pop()
			continue
		}
		st := &f.steps[f.idx]
		f.idx++
		if err := r.execStep(f, st); err != nil {
			r.fail(err)
			return
		}
	}
}

func (r *Run) top() *frame {
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

func (r *Run) push(f *frame) { r.frames = append(r.frames, f) }
func (r *Run) pop()          { r.frames = r.frames[:len(r.frames)-1] }

func (r *Run) startUnit() {
	u := r.units[r.unitIdx]
	r.unitIdx++
	vars := map[string]Value{
		"activating_player": PlayerValue(r.executorID),
	}
	r.push(&frame{
		steps:    u.effect.Steps,
		playerID: u.playerID,
		vars:     vars,
	})
}

func (r *Run) execStep(f *frame, st *gamespec.Step) error {
	switch st.Kind {
	case gamespec.StepDraw:
		return r.execDraw(f, st)
	case gamespec.StepMeld:
		return r.execMeld(f, st, false)
	case gamespec.StepTuck:
		return r.execMeld(f, st, true)
	case gamespec.StepReturn:
		return r.execReturn(f, st)
	case gamespec.StepScore:
		return r.execScore(f, st)
	case gamespec.StepTransfer:
		return r.execTransfer(f, st)
	case gamespec.StepSplay:
		return r.execSplay(f, st)
	case gamespec.StepAchieve:
		return r.execAchieve(f, st)
	case gamespec.StepChooseCard, gamespec.StepChooseOption, gamespec.StepChoosePlayer:
		return r.suspend(f, st)
	case gamespec.StepConditional:
		ok, err := EvalBool(st.Cond, r.ctx(f))
		if err != nil {
			return err
		}
		body := st.Then
		if !ok {
			body = st.Else
		}
		if len(body) > 0 {
			r.push(&frame{steps: body, playerID: f.playerID, vars: f.vars, entered: true})
		}
		return nil
	case gamespec.StepForEach:
		return r.execForEach(f, st)
	case gamespec.StepRepeat:
		f.vars["_break"] = BoolValue(false)
		r.push(&frame{
			steps:           st.Body,
			playerID:        f.playerID,
			vars:            f.vars,
			entered:         true,
			repeating:       true,
			repeatRemaining: st.MaxIterations - 1,
		})
		return nil
	case gamespec.StepDemand:
		return r.execDemand(f, st)
	case gamespec.StepExecuteEffect:
		return r.execExecuteEffect(f, st)
	case gamespec.StepSetVar:
		v, err := Eval(st.Value, r.ctx(f))
		if err != nil {
			return err
		}
		f.vars[st.Var] = v
		return nil
	default:
		return fmt.Errorf("step %q: unknown kind %d", st.ID, st.Kind)
	}
}

// drawAge resolves the requested draw age: an explicit expression wins,
// otherwise the player's highest top board card age, minimum 1.
func (r *Run) drawAge(f *frame, st *gamespec.Step) (int, error) {
	if st.Age != nil {
		return EvalInt(st.Age, r.ctx(f))
	}
	p := r.state.Player(f.playerID)
	if p == nil {
		return 0, &UnresolvedRefError{Kind: "player", Ref: f.playerID}
	}
	age := HighestTopCardAge(r.spec, p)
	if age < 1 {
		age = 1
	}
	return age, nil
}

func (r *Run) execDraw(f *frame, st *gamespec.Step) error {
	count := 1
	if st.Count != nil {
		var err error
		count, err = EvalInt(st.Count, r.ctx(f))
		if err != nil {
			return err
		}
	}
	age, err := r.drawAge(f, st)
	if err != nil {
		return err
	}
	return r.drawCards(f.playerID, count, age, f.vars)
}

// drawCards draws into the player's hand, escalating to the next non-empty
// deck. Escalating past the highest deck ends the game on the spot: the
// highest score wins and the run completes with whatever already happened.
func (r *Run) drawCards(playerID string, count, age int, vars map[string]Value) error {
	p := r.state.Player(playerID)
	if p == nil {
		return &UnresolvedRefError{Kind: "player", Ref: playerID}
	}
	if age < 1 {
		age = HighestTopCardAge(r.spec, p)
		if age < 1 {
			age = 1
		}
	}
	maxAge := r.spec.MaxAge()
	for i := 0; i < count; i++ {
		drawn := ""
		for a := age; a <= maxAge; a++ {
			deck, ok := r.state.Supply[a]
			if !ok || deck.Empty() {
				continue
			}
			drawn, _ = deck.RemoveTop()
			break
		}
		if drawn == "" {
			r.endByDeckExhaustion()
			return nil
		}
		p.Hand.Add(drawn)
		if vars != nil {
			vars["drawn_card"] = CardValue(drawn)
		}
	}
	return nil
}

func (r *Run) endByDeckExhaustion() {
	winner := ""
	best := -1
	for _, p := range r.state.Players {
		score := PlayerScore(r.spec, p)
		if score > best {
			best = score
			winner = p.ID
		}
	}
	r.state.Result = &GameResult{WinnerID: winner, Reason: "deck_exhausted"}
	r.state.Phase = PhaseGameOver
}

// removeFromPlayer takes the card out of whichever of the player's zones
// holds it: hand first, then score pile, then board stacks.
func (r *Run) removeFromPlayer(p *PlayerState, cardID string) bool {
	if p.Hand.Remove(cardID) {
		return true
	}
	if p.ScorePile.Remove(cardID) {
		return true
	}
	for _, color := range r.spec.Colors {
		if st, ok := p.Board[color]; ok && st.Remove(cardID) {
			return true
		}
	}
	return false
}

func (r *Run) execMeld(f *frame, st *gamespec.Step, tuck bool) error {
	id, err := EvalCard(st.Card, r.ctx(f))
	if err != nil {
		return err
	}
	def := r.spec.Card(id)
	if def == nil {
		return &UnresolvedRefError{Kind: "card", Ref: id}
	}
	p := r.state.Player(f.playerID)
	if p == nil {
		return &UnresolvedRefError{Kind: "player", Ref: f.playerID}
	}
	if !r.removeFromPlayer(p, id) {
		return fmt.Errorf("step %q: card %q not held by %s", st.ID, id, f.playerID)
	}
	stack := p.BoardStack(def.Color)
	if tuck {
		stack.Tuck(id)
		f.vars["tucked_card"] = CardValue(id)
	} else {
		stack.Meld(id)
		f.vars["melded_card"] = CardValue(id)
	}
	return nil
}

func (r *Run) execReturn(f *frame, st *gamespec.Step) error {
	id, err := EvalCard(st.Card, r.ctx(f))
	if err != nil {
		return err
	}
	def := r.spec.Card(id)
	if def == nil {
		return &UnresolvedRefError{Kind: "card", Ref: id}
	}
	p := r.state.Player(f.playerID)
	if p == nil {
		return &UnresolvedRefError{Kind: "player", Ref: f.playerID}
	}
	if !r.removeFromPlayer(p, id) {
		return fmt.Errorf("step %q: card %q not held by %s", st.ID, id, f.playerID)
	}
	r.state.SupplyDeck(def.Age).AddBottom(id)
	f.vars["returned_card"] = CardValue(id)
	return nil
}

func (r *Run) execScore(f *frame, st *gamespec.Step) error {
	id, err := EvalCard(st.Card, r.ctx(f))
	if err != nil {
		return err
	}
	p := r.state.Player(f.playerID)
	if p == nil {
		return &UnresolvedRefError{Kind: "player", Ref: f.playerID}
	}
	if !r.removeFromPlayer(p, id) {
		return fmt.Errorf("step %q: card %q not held by %s", st.ID, id, f.playerID)
	}
	p.ScorePile.Add(id)
	return nil
}

// transferZone resolves a transfer endpoint in the context of the frame
// player. Plain names ("hand", "score_pile", "board", "supply") address the
// frame player; "<var>_hand" style names address the player bound to the
// named frame variable, so "demanding_player_hand" reaches the demander and
// "chosen_player_board" reaches a chosen recipient.
func (r *Run) transferZone(f *frame, name string, cardDef *gamespec.CardDef) (add func(string), remove func(string) bool, err error) {
	owner := f.playerID
	zone := name
	for _, suffix := range []string{"_hand", "_score_pile", "_board"} {
		root, ok := strings.CutSuffix(name, suffix)
		if !ok || root == "" {
			continue
		}
		pv, bound := f.vars[root]
		if !bound || pv.Kind != ValPlayer {
			return nil, nil, &UnresolvedRefError{Kind: "player", Ref: name}
		}
		owner = pv.Players[0]
		zone = suffix[1:]
		break
	}
	p := r.state.Player(owner)
	if p == nil {
		return nil, nil, &UnresolvedRefError{Kind: "player", Ref: owner}
	}
	switch zone {
	case "hand":
		return p.Hand.Add, p.Hand.Remove, nil
	case "score_pile":
		return p.ScorePile.Add, p.ScorePile.Remove, nil
	case "board":
		if cardDef == nil {
			return nil, nil, &UnresolvedRefError{Kind: "zone", Ref: name}
		}
		stack := p.BoardStack(cardDef.Color)
		return stack.Meld, stack.Remove, nil
	case "supply":
		if cardDef == nil {
			return nil, nil, &UnresolvedRefError{Kind: "zone", Ref: name}
		}
		deck := r.state.SupplyDeck(cardDef.Age)
		return deck.AddBottom, deck.Remove, nil
	default:
		return nil, nil, &UnresolvedRefError{Kind: "zone", Ref: name}
	}
}

// pickFromZone applies a rule-driven selection to the frame player's zone.
func (r *Run) pickFromZone(f *frame, zone string, sel gamespec.Selection) (string, bool, error) {
	p := r.state.Player(f.playerID)
	if p == nil {
		return "", false, &UnresolvedRefError{Kind: "player", Ref: f.playerID}
	}
	var pool []string
	switch zone {
	case "hand":
		pool = p.Hand.Cards
	case "score_pile":
		pool = p.ScorePile.Cards
	case "board":
		pool = p.TopCards(r.spec.Colors)
	default:
		return "", false, &UnresolvedRefError{Kind: "zone", Ref: zone}
	}
	if len(pool) == 0 {
		return "", false, nil
	}
	switch sel {
	case gamespec.SelectTop:
		return pool[len(pool)-1], true, nil
	case gamespec.SelectHighestAge, gamespec.SelectLowestAge:
		best := ""
		bestAge := 0
		for _, id := range pool {
			def := r.spec.Card(id)
			if def == nil {
				return "", false, &UnresolvedRefError{Kind: "card", Ref: id}
			}
			better := best == "" ||
				(sel == gamespec.SelectHighestAge && def.Age > bestAge) ||
				(sel == gamespec.SelectLowestAge && def.Age < bestAge)
			if better {
				best, bestAge = id, def.Age
			}
		}
		return best, true, nil
	default:
		return "", false, fmt.Errorf("unknown selection %q", sel)
	}
}

func (r *Run) execTransfer(f *frame, st *gamespec.Step) error {
	var id string
	if st.Card != nil {
		var err error
		id, err = EvalCard(st.Card, r.ctx(f))
		if err != nil {
			return err
		}
	} else if st.From == "board" && st.Color != nil {
		name, err := EvalString(st.Color, r.ctx(f))
		if err != nil {
			return err
		}
		color := gamespec.Color(name)
		if !r.spec.HasColor(color) {
			return &UnresolvedRefError{Kind: "zone", Ref: "color " + name}
		}
		p := r.state.Player(f.playerID)
		if p == nil {
			return &UnresolvedRefError{Kind: "player", Ref: f.playerID}
		}
		stack, ok := p.Board[color]
		if !ok {
			return nil
		}
		top, ok := stack.Top()
		if !ok {
			return nil
		}
		id = top
	} else {
		picked, ok, err := r.pickFromZone(f, st.From, st.Select)
		if err != nil {
			return err
		}
		if !ok {
			// Nothing to transfer is a no-op, not a failure.
			return nil
		}
		id = picked
	}
	def := r.spec.Card(id)
	if def == nil {
		return &UnresolvedRefError{Kind: "card", Ref: id}
	}
	_, remove, err := r.transferZone(f, st.From, def)
	if err != nil {
		return err
	}
	add, _, err := r.transferZone(f, st.To, def)
	if err != nil {
		return err
	}
	if !remove(id) {
		return fmt.Errorf("step %q: card %q not in %s", st.ID, id, st.From)
	}
	add(id)
	f.vars["transferred_card"] = CardValue(id)
	return nil
}

func (r *Run) execSplay(f *frame, st *gamespec.Step) error {
	name, err := EvalString(st.Color, r.ctx(f))
	if err != nil {
		return err
	}
	color := gamespec.Color(name)
	if !r.spec.HasColor(color) {
		return &UnresolvedRefError{Kind: "zone", Ref: "color " + name}
	}
	p := r.state.Player(f.playerID)
	if p == nil {
		return &UnresolvedRefError{Kind: "player", Ref: f.playerID}
	}
	stack, ok := p.Board[color]
	if !ok || stack.Count() < 2 {
		// Splaying a stack of fewer than two cards has no visible effect.
		return nil
	}
	stack.Splay = st.Direction
	return nil
}

// achievePredicate is the standard claim rule, expressed in the expression
// language so it goes through the same evaluator as everything else: score of
// at least five per achievement age, and a top board card of at least that
// age.
var achievePredicate gamespec.Expr = gamespec.AllOf(
	gamespec.GE(
		gamespec.Prop("player.score"),
		gamespec.Mul(gamespec.Prop("achievement.age"), gamespec.IntLit(5)),
	),
	gamespec.GE(
		gamespec.Prop("highest_top_card_age"),
		gamespec.Prop("achievement.age"),
	),
)

// achievable lists the achievements the player may claim right now, ascending
// by age then by spec declaration order.
func (r *Run) achievable(playerID string) ([]string, error) {
	return achievableIn(r.spec, r.state, playerID)
}

func achievableIn(spec *gamespec.GameSpec, state *State, playerID string) ([]string, error) {
	var out []string
	for _, id := range sortAchievements(spec, state.Achievements.Cards) {
		ctx := &EvalContext{
			Spec:     spec,
			State:    state,
			PlayerID: playerID,
			Vars:     map[string]Value{"achievement": CardValue(id)},
		}
		ok, err := EvalBool(achievePredicate, ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// sortAchievements orders achievement card IDs ascending by age, breaking
// ties by spec declaration order, so enumeration is stable.
func sortAchievements(spec *gamespec.GameSpec, ids []string) []string {
	declIdx := make(map[string]int, len(spec.Cards))
	for i := range spec.Cards {
		declIdx[spec.Cards[i].ID] = i
	}
	out := append([]string(nil), ids...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			a, b := spec.Card(out[j-1]), spec.Card(out[j])
			if a == nil || b == nil {
				break
			}
			if a.Age > b.Age || (a.Age == b.Age && declIdx[a.ID] > declIdx[b.ID]) {
				out[j-1], out[j] = out[j], out[j-1]
			} else {
				break
			}
		}
	}
	return out
}

func (r *Run) execAchieve(f *frame, st *gamespec.Step) error {
	var id string
	if st.Card != nil {
		var err error
		id, err = EvalCard(st.Card, r.ctx(f))
		if err != nil {
			return err
		}
		eligible, err := r.achievable(f.playerID)
		if err != nil {
			return err
		}
		if !contains(eligible, id) {
			return fmt.Errorf("step %q: achievement %q not claimable by %s", st.ID, id, f.playerID)
		}
	} else {
		eligible, err := r.achievable(f.playerID)
		if err != nil {
			return err
		}
		if len(eligible) == 0 {
			return nil
		}
		id = eligible[0]
	}
	p := r.state.Player(f.playerID)
	if p == nil {
		return &UnresolvedRefError{Kind: "player", Ref: f.playerID}
	}
	if !r.state.Achievements.Remove(id) {
		return fmt.Errorf("step %q: achievement %q not available", st.ID, id)
	}
	p.Achievements.Add(id)
	return nil
}

func (r *Run) execForEach(f *frame, st *gamespec.Step) error {
	v, err := Eval(st.Over, r.ctx(f))
	if err != nil {
		return err
	}
	// The iteration set is fixed here, before the first iteration runs.
	// Body mutations do not grow or shrink it.
	var elems []Value
	switch v.Kind {
	case ValCardSet:
		for _, id := range v.Cards {
			elems = append(elems, CardValue(id))
		}
	case ValPlayerSet:
		for _, id := range v.Players {
			elems = append(elems, PlayerValue(id))
		}
	default:
		return &TypeMismatchError{Op: "for_each", Want: "set", Got: v.Kind.String()}
	}
	// Frames run LIFO; push iterations in reverse so they execute in set
	// order.
	for i := len(elems) - 1; i >= 0; i-- {
		r.push(&frame{
			steps:       st.Body,
			playerID:    f.playerID,
			vars:        f.vars,
			bindOnEnter: map[string]Value{st.LoopVar: elems[i]},
		})
	}
	return nil
}

func (r *Run) execDemand(f *frame, st *gamespec.Step) error {
	eff := r.currentEffect()
	if eff == nil || eff.TriggerIcon == gamespec.IconNone {
		return fmt.Errorf("step %q: demand outside an icon-bearing effect", st.ID)
	}
	executor := r.state.Player(r.executorID)
	if executor == nil {
		return &UnresolvedRefError{Kind: "player", Ref: r.executorID}
	}
	mine := CountVisibleIcons(r.spec, executor, eff.TriggerIcon)

	// Targets are fixed now, in seating order from the executor's left.
	var targets []*PlayerState
	for _, opp := range r.state.OpponentsOf(r.executorID) {
		if CountVisibleIcons(r.spec, opp, eff.TriggerIcon) < mine {
			targets = append(targets, opp)
		}
	}
	body := st.Body
	if st.Refusable {
		body = refusalWrapper(st)
	}
	for i := len(targets) - 1; i >= 0; i-- {
		r.push(&frame{
			steps:    body,
			playerID: targets[i].ID,
			vars: map[string]Value{
				"demanding_player": PlayerValue(r.executorID),
			},
		})
	}
	return nil
}

// refusalWrapper prefixes a refusable demand body with a comply/refuse
// option for the target.
func refusalWrapper(st *gamespec.Step) []gamespec.Step {
	return []gamespec.Step{
		{
			Kind: gamespec.StepChooseOption,
			ID:   st.ID + "_refusal",
			Choice: &gamespec.ChoiceSpec{
				Kind:    gamespec.ChoiceOption,
				Options: []string{"comply", "refuse"},
				Prompt:  "Comply with the demand?",
				Bind:    "demand_response",
			},
		},
		{
			Kind: gamespec.StepConditional,
			ID:   st.ID + "_if_comply",
			Cond: gamespec.Eq(gamespec.Var("demand_response"), gamespec.StrLit("comply")),
			Then: st.Body,
		},
	}
}

func (r *Run) currentEffect() *gamespec.Effect {
	if r.unitIdx == 0 || r.unitIdx > len(r.units) {
		return nil
	}
	return r.units[r.unitIdx-1].effect
}

func (r *Run) execExecuteEffect(f *frame, st *gamespec.Step) error {
	id, err := EvalCard(st.EffectCard, r.ctx(f))
	if err != nil {
		return err
	}
	def := r.spec.Card(id)
	if def == nil {
		return &UnresolvedRefError{Kind: "card", Ref: id}
	}
	if st.EffectIndex >= len(def.Dogmas) {
		return &UnresolvedRefError{Kind: "effect", Ref: fmt.Sprintf("%s#%d", id, st.EffectIndex)}
	}
	r.push(&frame{
		steps:    def.Dogmas[st.EffectIndex].Steps,
		playerID: f.playerID,
		vars: map[string]Value{
			"activating_player": PlayerValue(r.executorID),
		},
	})
	return nil
}

// choiceCandidates enumerates the legal values for a choice in a stable
// order: hand and score pile in zone order, board tops in spec color order,
// players in seating order from the chooser's left.
func (r *Run) choiceCandidates(f *frame, cs *gamespec.ChoiceSpec) ([]string, error) {
	switch cs.Kind {
	case gamespec.ChoiceOption:
		return cs.Options, nil
	case gamespec.ChoicePlayer:
		var out []string
		switch cs.Source {
		case "all_players":
			for _, p := range r.state.Players {
				out = append(out, p.ID)
			}
		default: // "opponents"
			for _, p := range r.state.OpponentsOf(f.playerID) {
				out = append(out, p.ID)
			}
		}
		return out, nil
	default:
		p := r.state.Player(f.playerID)
		if p == nil {
			return nil, &UnresolvedRefError{Kind: "player", Ref: f.playerID}
		}
		var pool []string
		switch cs.Source {
		case "hand":
			pool = p.Hand.Cards
		case "score_pile":
			pool = p.ScorePile.Cards
		case "board":
			pool = p.TopCards(r.spec.Colors)
		default:
			return nil, &UnresolvedRefError{Kind: "zone", Ref: cs.Source}
		}
		if cs.Filter == nil {
			return append([]string(nil), pool...), nil
		}
		var out []string
		for _, id := range pool {
			ctx := r.ctx(f)
			ctx.Vars = withVar(f.vars, "candidate", CardValue(id))
			ok, err := EvalBool(cs.Filter, ctx)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, id)
			}
		}
		return out, nil
	}
}

func (r *Run) suspend(f *frame, st *gamespec.Step) error {
	cs := st.Choice
	opts, err := r.choiceCandidates(f, cs)
	if err != nil {
		return err
	}
	if len(opts) == 0 {
		if cs.Optional {
			f.vars[cs.BindName()] = NoneValue()
			f.vars["choice_made"] = BoolValue(false)
			return nil
		}
		return fmt.Errorf("step %q: no legal candidates for required choice", st.ID)
	}
	min, max := cs.Min, cs.Max
	if max == 0 {
		min, max = 1, 1
	}
	// Clamp to what is actually on offer, otherwise a choice demanding more
	// picks than there are candidates could never be answered.
	if max > len(opts) {
		max = len(opts)
	}
	if min > max {
		min = max
	}
	if cs.Optional {
		min = 0
	}
	r.choiceSeq++
	r.pending = &PendingChoice{
		ChoiceID: fmt.Sprintf("%s#%d", st.ID, r.choiceSeq),
		PlayerID: f.playerID,
		Kind:     cs.Kind,
		Prompt:   cs.Prompt,
		Options:  opts,
		Min:      min,
		Max:      max,
		Optional: cs.Optional,
	}
	r.pendingBind = cs.BindName()
	r.pendingMax = max
	r.pendingFrm = f
	r.status = RunAwaitingChoice
	return nil
}

// Provide answers the pending choice and resumes the run. The answer must
// match the pending choice ID and pick only enumerated options.
func (r *Run) Provide(choiceID string, picks []string) error {
	if r.status != RunAwaitingChoice || r.pending == nil {
		return ErrNoChoicePending
	}
	pc := r.pending
	if choiceID != pc.ChoiceID {
		return &IllegalChoiceError{ChoiceID: choiceID, Detail: fmt.Sprintf("pending choice is %s", pc.ChoiceID)}
	}
	if len(picks) < pc.Min || len(picks) > pc.Max {
		return &IllegalChoiceError{
			ChoiceID: choiceID,
			Detail:   fmt.Sprintf("%d values picked, want %d..%d", len(picks), pc.Min, pc.Max),
		}
	}
	seen := map[string]bool{}
	for _, v := range picks {
		if !contains(pc.Options, v) {
			return &IllegalChoiceError{ChoiceID: choiceID, Detail: fmt.Sprintf("%q not among options", v)}
		}
		if seen[v] {
			return &IllegalChoiceError{ChoiceID: choiceID, Detail: fmt.Sprintf("%q picked twice", v)}
		}
		seen[v] = true
	}

	f := r.pendingFrm
	bind := r.pendingBind
	switch {
	case len(picks) == 0:
		f.vars[bind] = NoneValue()
		f.vars["choice_made"] = BoolValue(false)
	case r.pendingMax == 1:
		f.vars[bind] = singleChoiceValue(pc.Kind, picks[0])
		f.vars["choice_made"] = BoolValue(true)
	default:
		f.vars[bind] = multiChoiceValue(pc.Kind, picks)
		f.vars["choice_made"] = BoolValue(true)
	}

	r.pending = nil
	r.pendingFrm = nil
	r.status = RunRunning
	r.resume()
	return r.err
}

func singleChoiceValue(kind gamespec.ChoiceKind, pick string) Value {
	switch kind {
	case gamespec.ChoiceOption:
		return StringValue(pick)
	case gamespec.ChoicePlayer:
		return PlayerValue(pick)
	default:
		return CardValue(pick)
	}
}

func multiChoiceValue(kind gamespec.ChoiceKind, picks []string) Value {
	switch kind {
	case gamespec.ChoicePlayer:
		return PlayerSetValue(picks)
	default:
		return CardSetValue(picks)
	}
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
