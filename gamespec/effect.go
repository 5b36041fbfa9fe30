package gamespec

// StepKind discriminates the closed set of effect step variants. The
// interpreter dispatches over it with one exhaustive switch; adding a kind
// here without teaching the interpreter about it is a spec validation error.
type StepKind byte

const (
	StepDraw StepKind = iota + 1
	StepMeld
	StepTuck
	StepReturn
	StepScore
	StepTransfer
	StepSplay
	StepAchieve
	StepChooseCard
	StepChooseOption
	StepChoosePlayer
	StepConditional
	StepForEach
	StepRepeat
	StepDemand
	StepExecuteEffect
	StepSetVar
)

func (k StepKind) String() string {
	switch k {
	case StepDraw:
		return "draw"
	case StepMeld:
		return "meld"
	case StepTuck:
		return "tuck"
	case StepReturn:
		return "return"
	case StepScore:
		return "score"
	case StepTransfer:
		return "transfer"
	case StepSplay:
		return "splay"
	case StepAchieve:
		return "achieve"
	case StepChooseCard:
		return "choose_card"
	case StepChooseOption:
		return "choose_option"
	case StepChoosePlayer:
		return "choose_player"
	case StepConditional:
		return "conditional"
	case StepForEach:
		return "for_each"
	case StepRepeat:
		return "repeat"
	case StepDemand:
		return "demand"
	case StepExecuteEffect:
		return "execute_effect"
	case StepSetVar:
		return "set_var"
	default:
		return "invalid_step"
	}
}

// Selection picks a card from a zone without a player choice, used by
// transfer steps driven by a rule rather than a decision.
type Selection string

const (
	SelectNone       Selection = ""
	SelectHighestAge Selection = "highest_age"
	SelectLowestAge  Selection = "lowest_age"
	SelectTop        Selection = "top"
)

// ChoiceKind discriminates what a suspended choice asks for.
type ChoiceKind byte

const (
	ChoiceCard ChoiceKind = iota
	ChoiceOption
	ChoicePlayer
)

func (k ChoiceKind) String() string {
	switch k {
	case ChoiceCard:
		return "card"
	case ChoiceOption:
		return "option"
	case ChoicePlayer:
		return "player"
	default:
		return "invalid_choice"
	}
}

// ChoiceSpec declares a decision point inside an effect program. The engine
// enumerates the legal options from the current state; the chooser picks from
// that enumeration only.
type ChoiceSpec struct {
	Kind ChoiceKind

	// Source names the zone the candidates come from for ChoiceCard
	// ("hand", "score_pile", "board"), or the player pool for ChoicePlayer
	// ("opponents", "all_players").
	Source string

	// Filter, when set, keeps only candidates for which it evaluates true
	// with "candidate" bound to the candidate card.
	Filter Expr

	// Options is the fixed option list for ChoiceOption.
	Options []string

	Prompt string

	// Min/Max bound how many values may be picked. Zero values default to
	// exactly one.
	Min, Max int

	// Optional choices may be declined; the bound variable then records that
	// nothing was chosen and "choice_made" evaluates false.
	Optional bool

	// Bind is the frame variable the result is stored under. Defaults to
	// "chosen_card", "chosen_option" or "chosen_player" by kind.
	Bind string
}

// BindName returns the frame variable the choice result binds to.
func (c *ChoiceSpec) BindName() string {
	if c.Bind != "" {
		return c.Bind
	}
	switch c.Kind {
	case ChoiceOption:
		return "chosen_option"
	case ChoicePlayer:
		return "chosen_player"
	default:
		return "chosen_card"
	}
}

// Step is one instruction of an effect program. Which fields are meaningful
// depends on Kind; Validate enforces the shape per kind.
type Step struct {
	Kind StepKind
	ID   string

	// Draw: Count cards (default 1) of age Age (default: highest top board
	// card age, minimum 1). Draws escalate to the next non-empty deck.
	Count Expr
	Age   Expr

	// Meld/tuck/return/score/transfer subject. Must evaluate to a card.
	Card Expr

	// Transfer: Select picks the subject from From when Card is nil.
	Select Selection
	From   string
	To     string

	// Splay: Color must evaluate to a color name in the spec's vocabulary.
	Color     Expr
	Direction SplayDirection

	// Choose steps.
	Choice *ChoiceSpec

	// Conditional.
	Cond Expr
	Then []Step
	Else []Step

	// ForEach: the iteration set Over is evaluated once, before the first
	// iteration, and is not re-evaluated as the body mutates state. LoopVar
	// is bound per element. Repeat reuses Body with MaxIterations as the
	// mandatory bound; the body breaks by setting the "_break" variable.
	LoopVar       string
	Over          Expr
	Body          []Step
	MaxIterations int

	// Demand: Body runs once per opponent with strictly fewer visible
	// trigger icons than the executing player, in seating order from the
	// executor's left. Refusable demands first offer the target a
	// comply/refuse option.
	Refusable bool

	// ExecuteEffect: run dogma effect EffectIndex of the card EffectCard
	// evaluates to, as the current player.
	EffectCard  Expr
	EffectIndex int

	// SetVar.
	Var   string
	Value Expr
}

// EffectKind distinguishes top-level action programs from card dogmas.
type EffectKind byte

const (
	EffectAction EffectKind = iota
	EffectDogma
)

// Effect is a named program of steps. Dogma effects carry the trigger icon
// that drives sharing and demand eligibility.
type Effect struct {
	ID          string
	Name        string
	Description string
	Kind        EffectKind
	TriggerIcon Icon
	Steps       []Step
}

// IsDemand reports whether the effect's program starts with a demand step.
func (e *Effect) IsDemand() bool {
	return len(e.Steps) > 0 && e.Steps[0].Kind == StepDemand
}

// Factory helpers for the common step shapes. Card authors compose these;
// unusual steps are written as literals.

// DrawStep draws count cards of the given age.
func DrawStep(id string, count int, age Expr) Step {
	return Step{Kind: StepDraw, ID: id, Count: IntLit(count), Age: age}
}

// MeldStep melds the card the expression evaluates to.
func MeldStep(id string, card Expr) Step {
	return Step{Kind: StepMeld, ID: id, Card: card}
}

// ScoreStep scores the card the expression evaluates to.
func ScoreStep(id string, card Expr) Step {
	return Step{Kind: StepScore, ID: id, Card: card}
}

// ReturnStep returns the card to the bottom of its age's supply deck.
func ReturnStep(id string, card Expr) Step {
	return Step{Kind: StepReturn, ID: id, Card: card}
}

// TuckStep tucks the card under its color stack.
func TuckStep(id string, card Expr) Step {
	return Step{Kind: StepTuck, ID: id, Card: card}
}

// SplayStep splays the stack of the given color.
func SplayStep(id string, color Expr, dir SplayDirection) Step {
	return Step{Kind: StepSplay, ID: id, Color: color, Direction: dir}
}

// ChooseCardStep suspends for a card choice from the named zone.
func ChooseCardStep(id, source, prompt string, optional bool) Step {
	return Step{Kind: StepChooseCard, ID: id, Choice: &ChoiceSpec{
		Kind:     ChoiceCard,
		Source:   source,
		Prompt:   prompt,
		Optional: optional,
	}}
}

// ChooseOptionStep suspends for a pick from a fixed option list.
func ChooseOptionStep(id, prompt string, options ...string) Step {
	return Step{Kind: StepChooseOption, ID: id, Choice: &ChoiceSpec{
		Kind:    ChoiceOption,
		Options: options,
		Prompt:  prompt,
	}}
}

// ConditionalStep branches on a boolean expression.
func ConditionalStep(id string, cond Expr, then []Step, els []Step) Step {
	return Step{Kind: StepConditional, ID: id, Cond: cond, Then: then, Else: els}
}

// DemandStep runs body against every qualifying opponent.
func DemandStep(id string, body []Step) Step {
	return Step{Kind: StepDemand, ID: id, Body: body}
}
