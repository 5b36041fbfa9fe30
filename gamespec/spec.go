// Package gamespec defines the data model for a card game ruleset. A GameSpec
// describes the full card population, zones, turn structure, player actions
// and win conditions of one game; the engine package interprets it without any
// game-specific code paths.
package gamespec

// Icon is one of the symbols printed on a card. The zero value means an empty
// icon position.
type Icon string

const (
	IconNone      Icon = ""
	IconCastle    Icon = "castle"
	IconCrown     Icon = "crown"
	IconLeaf      Icon = "leaf"
	IconLightbulb Icon = "lightbulb"
	IconFactory   Icon = "factory"
	IconClock     Icon = "clock"
)

// Color identifies a board stack. Colors are declared per spec so the engine
// can iterate boards in a stable, spec-defined order.
type Color string

const (
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
)

// SplayDirection controls which icon positions of covered cards in a board
// stack remain visible.
type SplayDirection byte

const (
	SplayNone SplayDirection = iota
	SplayLeft
	SplayRight
	SplayUp
)

func (d SplayDirection) String() string {
	switch d {
	case SplayLeft:
		return "left"
	case SplayRight:
		return "right"
	case SplayUp:
		return "up"
	default:
		return "none"
	}
}

// ParseSplayDirection maps the wire/spec name of a splay direction back to its
// enum value. Unknown names come back as SplayNone with ok=false.
func ParseSplayDirection(s string) (SplayDirection, bool) {
	switch s {
	case "none", "":
		return SplayNone, true
	case "left":
		return SplayLeft, true
	case "right":
		return SplayRight, true
	case "up":
		return SplayUp, true
	default:
		return SplayNone, false
	}
}

// IconSlot is one of the four fixed icon positions on a card face.
type IconSlot int

const (
	SlotTopLeft IconSlot = iota
	SlotBottomLeft
	SlotBottomCenter
	SlotBottomRight
	NumIconSlots = 4
)

func (s IconSlot) String() string {
	switch s {
	case SlotTopLeft:
		return "top_left"
	case SlotBottomLeft:
		return "bottom_left"
	case SlotBottomCenter:
		return "bottom_center"
	case SlotBottomRight:
		return "bottom_right"
	default:
		return "invalid_slot"
	}
}

// CardIcons holds the icon in each of the four positions, indexed by IconSlot.
type CardIcons [NumIconSlots]Icon

// At returns the icon in the given slot, IconNone for out-of-range slots.
func (ci CardIcons) At(slot IconSlot) Icon {
	if slot < 0 || slot >= NumIconSlots {
		return IconNone
	}
	return ci[slot]
}

// Count returns how many positions carry the given icon.
func (ci CardIcons) Count(icon Icon) int {
	if icon == IconNone {
		return 0
	}
	n := 0
	for _, ic := range ci {
		if ic == icon {
			n++
		}
	}
	return n
}

// CardDef is the immutable definition of one card in the population.
type CardDef struct {
	ID       string
	Name     string
	Age      int
	Color    Color
	Icons    CardIcons
	Dogmas   []Effect
	Keywords []string
}

// HasKeyword reports whether the card carries the given keyword tag.
func (c *CardDef) HasKeyword(kw string) bool {
	for _, k := range c.Keywords {
		if k == kw {
			return true
		}
	}
	return false
}

// ZoneKind classifies a zone for setup and snapshotting.
type ZoneKind byte

const (
	ZoneHand ZoneKind = iota
	ZoneScorePile
	ZoneBoard
	ZoneAchievements
	ZoneSupply
)

// ZoneOwner says whether each player gets a private copy of the zone or the
// zone is shared by the whole table.
type ZoneOwner byte

const (
	OwnerPlayer ZoneOwner = iota
	OwnerShared
)

// ZoneDef declares one zone of the game layout.
type ZoneDef struct {
	Name    string
	Kind    ZoneKind
	Owner   ZoneOwner
	Ordered bool
	Hidden  bool
}

// ActionDef declares one top-level action a player may take on their turn.
// Precondition, if set, must evaluate to true for the action to be legal;
// the reducer supplies action-specific bindings (for example the melded card)
// before evaluating.
type ActionDef struct {
	Name         string
	Description  string
	Precondition Expr
}

// TurnStructure is the fixed per-turn action budget.
type TurnStructure struct {
	ActionsPerTurn   int
	FirstTurnActions int
	CanPass          bool
}

// SetupRules is the opening deal: each player receives OpeningHandSize cards
// of age OpeningHandAge.
type SetupRules struct {
	OpeningHandSize int
	OpeningHandAge  int
}

// WinKind discriminates win conditions.
type WinKind byte

const (
	// WinAchievementCount ends the game when a player claims enough
	// achievements. The threshold scales with the player count.
	WinAchievementCount WinKind = iota
	// WinDeckExhaustion ends the game when a draw escalates past the highest
	// supply deck; the highest score wins.
	WinDeckExhaustion
)

// WinCondition declares one way the game can end.
type WinCondition struct {
	Kind        WinKind
	Description string
	// Threshold is the base achievement count for WinAchievementCount.
	Threshold int
	// ThresholdByPlayers overrides Threshold per table size when set.
	ThresholdByPlayers map[int]int
}

// ThresholdFor resolves the achievement threshold for a given player count.
func (w WinCondition) ThresholdFor(players int) int {
	if n, ok := w.ThresholdByPlayers[players]; ok {
		return n
	}
	return w.Threshold
}

// GameSpec is the complete declarative ruleset the engine interprets.
type GameSpec struct {
	ID      string
	Name    string
	Version string

	MinPlayers int
	MaxPlayers int

	// Icons and Colors define the closed vocabularies for this spec. Their
	// order is the canonical iteration order everywhere in the engine.
	Icons  []Icon
	Colors []Color

	Zones   []ZoneDef
	Cards   []CardDef
	Actions []ActionDef

	Turn  TurnStructure
	Setup SetupRules

	WinConditions []WinCondition

	// AchievementAges lists the ages whose top supply card is set aside as a
	// claimable achievement during setup, ascending.
	AchievementAges []int

	cardIndex map[string]*CardDef
}

// Card looks up a card definition by ID. Returns nil when the ID is not part
// of this spec's population.
func (s *GameSpec) Card(id string) *CardDef {
	if s.cardIndex == nil {
		s.buildIndex()
	}
	return s.cardIndex[id]
}

func (s *GameSpec) buildIndex() {
	s.cardIndex = make(map[string]*CardDef, len(s.Cards))
	for i := range s.Cards {
		s.cardIndex[s.Cards[i].ID] = &s.Cards[i]
	}
}

// Zone looks up a zone declaration by name.
func (s *GameSpec) Zone(name string) *ZoneDef {
	for i := range s.Zones {
		if s.Zones[i].Name == name {
			return &s.Zones[i]
		}
	}
	return nil
}

// ZoneHidden reports whether the named zone is declared hidden. Unknown
// zones count as hidden.
func (s *GameSpec) ZoneHidden(name string) bool {
	z := s.Zone(name)
	return z == nil || z.Hidden
}

// MaxAge returns the highest card age present in the population.
func (s *GameSpec) MaxAge() int {
	max := 0
	for i := range s.Cards {
		if s.Cards[i].Age > max {
			max = s.Cards[i].Age
		}
	}
	return max
}

// CardsOfAge returns the definitions of the given age in declaration order.
func (s *GameSpec) CardsOfAge(age int) []*CardDef {
	var out []*CardDef
	for i := range s.Cards {
		if s.Cards[i].Age == age {
			out = append(out, &s.Cards[i])
		}
	}
	return out
}

// Action looks up an action definition by name.
func (s *GameSpec) Action(name string) *ActionDef {
	for i := range s.Actions {
		if s.Actions[i].Name == name {
			return &s.Actions[i]
		}
	}
	return nil
}

// HasColor reports whether the color is part of this spec's vocabulary.
func (s *GameSpec) HasColor(c Color) bool {
	for _, col := range s.Colors {
		if col == c {
			return true
		}
	}
	return false
}

// HasIcon reports whether the icon is part of this spec's vocabulary.
func (s *GameSpec) HasIcon(ic Icon) bool {
	for _, i := range s.Icons {
		if i == ic {
			return true
		}
	}
	return false
}
