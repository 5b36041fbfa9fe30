package engine

import (
	"fmt"
	"math/rand"
	"sort"

	"splay-lite/gamespec"
)

func deckZoneName(age int) string { return fmt.Sprintf("age_%d", age) }

// NewGame validates the spec and config, builds the shuffled supply, sets
// aside achievements and deals opening hands. The returned state is in
// PhasePlaying with the first seat to act.
func NewGame(spec *gamespec.GameSpec, cfg Config) (*State, error) {
	if spec == nil {
		return nil, fmt.Errorf("nil spec")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.validate(spec.MinPlayers, spec.MaxPlayers); err != nil {
		return nil, err
	}

	seed := cfg.effectiveSeed()
	rng := rand.New(rand.NewSource(seed))

	st := &State{
		GameID:       cfg.GameID,
		SpecID:       spec.ID,
		Phase:        PhaseSetup,
		Turn:         1,
		Supply:       make(map[int]*Zone),
		Achievements: Zone{Name: "achievements"},
		Seed:         seed,
	}
	if st.GameID == "" {
		st.GameID = fmt.Sprintf("game_%d", seed)
	}

	for _, seat := range cfg.Players {
		name := seat.Name
		if name == "" {
			name = seat.ID
		}
		st.Players = append(st.Players, &PlayerState{
			ID:           seat.ID,
			Name:         name,
			Human:        seat.Human,
			Hand:         Zone{Name: "hand"},
			ScorePile:    Zone{Name: "score_pile"},
			Achievements: Zone{Name: "achievements"},
			Board:        make(map[gamespec.Color]*Stack),
		})
	}

	if err := buildSupply(spec, cfg, rng, st); err != nil {
		return nil, err
	}

	// Achievements come off the decks before the deal, one per listed age.
	for _, age := range spec.AchievementAges {
		deck := st.SupplyDeck(age)
		id, ok := deck.RemoveTop()
		if !ok {
			return nil, fmt.Errorf("age %d deck too small for achievement", age)
		}
		st.Achievements.Add(id)
	}

	// Opening deal, round-robin in seat order.
	for i := 0; i < spec.Setup.OpeningHandSize; i++ {
		for _, p := range st.Players {
			id, ok := st.SupplyDeck(spec.Setup.OpeningHandAge).RemoveTop()
			if !ok {
				return nil, fmt.Errorf("age %d deck exhausted during deal", spec.Setup.OpeningHandAge)
			}
			p.Hand.Add(id)
		}
	}

	st.Phase = PhasePlaying
	st.CurrentPlayer = 0
	st.ActionsRemaining = spec.Turn.FirstTurnActions
	return st, nil
}

func buildSupply(spec *gamespec.GameSpec, cfg Config, rng *rand.Rand, st *State) error {
	byAge := make(map[int][]string)
	var ages []int
	for i := range spec.Cards {
		c := &spec.Cards[i]
		if _, ok := byAge[c.Age]; !ok {
			ages = append(ages, c.Age)
		}
		byAge[c.Age] = append(byAge[c.Age], c.ID)
	}
	sort.Ints(ages)

	for _, age := range ages {
		ids := byAge[age]
		if override, ok := cfg.DeckOverride[age]; ok {
			fixed, err := checkOverride(age, ids, override)
			if err != nil {
				return err
			}
			ids = fixed
		} else {
			rng.Shuffle(len(ids), func(i, j int) {
				ids[i], ids[j] = ids[j], ids[i]
			})
		}
		st.Supply[age] = &Zone{Name: deckZoneName(age), Cards: ids}
	}

	for age := range cfg.DeckOverride {
		if _, ok := byAge[age]; !ok {
			return fmt.Errorf("deck override for age %d: no cards of that age", age)
		}
	}
	return nil
}

// checkOverride requires the override to be an exact permutation of the age's
// population, so a fixed deck can never duplicate or drop a card.
func checkOverride(age int, population, override []string) ([]string, error) {
	if len(override) != len(population) {
		return nil, fmt.Errorf("deck override for age %d: %d cards, population has %d",
			age, len(override), len(population))
	}
	want := make(map[string]int, len(population))
	for _, id := range population {
		want[id]++
	}
	for _, id := range override {
		if want[id] == 0 {
			return nil, fmt.Errorf("deck override for age %d: card %q not in population", age, id)
		}
		want[id]--
	}
	return append([]string(nil), override...), nil
}
