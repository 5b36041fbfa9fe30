package bot

import (
	"math/rand"

	"splay-lite/engine"
	"splay-lite/gamespec"
)

// GreedyPolicy scores every legal action with its persona weights and takes
// the best one. Given the same seed and states it always plays the same game.
type GreedyPolicy struct {
	Persona *Persona
	rng     *rand.Rand
}

// NewGreedy creates a GreedyPolicy from a persona definition.
func NewGreedy(persona *Persona, seed int64) *GreedyPolicy {
	return &GreedyPolicy{
		Persona: persona,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (g *GreedyPolicy) Name() string { return g.Persona.Name }

// ChooseAction implements Policy. Ties keep the generator's ordering, so two
// equally scored actions resolve the same way every run.
func (g *GreedyPolicy) ChooseAction(spec *gamespec.GameSpec, st *engine.State, legal []engine.Action) engine.Action {
	best := legal[0]
	bestScore := g.scoreAction(spec, st, legal[0])
	for _, a := range legal[1:] {
		if s := g.scoreAction(spec, st, a); s > bestScore {
			best, bestScore = a, s
		}
	}
	return best
}

func (g *GreedyPolicy) scoreAction(spec *gamespec.GameSpec, st *engine.State, a engine.Action) float64 {
	w := g.Persona.Brain
	var score float64
	switch a.Kind {
	case engine.ActionAchieve:
		score = 50 * w.AchieveDrive
	case engine.ActionDogma:
		score = 2 * w.DogmaDrive
		if def := spec.Card(a.CardID); def != nil {
			score += 0.3 * float64(def.Age)
		}
	case engine.ActionMeld:
		score = 1
		if def := spec.Card(a.CardID); def != nil {
			score += 0.5 * float64(def.Age)
			for slot := gamespec.IconSlot(0); slot < gamespec.NumIconSlots; slot++ {
				if def.Icons.At(slot) != gamespec.IconNone {
					score += w.IconDrive
				}
			}
		}
	case engine.ActionDraw:
		score = 4
	case engine.ActionPass:
		score = -50
	}
	if w.Randomness > 0 {
		score += g.rng.Float64() * w.Randomness * 4
	}
	return score
}

// AnswerChoice implements Policy with fixed heuristics: highest ages for
// cards, the score leader among opponents, the first listed option.
func (g *GreedyPolicy) AnswerChoice(spec *gamespec.GameSpec, st *engine.State, pc *engine.PendingChoice) []string {
	want := pc.Max
	if want < pc.Min {
		want = pc.Min
	}
	if want > len(pc.Options) {
		want = len(pc.Options)
	}
	switch pc.Kind {
	case gamespec.ChoiceCard:
		ranked := append([]string(nil), pc.Options...)
		// Stable selection sort by age, highest first.
		for i := 0; i < len(ranked); i++ {
			top := i
			for j := i + 1; j < len(ranked); j++ {
				if cardAge(spec, ranked[j]) > cardAge(spec, ranked[top]) {
					top = j
				}
			}
			ranked[i], ranked[top] = ranked[top], ranked[i]
		}
		return ranked[:want]
	case gamespec.ChoicePlayer:
		best := pc.Options[0]
		bestScore := -1
		for _, id := range pc.Options {
			if p := st.Player(id); p != nil {
				if s := engine.PlayerScore(spec, p); s > bestScore {
					best, bestScore = id, s
				}
			}
		}
		return []string{best}
	default:
		return pc.Options[:want]
	}
}

func cardAge(spec *gamespec.GameSpec, id string) int {
	if def := spec.Card(id); def != nil {
		return def.Age
	}
	return 0
}
