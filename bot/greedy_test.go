package bot

import (
	"reflect"
	"testing"

	"splay-lite/engine"
	"splay-lite/games/innovation"
	"splay-lite/gamespec"
)

func steadyPersona(id string) *Persona {
	return &Persona{
		ID:   id,
		Name: id,
		Brain: Weights{
			ScoreDrive:   0.6,
			IconDrive:    0.4,
			AchieveDrive: 1.0,
			DogmaDrive:   0.5,
			Randomness:   0.25,
		},
	}
}

func seatedGame(t *testing.T, seed int64) (*gamespec.GameSpec, *engine.State) {
	t.Helper()
	spec := innovation.NewSpec()
	st, err := engine.NewGame(spec, engine.Config{
		Players: []engine.Seat{{ID: "p1", Name: "Ada", Human: true}, {ID: "p2", Name: "Bot"}},
		Seed:    seed,
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return spec, st
}

func TestGreedy_PrefersAchieveWhenAvailable(t *testing.T) {
	spec, st := seatedGame(t, 11)
	p1 := st.Players[0]

	// Rig p1 into achieve range: two age 3 cards in the score pile and any
	// top card on the board.
	deck3 := st.SupplyDeck(3)
	for i := 0; i < 2; i++ {
		id, ok := deck3.RemoveTop()
		if !ok {
			t.Fatalf("age 3 deck ran dry")
		}
		p1.ScorePile.Add(id)
	}
	meld := p1.Hand.Cards[0]
	p1.Hand.Remove(meld)
	p1.BoardStack(spec.Card(meld).Color).Meld(meld)

	legal, err := engine.NewGenerator(spec).Legal(st, "p1")
	if err != nil {
		t.Fatalf("Legal: %v", err)
	}
	hasAchieve := false
	for _, a := range legal {
		if a.Kind == engine.ActionAchieve {
			hasAchieve = true
		}
	}
	if !hasAchieve {
		t.Fatalf("fixture: achieve not legal in %v", legal)
	}

	pol := NewGreedy(steadyPersona("climber"), 1)
	got := pol.ChooseAction(spec, st, legal)
	if got.Kind != engine.ActionAchieve {
		t.Fatalf("chose %s, want achieve", got)
	}
}

func TestGreedy_AnswersCardChoiceByAge(t *testing.T) {
	spec, st := seatedGame(t, 11)
	pol := NewGreedy(steadyPersona("ager"), 1)

	pc := &engine.PendingChoice{
		Kind:    gamespec.ChoiceCard,
		Options: []string{"archery", "optics", "calendar"},
		Min:     1,
		Max:     1,
	}
	got := pol.AnswerChoice(spec, st, pc)
	if !reflect.DeepEqual(got, []string{"optics"}) {
		t.Fatalf("picked %v, want the age 3 card", got)
	}

	pc.Max = 2
	got = pol.AnswerChoice(spec, st, pc)
	if !reflect.DeepEqual(got, []string{"optics", "calendar"}) {
		t.Fatalf("picked %v, want the two oldest", got)
	}
}

func TestGreedy_AnswerNeverExceedsOptions(t *testing.T) {
	spec, st := seatedGame(t, 11)
	pol := NewGreedy(steadyPersona("bounded"), 1)

	pc := &engine.PendingChoice{
		Kind:    gamespec.ChoiceCard,
		Options: []string{"archery", "optics"},
		Min:     5,
		Max:     5,
	}
	got := pol.AnswerChoice(spec, st, pc)
	if len(got) != 2 {
		t.Fatalf("answered %d picks with only 2 options", len(got))
	}
}

func TestGreedy_AnswersPlayerChoiceByScore(t *testing.T) {
	spec, st := seatedGame(t, 11)
	p2 := st.Players[1]
	id, ok := st.SupplyDeck(2).RemoveTop()
	if !ok {
		t.Fatalf("age 2 deck ran dry")
	}
	p2.ScorePile.Add(id)

	pol := NewGreedy(steadyPersona("hunter"), 1)
	pc := &engine.PendingChoice{
		Kind:    gamespec.ChoicePlayer,
		Options: []string{"p1", "p2"},
		Min:     1,
		Max:     1,
	}
	got := pol.AnswerChoice(spec, st, pc)
	if !reflect.DeepEqual(got, []string{"p2"}) {
		t.Fatalf("picked %v, want the score leader", got)
	}
}

func TestDriver_FullGameIsDeterministic(t *testing.T) {
	run := func() *engine.State {
		spec, st := seatedGame(t, 99)
		driver := NewDriver(spec, map[string]Policy{
			"p1": NewGreedy(steadyPersona("alpha"), 3),
			"p2": NewGreedy(steadyPersona("beta"), 5),
		})
		end, err := driver.Play(st, 2000)
		if err != nil {
			t.Fatalf("Play: %v", err)
		}
		return end
	}

	a := run()
	b := run()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seeds produced different games")
	}
	if !a.Ended() {
		t.Fatalf("game did not finish")
	}
	if a.TotalCards() != len(innovation.NewSpec().Cards) {
		t.Fatalf("card population drifted to %d", a.TotalCards())
	}
}

func TestRegistry_LoadAndQuery(t *testing.T) {
	reg := NewRegistry()
	err := reg.LoadFromJSON([]byte(`[
		{"id": "sage", "name": "The Sage", "tier": 1,
		 "brain": {"scoreDrive": 0.8, "achieveDrive": 1.0}},
		{"id": "drifter", "name": "The Drifter", "tier": 3,
		 "brain": {"randomness": 0.9}},
		{"name": "no id, skipped"}
	]`))
	if err != nil {
		t.Fatalf("LoadFromJSON: %v", err)
	}
	if reg.Count() != 2 {
		t.Fatalf("Count = %d", reg.Count())
	}
	sage := reg.Get("sage")
	if sage == nil || sage.Brain.AchieveDrive != 1.0 {
		t.Fatalf("sage = %+v", sage)
	}
	if got := reg.ByTier(3); len(got) != 1 || got[0].ID != "drifter" {
		t.Fatalf("ByTier(3) = %+v", got)
	}
}
