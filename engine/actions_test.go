package engine

import (
	"reflect"
	"testing"

	gs "splay-lite/gamespec"
)

func TestLegal_OrderAndContent(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})
	gen := NewGenerator(spec)

	legal, err := gen.Legal(st, "p1")
	if err != nil {
		t.Fatalf("Legal err: %v", err)
	}
	want := []Action{
		{Kind: ActionDraw, PlayerID: "p1"},
		{Kind: ActionMeld, PlayerID: "p1", CardID: "red1b"},
		{Kind: ActionPass, PlayerID: "p1"},
	}
	if !reflect.DeepEqual(legal, want) {
		t.Fatalf("legal = %v, want %v", legal, want)
	}

	// Not p2's turn: nothing is legal.
	p2Legal, err := gen.Legal(st, "p2")
	if err != nil {
		t.Fatalf("Legal err: %v", err)
	}
	if len(p2Legal) != 0 {
		t.Fatalf("p2 legal = %v, want empty", p2Legal)
	}
}

func TestLegal_RepeatedCallsIdentical(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 7})
	gen := NewGenerator(spec)

	first, err := gen.Legal(st, "p1")
	if err != nil {
		t.Fatalf("Legal err: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := gen.Legal(st, "p1")
		if err != nil {
			t.Fatalf("Legal err: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("call %d: legal set changed on pure re-enumeration", i)
		}
	}
}

func TestLegal_DogmaFollowsColorOrder(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})
	p1 := st.Players[0]
	p1.Hand.Cards = nil
	// Top cards with dogmas on blue and purple; spec color order is
	// red, yellow, green, blue, purple.
	p1.BoardStack(gs.ColorPurple).Meld("purple1")
	p1.BoardStack(gs.ColorBlue).Meld("blue1")

	gen := NewGenerator(spec)
	legal, err := gen.Legal(st, "p1")
	if err != nil {
		t.Fatalf("Legal err: %v", err)
	}
	var dogmas []string
	for _, a := range legal {
		if a.Kind == ActionDogma {
			dogmas = append(dogmas, a.CardID)
		}
	}
	if !reflect.DeepEqual(dogmas, []string{"blue1", "purple1"}) {
		t.Fatalf("dogma order = %v, want [blue1 purple1]", dogmas)
	}
}

func TestLegal_AchieveRequiresScoreAndTopCard(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})
	gen := NewGenerator(spec)
	p1 := st.Players[0]

	// The set-aside achievement is red1 (age 1): needs score >= 5 and a top
	// board card of age >= 1.
	hasAchieve := func() bool {
		legal, err := gen.Legal(st, "p1")
		if err != nil {
			t.Fatalf("Legal err: %v", err)
		}
		for _, a := range legal {
			if a.Kind == ActionAchieve {
				return true
			}
		}
		return false
	}

	if hasAchieve() {
		t.Fatalf("achieve legal with score 0 and empty board")
	}

	// Score 5 but still no board card: not yet.
	p1.ScorePile.Cards = []string{"red2", "blue3"}
	if hasAchieve() {
		t.Fatalf("achieve legal without a top board card")
	}

	// Board card of age 1 satisfies the age requirement.
	p1.BoardStack(gs.ColorGreen).Meld("green1")
	if !hasAchieve() {
		t.Fatalf("achieve not legal with score 5 and age-1 top card")
	}

	// An age-3 achievement is out of reach for an age-2 top card even with
	// plenty of score: 15 points but the top card age falls short.
	st.Achievements.Cards = []string{"blue3"}
	p1.ScorePile.Cards = []string{
		"purple4", "yellow3", "red2",
		"red1", "red1b", "yellow1", "blue1", "purple1", "green1",
	}
	p1.Board = map[gs.Color]*Stack{}
	p1.BoardStack(gs.ColorGreen).Meld("green2")
	if hasAchieve() {
		t.Fatalf("age-3 achievement legal with only an age-2 top card")
	}
	p1.BoardStack(gs.ColorGreen).Meld("green4")
	if !hasAchieve() {
		t.Fatalf("age-3 achievement not legal with age-4 top card and 15 points")
	}
}

func TestLegal_EmptyWhenGameOver(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1})
	st.Result = &GameResult{WinnerID: "p1", Reason: "achievements"}
	st.Phase = PhaseGameOver

	legal, err := NewGenerator(spec).Legal(st, "p1")
	if err != nil {
		t.Fatalf("Legal err: %v", err)
	}
	if len(legal) != 0 {
		t.Fatalf("legal on finished game = %v, want empty", legal)
	}
}
