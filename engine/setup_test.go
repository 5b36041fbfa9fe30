package engine

import (
	"reflect"
	"testing"
)

func TestNewGame_DeckOverrideAndDeal(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{
		Players:      twoSeats(),
		Seed:         1,
		DeckOverride: fixedDecks(),
	})

	// Achievement comes off the age-1 deck before the deal.
	if !reflect.DeepEqual(st.Achievements.Cards, []string{"red1"}) {
		t.Fatalf("achievements = %v, want [red1]", st.Achievements.Cards)
	}
	if got := st.Players[0].Hand.Cards; !reflect.DeepEqual(got, []string{"red1b"}) {
		t.Fatalf("p1 hand = %v, want [red1b]", got)
	}
	if got := st.Players[1].Hand.Cards; !reflect.DeepEqual(got, []string{"yellow1"}) {
		t.Fatalf("p2 hand = %v, want [yellow1]", got)
	}
	if got := st.SupplyDeck(1).Cards; !reflect.DeepEqual(got, []string{"green1", "blue1", "purple1"}) {
		t.Fatalf("age 1 deck = %v", got)
	}

	if st.Phase != PhasePlaying {
		t.Fatalf("phase = %s, want playing", st.Phase)
	}
	if st.ActionsRemaining != 1 {
		t.Fatalf("first turn actions = %d, want 1", st.ActionsRemaining)
	}
	if st.TotalCards() != len(spec.Cards) {
		t.Fatalf("total cards = %d, want %d", st.TotalCards(), len(spec.Cards))
	}
}

func TestNewGame_SameSeedSameState(t *testing.T) {
	spec := testSpec()
	a := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 42})
	b := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 42})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different states")
	}
	c := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 43})
	if reflect.DeepEqual(a.Supply, c.Supply) {
		t.Fatalf("different seeds produced identical supply order")
	}
}

func TestNewGame_RejectsBadOverride(t *testing.T) {
	spec := testSpec()
	decks := fixedDecks()
	decks[1] = []string{"red1", "red1", "yellow1", "green1", "blue1", "purple1"}
	if _, err := NewGame(spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: decks}); err == nil {
		t.Fatalf("duplicate card in override accepted")
	}

	decks = fixedDecks()
	decks[1] = decks[1][:3]
	if _, err := NewGame(spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: decks}); err == nil {
		t.Fatalf("short override accepted")
	}

	decks = fixedDecks()
	decks[9] = []string{"red1"}
	if _, err := NewGame(spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: decks}); err == nil {
		t.Fatalf("override for missing age accepted")
	}
}

func TestNewGame_RejectsBadConfig(t *testing.T) {
	spec := testSpec()
	if _, err := NewGame(spec, Config{Players: []Seat{{ID: "p1"}}}); err == nil {
		t.Fatalf("single player accepted")
	}
	if _, err := NewGame(spec, Config{Players: []Seat{{ID: "p1"}, {ID: "p1"}}}); err == nil {
		t.Fatalf("duplicate player id accepted")
	}
}

func TestNewGame_RejectsInvalidSpec(t *testing.T) {
	spec := testSpec()
	spec.Cards[1].ID = spec.Cards[0].ID
	if _, err := NewGame(spec, Config{Players: twoSeats(), Seed: 1}); err == nil {
		t.Fatalf("spec with duplicate card ids accepted")
	}
}

func TestClone_Independent(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})
	cl := st.Clone()

	cl.Players[0].Hand.Add("blue3")
	cl.SupplyDeck(1).RemoveTop()
	cl.Players[0].BoardStack("red").Meld("red2")

	if st.Players[0].Hand.Count() != 1 {
		t.Fatalf("clone mutation leaked into original hand")
	}
	if st.SupplyDeck(1).Count() != 3 {
		t.Fatalf("clone mutation leaked into original supply")
	}
	if len(st.Players[0].Board) != 0 {
		t.Fatalf("clone mutation leaked into original board")
	}
}
