package engine

import (
	"errors"
	"reflect"
	"testing"

	gs "splay-lite/gamespec"
)

func TestApply_DrawMovesTopCardAndEndsFirstTurn(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})
	red := NewReducer(spec)

	before := st.Clone()
	out, err := red.Apply(st, Action{Kind: ActionDraw, PlayerID: "p1"})
	if err != nil {
		t.Fatalf("Apply err: %v", err)
	}
	if out.State == nil {
		t.Fatalf("draw suspended")
	}
	if !reflect.DeepEqual(st, before) {
		t.Fatalf("Apply mutated its input state")
	}

	p1 := out.State.Player("p1")
	if !reflect.DeepEqual(p1.Hand.Cards, []string{"red1b", "green1"}) {
		t.Fatalf("p1 hand = %v", p1.Hand.Cards)
	}
	deck := out.State.SupplyDeck(1)
	if !reflect.DeepEqual(deck.Cards, []string{"blue1", "purple1"}) {
		t.Fatalf("age 1 deck = %v", deck.Cards)
	}

	// The opening turn grants a single action, so drawing hands the turn over.
	if out.State.CurrentPlayer != 1 || out.State.Turn != 2 {
		t.Fatalf("turn = %d player = %d", out.State.Turn, out.State.CurrentPlayer)
	}
	if out.State.ActionsRemaining != spec.Turn.ActionsPerTurn {
		t.Fatalf("actions remaining = %d", out.State.ActionsRemaining)
	}
}

func TestApply_TurnRotation(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})
	red := NewReducer(spec)

	out, err := red.Apply(st, Action{Kind: ActionDraw, PlayerID: "p1"})
	if err != nil {
		t.Fatalf("p1 draw: %v", err)
	}
	st = out.State

	// p2's full turn takes two actions.
	out, err = red.Apply(st, Action{Kind: ActionDraw, PlayerID: "p2"})
	if err != nil {
		t.Fatalf("p2 first draw: %v", err)
	}
	st = out.State
	if st.CurrentPlayer != 1 || st.ActionsRemaining != 1 {
		t.Fatalf("mid-turn: player %d remaining %d", st.CurrentPlayer, st.ActionsRemaining)
	}
	out, err = red.Apply(st, Action{Kind: ActionDraw, PlayerID: "p2"})
	if err != nil {
		t.Fatalf("p2 second draw: %v", err)
	}
	st = out.State
	if st.CurrentPlayer != 0 || st.Turn != 3 || st.ActionsRemaining != 2 {
		t.Fatalf("after p2 turn: player %d turn %d remaining %d",
			st.CurrentPlayer, st.Turn, st.ActionsRemaining)
	}
}

func TestApply_PassEndsTurnImmediately(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})
	red := NewReducer(spec)

	out, err := red.Apply(st, Action{Kind: ActionPass, PlayerID: "p1"})
	if err != nil {
		t.Fatalf("Apply err: %v", err)
	}
	if out.State.CurrentPlayer != 1 || out.State.Turn != 2 {
		t.Fatalf("pass did not end the turn: %+v", out.State)
	}
	if out.State.Player("p1").Hand.Count() != 1 {
		t.Fatalf("pass changed p1's hand")
	}
}

func TestApply_MeldPreservesSplay(t *testing.T) {
	spec := testSpec()
	spec.Setup.OpeningHandSize = 0
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})
	p1 := st.Players[0]
	takeCard(t, st, "red1")
	takeCard(t, st, "red1b")
	stack := p1.BoardStack(gs.ColorRed)
	stack.Meld("red1")
	stack.Meld("red1b")
	stack.Splay = gs.SplayLeft
	takeCard(t, st, "red2")
	p1.Hand.Add("red2")

	red := NewReducer(spec)
	out, err := red.Apply(st, Action{Kind: ActionMeld, PlayerID: "p1", CardID: "red2"})
	if err != nil {
		t.Fatalf("Apply err: %v", err)
	}
	got := out.State.Player("p1").BoardStack(gs.ColorRed)
	if !reflect.DeepEqual(got.Cards, []string{"red1", "red1b", "red2"}) {
		t.Fatalf("red stack = %v", got.Cards)
	}
	if got.Splay != gs.SplayLeft {
		t.Fatalf("meld reset splay to %s", got.Splay)
	}
	if out.State.Player("p1").Hand.Count() != 0 {
		t.Fatalf("melded card still in hand")
	}
}

func TestApply_AchieveWinsTheGame(t *testing.T) {
	spec := testSpec()
	spec.Setup.OpeningHandSize = 0
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})
	p1 := st.Players[0]
	takeCard(t, st, "green1")
	p1.BoardStack(gs.ColorGreen).Meld("green1")
	takeCard(t, st, "blue3")
	takeCard(t, st, "red2")
	p1.ScorePile.Add("blue3")
	p1.ScorePile.Add("red2")

	red := NewReducer(spec)
	out, err := red.Apply(st, Action{Kind: ActionAchieve, PlayerID: "p1", CardID: "red1"})
	if err != nil {
		t.Fatalf("Apply err: %v", err)
	}
	newP1 := out.State.Player("p1")
	if !newP1.Achievements.Contains("red1") {
		t.Fatalf("achievement not claimed: %v", newP1.Achievements.Cards)
	}
	if out.State.Achievements.Contains("red1") {
		t.Fatalf("achievement still claimable")
	}
	res := out.State.Result
	if res == nil || res.WinnerID != "p1" || res.Reason != "achievements" {
		t.Fatalf("result = %+v", res)
	}
	if !out.State.Ended() {
		t.Fatalf("game not ended")
	}

	if _, err := red.Apply(out.State, Action{Kind: ActionDraw, PlayerID: "p2"}); !errors.Is(err, ErrTerminalState) {
		t.Fatalf("want ErrTerminalState, got %v", err)
	}
}

func TestApply_DrawFromEmptyDecksEndsByExhaustion(t *testing.T) {
	spec := testSpec()
	spec.Setup.OpeningHandSize = 0
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})
	p2 := st.Players[1]
	for _, id := range []string{
		"red1b", "yellow1", "green1", "blue1", "purple1",
		"red2", "green2", "blue3", "yellow3", "purple4", "green4",
	} {
		takeCard(t, st, id)
		p2.ScorePile.Add(id)
	}

	red := NewReducer(spec)
	out, err := red.Apply(st, Action{Kind: ActionDraw, PlayerID: "p1"})
	if err != nil {
		t.Fatalf("Apply err: %v", err)
	}
	res := out.State.Result
	if res == nil || res.Reason != "deck_exhausted" {
		t.Fatalf("result = %+v", res)
	}
	if res.WinnerID != "p2" {
		t.Fatalf("winner = %q, want the higher score", res.WinnerID)
	}
	if !out.State.Ended() {
		t.Fatalf("game not ended")
	}
}

func TestApply_RejectsOutOfTurnAction(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})
	red := NewReducer(spec)

	_, err := red.Apply(st, Action{Kind: ActionDraw, PlayerID: "p2"})
	var iae *IllegalActionError
	if !errors.As(err, &iae) {
		t.Fatalf("want IllegalActionError, got %v", err)
	}
}

func TestApply_ConservesCardsAcrossSequence(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})
	red := NewReducer(spec)
	total := len(spec.Cards)

	script := []Action{
		{Kind: ActionDraw, PlayerID: "p1"},
		{Kind: ActionMeld, PlayerID: "p2", CardID: "yellow1"},
		{Kind: ActionDraw, PlayerID: "p2"},
		{Kind: ActionMeld, PlayerID: "p1", CardID: "red1b"},
		{Kind: ActionDraw, PlayerID: "p1"},
	}
	for i, a := range script {
		out, err := red.Apply(st, a)
		if err != nil {
			t.Fatalf("step %d (%s): %v", i, a, err)
		}
		if out.State == nil {
			t.Fatalf("step %d (%s) suspended", i, a)
		}
		st = out.State
		if got := st.TotalCards(); got != total {
			t.Fatalf("step %d: %d cards in play, want %d", i, got, total)
		}
	}
}
