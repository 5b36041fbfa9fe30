package engine

import (
	"reflect"
	"testing"

	gs "splay-lite/gamespec"
)

func conflictTypes(cs []Conflict) []ConflictType {
	var out []ConflictType
	for _, c := range cs {
		out = append(out, c.Type)
	}
	return out
}

func TestReconcile_CardMovedBetweenZones(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})

	// Observer sees green1 in p1's hand; canon has it on top of the age 1
	// deck. The move is applied and flagged, nothing else changes.
	obs := &Observation{Zones: []ObservedZone{
		{ZoneID: "p1_hand", Cards: []string{"red1b", "green1"}, Confidence: 0.9},
	}}
	merged, conflicts := Reconcile(spec, st, obs)

	if !reflect.DeepEqual(merged.Player("p1").Hand.Cards, []string{"red1b", "green1"}) {
		t.Fatalf("p1 hand = %v", merged.Player("p1").Hand.Cards)
	}
	if merged.SupplyDeck(1).Contains("green1") {
		t.Fatalf("green1 still in supply")
	}
	if merged.TotalCards() != st.TotalCards() {
		t.Fatalf("population changed")
	}

	wantTypes := []ConflictType{ConflictCountMismatch, ConflictCardMoved}
	if !reflect.DeepEqual(conflictTypes(conflicts), wantTypes) {
		t.Fatalf("conflicts = %+v", conflicts)
	}
	if conflicts[1].Severity != SeverityInfo || conflicts[1].CardID != "green1" {
		t.Fatalf("move conflict = %+v", conflicts[1])
	}

	// The input state is never touched.
	if !st.Player("p1").Hand.Contains("red1b") || st.Player("p1").Hand.Contains("green1") {
		t.Fatalf("Reconcile mutated its input")
	}
}

func TestReconcile_UnknownCardFilteredOut(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})

	obs := &Observation{Zones: []ObservedZone{
		{ZoneID: "p1_hand", Cards: []string{"red1b", "mislabeled_card"}},
	}}
	merged, conflicts := Reconcile(spec, st, obs)

	if !reflect.DeepEqual(merged.Player("p1").Hand.Cards, []string{"red1b"}) {
		t.Fatalf("p1 hand = %v", merged.Player("p1").Hand.Cards)
	}
	if len(conflicts) != 1 || conflicts[0].Type != ConflictUnknownCard || conflicts[0].Severity != SeverityError {
		t.Fatalf("conflicts = %+v", conflicts)
	}
}

func TestReconcile_MissingCardKeptWithWarning(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})

	// Observer reports an empty hand but red1b is nowhere else on the table,
	// so canon keeps it rather than losing the card.
	obs := &Observation{Zones: []ObservedZone{
		{ZoneID: "p1_hand", Cards: nil},
	}}
	merged, conflicts := Reconcile(spec, st, obs)

	if !merged.Player("p1").Hand.Contains("red1b") {
		t.Fatalf("red1b lost: %v", merged.Player("p1").Hand.Cards)
	}
	found := false
	for _, c := range conflicts {
		if c.Type == ConflictCardMoved && c.Severity == SeverityWarning && c.CardID == "red1b" {
			found = true
		}
	}
	if !found {
		t.Fatalf("no kept-card warning in %+v", conflicts)
	}
}

func TestReconcile_SplayOnlyFlaggedWhenChanged(t *testing.T) {
	spec := testSpec()
	spec.Setup.OpeningHandSize = 0
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})
	p1 := st.Players[0]
	takeCard(t, st, "red1")
	takeCard(t, st, "red1b")
	p1.BoardStack(gs.ColorRed).Meld("red1")
	p1.BoardStack(gs.ColorRed).Meld("red1b")

	left := gs.SplayLeft
	obs := &Observation{Zones: []ObservedZone{
		{ZoneID: "p1_board_red", Cards: []string{"red1", "red1b"}, Splay: &left},
	}}
	merged, conflicts := Reconcile(spec, st, obs)
	if merged.Player("p1").BoardStack(gs.ColorRed).Splay != gs.SplayLeft {
		t.Fatalf("splay not applied")
	}
	if len(conflicts) != 1 || conflicts[0].Type != ConflictSplayChanged {
		t.Fatalf("conflicts = %+v", conflicts)
	}

	// Observing the direction canon already has is silent.
	_, conflicts = Reconcile(spec, merged, obs)
	if len(conflicts) != 0 {
		t.Fatalf("unchanged splay flagged: %+v", conflicts)
	}
}

func TestReconcile_RejectsPopulationChange(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})

	// A card observed twice in one zone would mint a copy; the whole
	// observation is rejected and canon stands.
	obs := &Observation{Zones: []ObservedZone{
		{ZoneID: "p1_hand", Cards: []string{"blue1", "blue1"}},
	}}
	merged, conflicts := Reconcile(spec, st, obs)

	if !reflect.DeepEqual(merged, st.Clone()) {
		t.Fatalf("rejected observation changed the state")
	}
	last := conflicts[len(conflicts)-1]
	if last.Type != ConflictImpossible || last.Severity != SeverityError {
		t.Fatalf("conflicts = %+v", conflicts)
	}
}

func TestReconcile_UnknownZone(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})

	obs := &Observation{Zones: []ObservedZone{
		{ZoneID: "p3_hand", Cards: []string{"red1b"}},
	}}
	_, conflicts := Reconcile(spec, st, obs)
	if len(conflicts) != 1 || conflicts[0].Type != ConflictImpossible {
		t.Fatalf("conflicts = %+v", conflicts)
	}
}

func TestApplyCorrections_SetCardRespectsDeckOrientation(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})

	out, err := ApplyCorrections(spec, st, []Correction{
		SetCard{ZoneID: "age_1", CardID: "blue3", Position: "top"},
		SetCard{ZoneID: "age_1", CardID: "yellow3", Position: "bottom"},
	})
	if err != nil {
		t.Fatalf("ApplyCorrections err: %v", err)
	}
	want := []string{"blue3", "green1", "blue1", "purple1", "yellow3"}
	if !reflect.DeepEqual(out.SupplyDeck(1).Cards, want) {
		t.Fatalf("age 1 deck = %v, want %v", out.SupplyDeck(1).Cards, want)
	}
	if out.SupplyDeck(3).Contains("blue3") || out.SupplyDeck(3).Contains("yellow3") {
		t.Fatalf("corrected cards still in age 3 deck")
	}
	if out.TotalCards() != st.TotalCards() {
		t.Fatalf("corrections changed the card population")
	}
}

func TestApplyCorrections_BoardAndSplay(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})

	out, err := ApplyCorrections(spec, st, []Correction{
		SetCard{ZoneID: "p1_board_red", CardID: "red1b"},
		SetCard{ZoneID: "p1_board_red", CardID: "red2", Position: "bottom"},
		SetSplay{PlayerID: "p1", Color: gs.ColorRed, Direction: gs.SplayUp},
		ConfirmZone{ZoneID: "p1_board_red"},
	})
	if err != nil {
		t.Fatalf("ApplyCorrections err: %v", err)
	}
	stack := out.Player("p1").BoardStack(gs.ColorRed)
	if !reflect.DeepEqual(stack.Cards, []string{"red2", "red1b"}) {
		t.Fatalf("red stack = %v", stack.Cards)
	}
	if stack.Splay != gs.SplayUp {
		t.Fatalf("splay = %s", stack.Splay)
	}
}

func TestApplyCorrections_BatchIsAtomic(t *testing.T) {
	spec := testSpec()
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})

	before := st.Clone()
	_, err := ApplyCorrections(spec, st, []Correction{
		SetCard{ZoneID: "p1_hand", CardID: "green1"},
		SetCard{ZoneID: "p1_hand", CardID: "no_such_card"},
	})
	if err == nil {
		t.Fatalf("bad correction accepted")
	}
	if !reflect.DeepEqual(st, before) {
		t.Fatalf("failed batch mutated the input state")
	}
}
