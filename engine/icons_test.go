package engine

import (
	"testing"

	gs "splay-lite/gamespec"
)

// Three stacked cards with distinct icons in every position, so each visible
// position maps back to exactly one icon.
func visibilityFixture() (spec *gs.GameSpec, p *PlayerState) {
	spec = testSpec()
	spec.Cards = append(spec.Cards,
		gs.CardDef{ID: "vbottom", Name: "V Bottom", Age: 1, Color: gs.ColorRed,
			Icons: gs.CardIcons{gs.IconCastle, gs.IconCrown, gs.IconLeaf, gs.IconLightbulb}},
		gs.CardDef{ID: "vmiddle", Name: "V Middle", Age: 1, Color: gs.ColorRed,
			Icons: gs.CardIcons{gs.IconCastle, gs.IconCrown, gs.IconLeaf, gs.IconLightbulb}},
		gs.CardDef{ID: "vtop", Name: "V Top", Age: 1, Color: gs.ColorRed,
			Icons: gs.CardIcons{gs.IconCastle, gs.IconCrown, gs.IconLeaf, gs.IconLightbulb}},
	)
	p = &PlayerState{ID: "p1", Board: map[gs.Color]*Stack{
		gs.ColorRed: {Cards: []string{"vbottom", "vmiddle", "vtop"}},
	}}
	return spec, p
}

func TestVisibleIcons_TopCardAlwaysFull(t *testing.T) {
	spec, p := visibilityFixture()
	stack := p.Board[gs.ColorRed]
	for _, dir := range []gs.SplayDirection{gs.SplayNone, gs.SplayLeft, gs.SplayRight, gs.SplayUp} {
		stack.Splay = dir
		got := VisibleIcons(spec.Card("vtop"), 2, 3, dir)
		if len(got) != 4 {
			t.Fatalf("splay %s: top card shows %d icons, want 4", dir, len(got))
		}
	}
}

func TestVisibleIcons_CoveredBySplay(t *testing.T) {
	spec, _ := visibilityFixture()
	def := spec.Card("vmiddle")

	cases := []struct {
		dir  gs.SplayDirection
		want []gs.Icon
	}{
		{gs.SplayNone, nil},
		{gs.SplayLeft, []gs.Icon{gs.IconCastle, gs.IconCrown}},
		{gs.SplayRight, []gs.Icon{gs.IconLightbulb}},
		{gs.SplayUp, []gs.Icon{gs.IconCrown, gs.IconLeaf, gs.IconLightbulb}},
	}
	for _, c := range cases {
		got := VisibleIcons(def, 1, 3, c.dir)
		if len(got) != len(c.want) {
			t.Fatalf("splay %s: got %v, want %v", c.dir, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("splay %s: got %v, want %v", c.dir, got, c.want)
			}
		}
	}
}

func TestCountVisibleIcons_WholeStack(t *testing.T) {
	spec, p := visibilityFixture()
	stack := p.Board[gs.ColorRed]

	// Unsplayed: only the top card counts.
	stack.Splay = gs.SplayNone
	if n := CountVisibleIcons(spec, p, gs.IconCastle); n != 1 {
		t.Fatalf("unsplayed castle count = %d, want 1", n)
	}

	// Splayed left: covered cards add their top-left and bottom-left.
	stack.Splay = gs.SplayLeft
	if n := CountVisibleIcons(spec, p, gs.IconCastle); n != 3 {
		t.Fatalf("left-splayed castle count = %d, want 3", n)
	}
	if n := CountVisibleIcons(spec, p, gs.IconCrown); n != 3 {
		t.Fatalf("left-splayed crown count = %d, want 3", n)
	}
	if n := CountVisibleIcons(spec, p, gs.IconLeaf); n != 1 {
		t.Fatalf("left-splayed leaf count = %d, want 1", n)
	}

	// Splayed up: three bottom positions of covered cards.
	stack.Splay = gs.SplayUp
	if n := CountVisibleIcons(spec, p, gs.IconCastle); n != 1 {
		t.Fatalf("up-splayed castle count = %d, want 1", n)
	}
	if n := CountVisibleIcons(spec, p, gs.IconLightbulb); n != 3 {
		t.Fatalf("up-splayed lightbulb count = %d, want 3", n)
	}
}

func TestHighestTopCardAgeAndScore(t *testing.T) {
	spec := testSpec()
	p := &PlayerState{
		ID:        "p1",
		ScorePile: Zone{Cards: []string{"red1", "red2", "blue3"}},
		Board: map[gs.Color]*Stack{
			gs.ColorRed:  {Cards: []string{"red1", "red2"}},
			gs.ColorBlue: {Cards: []string{"blue1"}},
		},
	}
	if age := HighestTopCardAge(spec, p); age != 2 {
		t.Fatalf("highest top card age = %d, want 2", age)
	}
	if score := PlayerScore(spec, p); score != 6 {
		t.Fatalf("score = %d, want 6", score)
	}
	empty := &PlayerState{ID: "p2", Board: map[gs.Color]*Stack{}}
	if age := HighestTopCardAge(spec, empty); age != 0 {
		t.Fatalf("empty board age = %d, want 0", age)
	}
}
