package engine

import (
	"errors"
	"testing"

	gs "splay-lite/gamespec"
)

// evalState gives p1 a known hand and a red top card so property paths and
// aggregates have fixed answers.
func evalState(t *testing.T) (*gs.GameSpec, *EvalContext) {
	t.Helper()
	spec := testSpec()
	spec.Setup.OpeningHandSize = 0
	st := mustNewGame(t, spec, Config{Players: twoSeats(), Seed: 1, DeckOverride: fixedDecks()})
	p1 := st.Players[0]
	for _, id := range []string{"yellow1", "green1", "red2"} {
		takeCard(t, st, id)
		p1.Hand.Add(id)
	}
	takeCard(t, st, "red1")
	p1.BoardStack(gs.ColorRed).Meld("red1")
	return spec, &EvalContext{Spec: spec, State: st, PlayerID: "p1", SourceCardID: "red1"}
}

func TestEval_PropertyPaths(t *testing.T) {
	_, ctx := evalState(t)
	cases := []struct {
		path string
		want int
	}{
		{"player.hand.count", 3},
		{"player.score", 0},
		{"player.board.count", 1},
		{"game.player_count", 2},
		{"highest_top_card_age", 1},
	}
	for _, tc := range cases {
		got, err := EvalInt(gs.Prop(tc.path), ctx)
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		if got != tc.want {
			t.Fatalf("%s = %d, want %d", tc.path, got, tc.want)
		}
	}
	color, err := EvalString(gs.Prop("source_card.color"), ctx)
	if err != nil || color != "red" {
		t.Fatalf("source_card.color = %q, %v, want red", color, err)
	}
}

func TestEval_AggregatesOverHand(t *testing.T) {
	_, ctx := evalState(t)
	// Hand ages are 1, 1, 2.
	sum, err := EvalInt(gs.Call{Fn: gs.FuncSum, Args: []gs.Expr{gs.Prop("player.hand"), gs.StrLit("age")}}, ctx)
	if err != nil || sum != 4 {
		t.Fatalf("sum(hand, age) = %d, %v, want 4", sum, err)
	}
	max, err := EvalInt(gs.Call{Fn: gs.FuncMax, Args: []gs.Expr{gs.Prop("player.hand"), gs.StrLit("age")}}, ctx)
	if err != nil || max != 2 {
		t.Fatalf("max(hand, age) = %d, %v, want 2", max, err)
	}
	has, err := EvalBool(gs.Call{Fn: gs.FuncHas, Args: []gs.Expr{
		gs.Prop("player.hand"),
		gs.Cmp{Op: gs.CmpEQ, L: gs.Prop("candidate.color"), R: gs.StrLit("green")},
	}}, ctx)
	if err != nil || !has {
		t.Fatalf("has(hand, green) = %v, %v, want true", has, err)
	}
}

func TestEval_UnresolvedRefs(t *testing.T) {
	_, ctx := evalState(t)
	var unresolved *UnresolvedRefError
	for _, x := range []gs.Expr{
		gs.Var("never_bound"),
		gs.Prop("player.mana"),
		gs.Prop("nowhere.count"),
	} {
		if _, err := Eval(x, ctx); !errors.As(err, &unresolved) {
			t.Fatalf("Eval(%#v) err = %v, want UnresolvedRefError", x, err)
		}
	}
}

func TestEval_TypeMismatches(t *testing.T) {
	_, ctx := evalState(t)
	var mismatch *TypeMismatchError
	for name, x := range map[string]gs.Expr{
		"bool from int":       gs.And{Operands: []gs.Expr{gs.IntLit(3)}},
		"int vs string cmp":   gs.Cmp{Op: gs.CmpEQ, L: gs.IntLit(1), R: gs.StrLit("one")},
		"ordered string cmp":  gs.Cmp{Op: gs.CmpLT, L: gs.StrLit("a"), R: gs.StrLit("b")},
		"count of scalar":     gs.Call{Fn: gs.FuncCount, Args: []gs.Expr{gs.IntLit(5)}},
		"count arity":         gs.Call{Fn: gs.FuncCount},
		"division by zero":    gs.Arith{Op: gs.ArithDiv, L: gs.IntLit(6), R: gs.IntLit(0)},
		"arith over card set": gs.Arith{Op: gs.ArithAdd, L: gs.Prop("player.hand"), R: gs.IntLit(1)},
	} {
		if _, err := Eval(x, ctx); !errors.As(err, &mismatch) {
			t.Fatalf("%s: err = %v, want TypeMismatchError", name, err)
		}
	}
}

func TestEval_ArithmeticAndLogic(t *testing.T) {
	_, ctx := evalState(t)
	n, err := EvalInt(gs.Arith{Op: gs.ArithMul,
		L: gs.Arith{Op: gs.ArithAdd, L: gs.IntLit(2), R: gs.IntLit(3)},
		R: gs.IntLit(4)}, ctx)
	if err != nil || n != 20 {
		t.Fatalf("(2+3)*4 = %d, %v", n, err)
	}
	b, err := EvalBool(gs.Or{Operands: []gs.Expr{
		gs.BoolLit(false),
		gs.Not{X: gs.Cmp{Op: gs.CmpGT, L: gs.Prop("player.hand.count"), R: gs.IntLit(10)}},
	}}, ctx)
	if err != nil || !b {
		t.Fatalf("or/not = %v, %v, want true", b, err)
	}
}

func TestEval_IconCount(t *testing.T) {
	_, ctx := evalState(t)
	// red1 alone on the board shows all four positions: three castles.
	n, err := EvalInt(gs.Call{Fn: gs.FuncIconCount, Args: []gs.Expr{gs.StrLit("castle")}}, ctx)
	if err != nil || n != 3 {
		t.Fatalf("icon_count(castle) = %d, %v, want 3", n, err)
	}
}
