package engine

import (
	"fmt"
	"strings"

	"splay-lite/gamespec"
)

// EvalContext carries everything expression evaluation can see: the spec, the
// state, the evaluating player, the card whose effect is running, and the
// interpreter frame's variable bindings.
type EvalContext struct {
	Spec         *gamespec.GameSpec
	State        *State
	PlayerID     string
	SourceCardID string
	Vars         map[string]Value
}

func (ctx *EvalContext) player() (*PlayerState, error) {
	p := ctx.State.Player(ctx.PlayerID)
	if p == nil {
		return nil, &UnresolvedRefError{Kind: "player", Ref: ctx.PlayerID}
	}
	return p, nil
}

// Eval evaluates a typed expression tree against the context. The variant set
// is closed; anything outside it is a programming error surfaced as an
// UnresolvedRefError on the node type.
func Eval(x gamespec.Expr, ctx *EvalContext) (Value, error) {
	switch n := x.(type) {
	case gamespec.IntLit:
		return IntValue(int(n)), nil
	case gamespec.BoolLit:
		return BoolValue(bool(n)), nil
	case gamespec.StrLit:
		return StringValue(string(n)), nil
	case gamespec.Var:
		v, ok := ctx.Vars[string(n)]
		if !ok {
			return Value{}, &UnresolvedRefError{Kind: "var", Ref: string(n)}
		}
		return v, nil
	case gamespec.Prop:
		return evalProp(string(n), ctx)
	case gamespec.Cmp:
		return evalCmp(n, ctx)
	case gamespec.And:
		for _, op := range n.Operands {
			b, err := EvalBool(op, ctx)
			if err != nil {
				return Value{}, err
			}
			if !b {
				return BoolValue(false), nil
			}
		}
		return BoolValue(true), nil
	case gamespec.Or:
		for _, op := range n.Operands {
			b, err := EvalBool(op, ctx)
			if err != nil {
				return Value{}, err
			}
			if b {
				return BoolValue(true), nil
			}
		}
		return BoolValue(false), nil
	case gamespec.Not:
		b, err := EvalBool(n.X, ctx)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(!b), nil
	case gamespec.Arith:
		return evalArith(n, ctx)
	case gamespec.Call:
		return evalCall(n, ctx)
	default:
		return Value{}, &UnresolvedRefError{Kind: "root", Ref: fmt.Sprintf("%T", x)}
	}
}

// EvalBool evaluates an expression and requires a boolean result.
func EvalBool(x gamespec.Expr, ctx *EvalContext) (bool, error) {
	v, err := Eval(x, ctx)
	if err != nil {
		return false, err
	}
	if v.Kind != ValBool {
		return false, &TypeMismatchError{Op: "condition", Want: "bool", Got: v.Kind.String()}
	}
	return v.Bool, nil
}

// EvalInt evaluates an expression and requires an integer result.
func EvalInt(x gamespec.Expr, ctx *EvalContext) (int, error) {
	v, err := Eval(x, ctx)
	if err != nil {
		return 0, err
	}
	if v.Kind != ValInt {
		return 0, &TypeMismatchError{Op: "integer operand", Want: "int", Got: v.Kind.String()}
	}
	return v.Int, nil
}

// EvalCard evaluates an expression and requires a single card result.
func EvalCard(x gamespec.Expr, ctx *EvalContext) (string, error) {
	v, err := Eval(x, ctx)
	if err != nil {
		return "", err
	}
	id, ok := v.CardID()
	if !ok {
		return "", &TypeMismatchError{Op: "card operand", Want: "card", Got: v.Kind.String()}
	}
	return id, nil
}

// EvalString evaluates an expression and requires a string result.
func EvalString(x gamespec.Expr, ctx *EvalContext) (string, error) {
	v, err := Eval(x, ctx)
	if err != nil {
		return "", err
	}
	if v.Kind != ValString {
		return "", &TypeMismatchError{Op: "string operand", Want: "string", Got: v.Kind.String()}
	}
	return v.Str, nil
}

func evalCardSet(x gamespec.Expr, ctx *EvalContext) ([]string, error) {
	v, err := Eval(x, ctx)
	if err != nil {
		return nil, err
	}
	switch v.Kind {
	case ValCardSet:
		return v.Cards, nil
	case ValCard:
		return v.Cards, nil
	case ValNone:
		return nil, nil
	default:
		return nil, &TypeMismatchError{Op: "set operand", Want: "card_set", Got: v.Kind.String()}
	}
}

func evalProp(path string, ctx *EvalContext) (Value, error) {
	parts := strings.Split(path, ".")
	root, rest := parts[0], parts[1:]

	// Variables shadow the well-known roots so loop bindings compose with
	// property access ("loop_card.age").
	if v, ok := ctx.Vars[root]; ok {
		return propOn(v, rest, path, ctx)
	}

	switch root {
	case "player":
		p, err := ctx.player()
		if err != nil {
			return Value{}, err
		}
		return playerProp(p, rest, path, ctx)
	case "source_card", "card":
		if ctx.SourceCardID == "" {
			return Value{}, &UnresolvedRefError{Kind: "card", Ref: path}
		}
		return propOn(CardValue(ctx.SourceCardID), rest, path, ctx)
	case "game":
		return gameProp(rest, path, ctx)
	case "highest_top_card_age":
		p, err := ctx.player()
		if err != nil {
			return Value{}, err
		}
		return IntValue(HighestTopCardAge(ctx.Spec, p)), nil
	case "all_players":
		ids := make([]string, 0, len(ctx.State.Players))
		for _, p := range ctx.State.Players {
			ids = append(ids, p.ID)
		}
		return PlayerSetValue(ids), nil
	case "all_opponents":
		var ids []string
		for _, p := range ctx.State.OpponentsOf(ctx.PlayerID) {
			ids = append(ids, p.ID)
		}
		return PlayerSetValue(ids), nil
	default:
		return Value{}, &UnresolvedRefError{Kind: "root", Ref: root}
	}
}

func playerProp(p *PlayerState, rest []string, path string, ctx *EvalContext) (Value, error) {
	if len(rest) == 0 {
		return PlayerValue(p.ID), nil
	}
	switch rest[0] {
	case "score":
		return IntValue(PlayerScore(ctx.Spec, p)), nil
	case "hand":
		return zoneProp(&p.Hand, rest[1:], path)
	case "score_pile":
		return zoneProp(&p.ScorePile, rest[1:], path)
	case "achievements":
		return zoneProp(&p.Achievements, rest[1:], path)
	case "top_cards":
		return CardSetValue(p.TopCards(ctx.Spec.Colors)), nil
	case "board":
		if len(rest) == 2 && rest[1] == "count" {
			n := 0
			for _, c := range ctx.Spec.Colors {
				if st, ok := p.Board[c]; ok && !st.Empty() {
					n++
				}
			}
			return IntValue(n), nil
		}
		return Value{}, &UnresolvedRefError{Kind: "zone", Ref: path}
	default:
		return Value{}, &UnresolvedRefError{Kind: "zone", Ref: path}
	}
}

func zoneProp(z *Zone, rest []string, path string) (Value, error) {
	if len(rest) == 0 {
		return CardSetValue(append([]string(nil), z.Cards...)), nil
	}
	if len(rest) == 1 && rest[0] == "count" {
		return IntValue(z.Count()), nil
	}
	return Value{}, &UnresolvedRefError{Kind: "zone", Ref: path}
}

func gameProp(rest []string, path string, ctx *EvalContext) (Value, error) {
	if len(rest) == 1 {
		switch rest[0] {
		case "turn":
			return IntValue(ctx.State.Turn), nil
		case "player_count":
			return IntValue(len(ctx.State.Players)), nil
		}
	}
	return Value{}, &UnresolvedRefError{Kind: "root", Ref: path}
}

// propOn resolves the remaining path against an already-evaluated value,
// which lets bound cards and players expose their properties.
func propOn(v Value, rest []string, path string, ctx *EvalContext) (Value, error) {
	if len(rest) == 0 {
		return v, nil
	}
	switch v.Kind {
	case ValCard:
		id, _ := v.CardID()
		return cardProp(id, rest, path, ctx)
	case ValPlayer:
		p := ctx.State.Player(v.Players[0])
		if p == nil {
			return Value{}, &UnresolvedRefError{Kind: "player", Ref: v.Players[0]}
		}
		return playerProp(p, rest, path, ctx)
	case ValNone:
		return Value{}, &UnresolvedRefError{Kind: "var", Ref: path}
	default:
		return Value{}, &TypeMismatchError{Op: "property " + path, Want: "card or player", Got: v.Kind.String()}
	}
}

func cardProp(id string, rest []string, path string, ctx *EvalContext) (Value, error) {
	def := ctx.Spec.Card(id)
	if def == nil {
		return Value{}, &UnresolvedRefError{Kind: "card", Ref: id}
	}
	if len(rest) != 1 {
		return Value{}, &UnresolvedRefError{Kind: "card", Ref: path}
	}
	switch rest[0] {
	case "age":
		return IntValue(def.Age), nil
	case "color":
		return StringValue(string(def.Color)), nil
	case "name":
		return StringValue(def.Name), nil
	case "id":
		return StringValue(def.ID), nil
	default:
		return Value{}, &UnresolvedRefError{Kind: "card", Ref: path}
	}
}

func evalCmp(n gamespec.Cmp, ctx *EvalContext) (Value, error) {
	l, err := Eval(n.L, ctx)
	if err != nil {
		return Value{}, err
	}
	r, err := Eval(n.R, ctx)
	if err != nil {
		return Value{}, err
	}
	opName := "comparison " + n.Op.String()
	switch {
	case l.Kind == ValInt && r.Kind == ValInt:
		return BoolValue(cmpInts(n.Op, l.Int, r.Int)), nil
	case l.Kind == ValString && r.Kind == ValString:
		switch n.Op {
		case gamespec.CmpEQ:
			return BoolValue(l.Str == r.Str), nil
		case gamespec.CmpNE:
			return BoolValue(l.Str != r.Str), nil
		default:
			return Value{}, &TypeMismatchError{Op: opName, Want: "int", Got: "string"}
		}
	case l.Kind == ValBool && r.Kind == ValBool:
		switch n.Op {
		case gamespec.CmpEQ:
			return BoolValue(l.Bool == r.Bool), nil
		case gamespec.CmpNE:
			return BoolValue(l.Bool != r.Bool), nil
		default:
			return Value{}, &TypeMismatchError{Op: opName, Want: "int", Got: "bool"}
		}
	default:
		return Value{}, &TypeMismatchError{
			Op:   opName,
			Want: l.Kind.String(),
			Got:  r.Kind.String(),
		}
	}
}

func cmpInts(op gamespec.CmpOp, l, r int) bool {
	switch op {
	case gamespec.CmpEQ:
		return l == r
	case gamespec.CmpNE:
		return l != r
	case gamespec.CmpLT:
		return l < r
	case gamespec.CmpLE:
		return l <= r
	case gamespec.CmpGT:
		return l > r
	case gamespec.CmpGE:
		return l >= r
	default:
		return false
	}
}

func evalArith(n gamespec.Arith, ctx *EvalContext) (Value, error) {
	l, err := EvalInt(n.L, ctx)
	if err != nil {
		return Value{}, err
	}
	r, err := EvalInt(n.R, ctx)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case gamespec.ArithAdd:
		return IntValue(l + r), nil
	case gamespec.ArithSub:
		return IntValue(l - r), nil
	case gamespec.ArithMul:
		return IntValue(l * r), nil
	case gamespec.ArithDiv:
		if r == 0 {
			return Value{}, &TypeMismatchError{Op: "division", Want: "non-zero divisor", Got: "0"}
		}
		return IntValue(l / r), nil
	default:
		return Value{}, &UnresolvedRefError{Kind: "root", Ref: "arith op"}
	}
}

func evalCall(n gamespec.Call, ctx *EvalContext) (Value, error) {
	switch n.Fn {
	case gamespec.FuncCount:
		if len(n.Args) != 1 {
			return Value{}, callArity(n.Fn, 1, len(n.Args))
		}
		v, err := Eval(n.Args[0], ctx)
		if err != nil {
			return Value{}, err
		}
		switch v.Kind {
		case ValCardSet, ValCard:
			return IntValue(len(v.Cards)), nil
		case ValPlayerSet, ValPlayer:
			return IntValue(len(v.Players)), nil
		default:
			return Value{}, &TypeMismatchError{Op: "count", Want: "set", Got: v.Kind.String()}
		}
	case gamespec.FuncSum, gamespec.FuncMax, gamespec.FuncMin:
		return evalAggregate(n, ctx)
	case gamespec.FuncHas:
		if len(n.Args) != 2 {
			return Value{}, callArity(n.Fn, 2, len(n.Args))
		}
		set, err := evalCardSet(n.Args[0], ctx)
		if err != nil {
			return Value{}, err
		}
		for _, id := range set {
			sub := *ctx
			sub.Vars = withVar(ctx.Vars, "candidate", CardValue(id))
			ok, err := EvalBool(n.Args[1], &sub)
			if err != nil {
				return Value{}, err
			}
			if ok {
				return BoolValue(true), nil
			}
		}
		return BoolValue(false), nil
	case gamespec.FuncIconCount:
		if len(n.Args) != 1 {
			return Value{}, callArity(n.Fn, 1, len(n.Args))
		}
		name, err := EvalString(n.Args[0], ctx)
		if err != nil {
			return Value{}, err
		}
		p, err := ctx.player()
		if err != nil {
			return Value{}, err
		}
		return IntValue(CountVisibleIcons(ctx.Spec, p, gamespec.Icon(name))), nil
	case gamespec.FuncHasIcon:
		if len(n.Args) != 2 {
			return Value{}, callArity(n.Fn, 2, len(n.Args))
		}
		id, err := EvalCard(n.Args[0], ctx)
		if err != nil {
			return Value{}, err
		}
		name, err := EvalString(n.Args[1], ctx)
		if err != nil {
			return Value{}, err
		}
		def := ctx.Spec.Card(id)
		if def == nil {
			return Value{}, &UnresolvedRefError{Kind: "card", Ref: id}
		}
		return BoolValue(def.Icons.Count(gamespec.Icon(name)) > 0), nil
	case gamespec.FuncHighestAge:
		var p *PlayerState
		switch len(n.Args) {
		case 0:
			var err error
			p, err = ctx.player()
			if err != nil {
				return Value{}, err
			}
		case 1:
			v, err := Eval(n.Args[0], ctx)
			if err != nil {
				return Value{}, err
			}
			if v.Kind != ValPlayer {
				return Value{}, &TypeMismatchError{Op: "highest_age", Want: "player", Got: v.Kind.String()}
			}
			p = ctx.State.Player(v.Players[0])
			if p == nil {
				return Value{}, &UnresolvedRefError{Kind: "player", Ref: v.Players[0]}
			}
		default:
			return Value{}, callArity(n.Fn, 1, len(n.Args))
		}
		return IntValue(HighestTopCardAge(ctx.Spec, p)), nil
	default:
		return Value{}, &UnresolvedRefError{Kind: "root", Ref: "function " + string(n.Fn)}
	}
}

func evalAggregate(n gamespec.Call, ctx *EvalContext) (Value, error) {
	if len(n.Args) != 2 {
		return Value{}, callArity(n.Fn, 2, len(n.Args))
	}
	set, err := evalCardSet(n.Args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	field, err := EvalString(n.Args[1], ctx)
	if err != nil {
		return Value{}, err
	}
	var acc int
	for i, id := range set {
		v, err := cardProp(id, []string{field}, field, ctx)
		if err != nil {
			return Value{}, err
		}
		if v.Kind != ValInt {
			return Value{}, &TypeMismatchError{Op: string(n.Fn), Want: "int property", Got: v.Kind.String()}
		}
		switch {
		case n.Fn == gamespec.FuncSum:
			acc += v.Int
		case i == 0,
			n.Fn == gamespec.FuncMax && v.Int > acc,
			n.Fn == gamespec.FuncMin && v.Int < acc:
			acc = v.Int
		}
	}
	return IntValue(acc), nil
}

func callArity(fn gamespec.Func, want, got int) error {
	return &TypeMismatchError{
		Op:   string(fn),
		Want: fmt.Sprintf("%d args", want),
		Got:  fmt.Sprintf("%d args", got),
	}
}

func withVar(vars map[string]Value, name string, v Value) map[string]Value {
	out := make(map[string]Value, len(vars)+1)
	for k, val := range vars {
		out[k] = val
	}
	out[name] = v
	return out
}
