package gamespec

// Expr is a node of the typed expression tree used by preconditions, step
// parameters and choice filters. The variant set is closed: the evaluator
// dispatches over it with a single exhaustive type switch and rejects any
// value outside this file.
type Expr interface {
	exprNode()
}

// IntLit is an integer literal.
type IntLit int

// BoolLit is a boolean literal.
type BoolLit bool

// StrLit is a string literal (icon names, colors, option IDs).
type StrLit string

// Var reads a binding from the current interpreter frame: loop variables,
// choice results ("chosen_card"), or step products ("drawn_card").
type Var string

// Prop reads a dotted property path rooted at one of the evaluation context's
// well-known roots, e.g. "player.score", "player.hand.count",
// "source_card.age", "highest_top_card_age".
type Prop string

// CmpOp is a comparison operator.
type CmpOp byte

const (
	CmpEQ CmpOp = iota
	CmpNE
	CmpLT
	CmpLE
	CmpGT
	CmpGE
)

func (op CmpOp) String() string {
	switch op {
	case CmpEQ:
		return "=="
	case CmpNE:
		return "!="
	case CmpLT:
		return "<"
	case CmpLE:
		return "<="
	case CmpGT:
		return ">"
	case CmpGE:
		return ">="
	default:
		return "?"
	}
}

// Cmp compares two operands. Both sides must evaluate to the same scalar kind.
type Cmp struct {
	Op   CmpOp
	L, R Expr
}

// And is boolean conjunction over its operands, true when empty.
type And struct {
	Operands []Expr
}

// Or is boolean disjunction over its operands, false when empty.
type Or struct {
	Operands []Expr
}

// Not negates a boolean operand.
type Not struct {
	X Expr
}

// ArithOp is an arithmetic operator.
type ArithOp byte

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithMul
	ArithDiv
)

func (op ArithOp) String() string {
	switch op {
	case ArithAdd:
		return "+"
	case ArithSub:
		return "-"
	case ArithMul:
		return "*"
	case ArithDiv:
		return "/"
	default:
		return "?"
	}
}

// Arith applies integer arithmetic to two operands. Division truncates toward
// zero; dividing by zero is an evaluation error.
type Arith struct {
	Op   ArithOp
	L, R Expr
}

// Func names a built-in aggregate function.
type Func string

const (
	// FuncCount returns the size of a card or player set.
	FuncCount Func = "count"
	// FuncSum projects an integer property over a card set and sums it:
	// sum(set, "age").
	FuncSum Func = "sum"
	// FuncHas reports whether any card in the set satisfies a predicate
	// evaluated with "candidate" bound to each card: has(set, pred).
	FuncHas Func = "has"
	// FuncMax / FuncMin project an integer property over a card set and
	// return its extremum, 0 for empty sets.
	FuncMax Func = "max"
	FuncMin Func = "min"
	// FuncIconCount counts the named icon visible across the evaluating
	// player's board, splay-aware: icon_count("castle").
	FuncIconCount Func = "icon_count"
	// FuncHasIcon reports whether a card value carries the named icon
	// anywhere on its face: has_icon(card, "castle").
	FuncHasIcon Func = "has_icon"
	// FuncHighestAge returns the highest age among the evaluating player's
	// top board cards, 0 for an empty board.
	FuncHighestAge Func = "highest_age"
)

// Call invokes a built-in aggregate function.
type Call struct {
	Fn   Func
	Args []Expr
}

func (IntLit) exprNode()  {}
func (BoolLit) exprNode() {}
func (StrLit) exprNode()  {}
func (Var) exprNode()     {}
func (Prop) exprNode()    {}
func (Cmp) exprNode()     {}
func (And) exprNode()     {}
func (Or) exprNode()      {}
func (Not) exprNode()     {}
func (Arith) exprNode()   {}
func (Call) exprNode()    {}

// Eq is shorthand for Cmp{CmpEQ, l, r}.
func Eq(l, r Expr) Expr { return Cmp{Op: CmpEQ, L: l, R: r} }

// GE is shorthand for Cmp{CmpGE, l, r}.
func GE(l, r Expr) Expr { return Cmp{Op: CmpGE, L: l, R: r} }

// GT is shorthand for Cmp{CmpGT, l, r}.
func GT(l, r Expr) Expr { return Cmp{Op: CmpGT, L: l, R: r} }

// AllOf is shorthand for And over the given operands.
func AllOf(ops ...Expr) Expr { return And{Operands: ops} }

// Mul is shorthand for Arith{ArithMul, l, r}.
func Mul(l, r Expr) Expr { return Arith{Op: ArithMul, L: l, R: r} }

// Add is shorthand for Arith{ArithAdd, l, r}.
func Add(l, r Expr) Expr { return Arith{Op: ArithAdd, L: l, R: r} }
