package engine

import (
	"fmt"
	"strings"
)

// ValueKind tags the runtime kind of an expression result.
type ValueKind byte

const (
	ValInt ValueKind = iota
	ValBool
	ValString
	ValCard
	ValCardSet
	ValPlayer
	ValPlayerSet
	ValNone
)

func (k ValueKind) String() string {
	switch k {
	case ValInt:
		return "int"
	case ValBool:
		return "bool"
	case ValString:
		return "string"
	case ValCard:
		return "card"
	case ValCardSet:
		return "card_set"
	case ValPlayer:
		return "player"
	case ValPlayerSet:
		return "player_set"
	case ValNone:
		return "none"
	default:
		return "invalid_value"
	}
}

// Value is the tagged result of evaluating an expression. Cards and players
// are carried by ID; the evaluator resolves them against the state on demand.
type Value struct {
	Kind    ValueKind
	Int     int
	Bool    bool
	Str     string
	Cards   []string // ValCard uses Cards[0]; ValCardSet holds all
	Players []string // ValPlayer uses Players[0]; ValPlayerSet holds all
}

func IntValue(i int) Value       { return Value{Kind: ValInt, Int: i} }
func BoolValue(b bool) Value     { return Value{Kind: ValBool, Bool: b} }
func StringValue(s string) Value { return Value{Kind: ValString, Str: s} }
func NoneValue() Value           { return Value{Kind: ValNone} }

func CardValue(id string) Value {
	return Value{Kind: ValCard, Cards: []string{id}}
}

func CardSetValue(ids []string) Value {
	return Value{Kind: ValCardSet, Cards: ids}
}

func PlayerValue(id string) Value {
	return Value{Kind: ValPlayer, Players: []string{id}}
}

func PlayerSetValue(ids []string) Value {
	return Value{Kind: ValPlayerSet, Players: ids}
}

// CardID returns the single card the value carries.
func (v Value) CardID() (string, bool) {
	if v.Kind == ValCard && len(v.Cards) == 1 {
		return v.Cards[0], true
	}
	return "", false
}

func (v Value) String() string {
	switch v.Kind {
	case ValInt:
		return fmt.Sprintf("%d", v.Int)
	case ValBool:
		return fmt.Sprintf("%t", v.Bool)
	case ValString:
		return v.Str
	case ValCard:
		if len(v.Cards) == 1 {
			return "card:" + v.Cards[0]
		}
		return "card:?"
	case ValCardSet:
		return "cards:[" + strings.Join(v.Cards, ",") + "]"
	case ValPlayer:
		if len(v.Players) == 1 {
			return "player:" + v.Players[0]
		}
		return "player:?"
	case ValPlayerSet:
		return "players:[" + strings.Join(v.Players, ",") + "]"
	case ValNone:
		return "none"
	default:
		return "invalid"
	}
}
