package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrTerminalState rejects actions and choices on a finished game.
	ErrTerminalState = errors.New("game already over")

	// ErrNoChoicePending rejects a choice answer when nothing is suspended.
	ErrNoChoicePending = errors.New("no choice pending")
)

// UnresolvedRefError is returned when an expression or effect references a
// card, zone, variable or player that cannot be resolved in the current
// state. It aborts the enclosing action atomically.
type UnresolvedRefError struct {
	Kind string // "card", "zone", "var", "player", "root", "effect"
	Ref  string
}

func (e *UnresolvedRefError) Error() string {
	return fmt.Sprintf("unresolved %s reference %q", e.Kind, e.Ref)
}

// TypeMismatchError is returned when an expression operand has the wrong
// runtime kind for its operator.
type TypeMismatchError struct {
	Op   string
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch in %s: want %s, got %s", e.Op, e.Want, e.Got)
}

// IllegalActionError is returned when a submitted action is not in the legal
// set for the acting player.
type IllegalActionError struct {
	PlayerID string
	Action   string
	Detail   string
}

func (e *IllegalActionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("illegal action %s by %s", e.Action, e.PlayerID)
	}
	return fmt.Sprintf("illegal action %s by %s: %s", e.Action, e.PlayerID, e.Detail)
}

// IllegalChoiceError is returned when a choice answer does not match the
// pending choice or picks values outside the enumerated options.
type IllegalChoiceError struct {
	ChoiceID string
	Detail   string
}

func (e *IllegalChoiceError) Error() string {
	return fmt.Sprintf("illegal choice for %s: %s", e.ChoiceID, e.Detail)
}
