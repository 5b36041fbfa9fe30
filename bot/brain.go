// Package bot provides automated players: a policy interface, a tunable
// greedy policy and a driver that plays seated policies through a game.
package bot

import (
	"splay-lite/engine"
	"splay-lite/gamespec"
)

// Policy is the core interface all bot types implement.
type Policy interface {
	// ChooseAction is called on the bot's turn with its legal actions.
	// The slice is never empty.
	ChooseAction(spec *gamespec.GameSpec, st *engine.State, legal []engine.Action) engine.Action
	// AnswerChoice is called when a suspended action waits on this bot.
	// st is the canonical state the action was applied to.
	AnswerChoice(spec *gamespec.GameSpec, st *engine.State, pc *engine.PendingChoice) []string
	// Name returns a human-readable identifier for debugging.
	Name() string
}
