package replay

import (
	"encoding/json"
	"fmt"

	"splay-lite/engine"
	"splay-lite/gamespec"
)

const tapeVersion = 1

type tapeBuilder struct {
	tape *ReplayTape
	seq  uint64
}

func newTapeBuilder(gameID, heroID string) *tapeBuilder {
	return &tapeBuilder{tape: &ReplayTape{
		TapeVersion: tapeVersion,
		GameID:      gameID,
		HeroID:      heroID,
	}}
}

func (b *tapeBuilder) add(eventType string, payload any) {
	value, err := json.Marshal(payload)
	if err != nil {
		// Payloads are our own plain structs; marshaling cannot fail.
		panic(fmt.Sprintf("marshal %s event: %v", eventType, err))
	}
	b.seq++
	b.tape.Events = append(b.tape.Events, ReplayEvent{
		Type:  eventType,
		Seq:   b.seq,
		Value: value,
	})
}

func (b *tapeBuilder) addSnapshot(spec *gamespec.GameSpec, st *engine.State, heroID string) {
	b.add(EventSnapshot, engine.TakeSnapshot(spec, st, heroID))
}

// GenerateReplayTape plays the script through the engine and records the
// event stream a spectator at the hero's seat would have seen. The same
// script always yields the same tape.
func GenerateReplayTape(spec *gamespec.GameSpec, script GameScript) (*ReplayTape, error) {
	ns, err := normalizeScript(script)
	if err != nil {
		return nil, err
	}

	st, err := engine.NewGame(spec, engine.Config{
		GameID:       ns.gameID,
		Players:      ns.seats,
		Seed:         script.Seed,
		DeckOverride: script.Decks,
	})
	if err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "engine_init_failed", Message: err.Error()}
	}

	reducer := engine.NewReducer(spec)
	builder := newTapeBuilder(st.GameID, ns.heroID)
	builder.addSnapshot(spec, st, ns.heroID)

	for stepIdx, move := range ns.moves {
		if st.Ended() {
			return nil, &ReplayError{
				StepIndex: stepIdx,
				Reason:    "no_action_expected",
				Message:   "game is already over; no further moves are allowed",
			}
		}
		if who := st.CurrentPlayerState().ID; who != move.action.PlayerID {
			return nil, &ReplayError{
				StepIndex: stepIdx,
				Reason:    "out_of_turn",
				Message:   fmt.Sprintf("expected a move by %s, got %s", who, move.action.PlayerID),
				Expected:  expectedState(reducer, st),
			}
		}
		legal, err := reducer.Generator().IsLegal(st, move.action)
		if err != nil {
			return nil, &ReplayError{StepIndex: stepIdx, Reason: "legality_check_failed", Message: err.Error()}
		}
		if !legal {
			return nil, &ReplayError{
				StepIndex: stepIdx,
				Reason:    "illegal_action",
				Message:   fmt.Sprintf("%s is not legal", move.action),
				Expected:  expectedState(reducer, st),
			}
		}

		out, err := reducer.Apply(st, move.action)
		if err != nil {
			return nil, &ReplayError{StepIndex: stepIdx, Reason: "action_apply_failed", Message: err.Error()}
		}
		answered := 0
		for out.Pending != nil {
			pc := out.Pending.Choice()
			if answered >= len(move.choices) {
				return nil, &ReplayError{
					StepIndex: stepIdx,
					Reason:    "missing_choice_answer",
					Message: fmt.Sprintf("move asked %q of %s but the script has only %d answers",
						pc.Prompt, pc.PlayerID, len(move.choices)),
				}
			}
			picks := move.choices[answered]
			answered++
			builder.add(EventChoice, ChoiceEvent{
				Player:  pc.PlayerID,
				Prompt:  pc.Prompt,
				Options: pc.Options,
				Min:     pc.Min,
				Max:     pc.Max,
				Picks:   picks,
			})
			out, err = reducer.Resume(out.Pending, pc.ChoiceID, picks)
			if err != nil {
				return nil, &ReplayError{StepIndex: stepIdx, Reason: "choice_rejected", Message: err.Error()}
			}
		}
		if answered < len(move.choices) {
			return nil, &ReplayError{
				StepIndex: stepIdx,
				Reason:    "unused_choice_answers",
				Message:   fmt.Sprintf("move scripted %d answers, action asked %d", len(move.choices), answered),
			}
		}

		st = out.State
		builder.add(EventActionResult, ActionResultEvent{
			Player: move.action.PlayerID,
			Action: move.action.Kind.String(),
			Card:   move.action.CardID,
		})
		builder.addSnapshot(spec, st, ns.heroID)
	}

	if st.Ended() {
		builder.add(EventGameEnd, GameEndEvent{
			Winner: st.Result.WinnerID,
			Reason: st.Result.Reason,
		})
	}
	return builder.tape, nil
}

func expectedState(reducer *engine.Reducer, st *engine.State) *ExpectedState {
	who := st.CurrentPlayerState().ID
	out := &ExpectedState{CurrentPlayer: who}
	legal, err := reducer.Generator().Legal(st, who)
	if err != nil {
		return out
	}
	for _, a := range legal {
		out.LegalActions = append(out.LegalActions, a.String())
	}
	return out
}
