package engine

import (
	"testing"

	gs "splay-lite/gamespec"
)

// testSpec builds a small fixed ruleset for engine tests: enough cards per
// age for a two-player setup, plus purpose-built dogmas exercising choices,
// demands and failure paths.
func testSpec() *gs.GameSpec {
	ic := func(tl, bl, bc, br gs.Icon) gs.CardIcons {
		return gs.CardIcons{tl, bl, bc, br}
	}
	return &gs.GameSpec{
		ID:         "test_spec",
		Name:       "Test Spec",
		Version:    "1.0",
		MinPlayers: 2,
		MaxPlayers: 4,
		Icons:      []gs.Icon{gs.IconCastle, gs.IconCrown, gs.IconLeaf, gs.IconLightbulb, gs.IconClock},
		Colors:     []gs.Color{gs.ColorRed, gs.ColorYellow, gs.ColorGreen, gs.ColorBlue, gs.ColorPurple},
		Zones: []gs.ZoneDef{
			{Name: "hand", Kind: gs.ZoneHand, Owner: gs.OwnerPlayer, Ordered: true, Hidden: true},
			{Name: "score_pile", Kind: gs.ZoneScorePile, Owner: gs.OwnerPlayer, Ordered: true, Hidden: true},
			{Name: "board", Kind: gs.ZoneBoard, Owner: gs.OwnerPlayer, Ordered: true},
			{Name: "achievements", Kind: gs.ZoneAchievements, Owner: gs.OwnerShared, Ordered: true},
			{Name: "supply", Kind: gs.ZoneSupply, Owner: gs.OwnerShared, Ordered: true, Hidden: true},
		},
		Cards: []gs.CardDef{
			{ID: "red1", Name: "Red One", Age: 1, Color: gs.ColorRed,
				Icons: ic(gs.IconCastle, gs.IconCastle, gs.IconNone, gs.IconCastle)},
			{ID: "red1b", Name: "Red One B", Age: 1, Color: gs.ColorRed,
				Icons: ic(gs.IconCastle, gs.IconNone, gs.IconCastle, gs.IconNone)},
			{ID: "yellow1", Name: "Yellow One", Age: 1, Color: gs.ColorYellow,
				Icons: ic(gs.IconNone, gs.IconLeaf, gs.IconLeaf, gs.IconLeaf)},
			{ID: "green1", Name: "Green One", Age: 1, Color: gs.ColorGreen,
				Icons: ic(gs.IconCrown, gs.IconCrown, gs.IconNone, gs.IconLeaf)},
			{ID: "blue1", Name: "Blue One", Age: 1, Color: gs.ColorBlue,
				Icons: ic(gs.IconNone, gs.IconLightbulb, gs.IconLightbulb, gs.IconCrown),
				Dogmas: []gs.Effect{{
					ID: "blue1_dogma", Name: "Chooser",
					Kind: gs.EffectDogma, TriggerIcon: gs.IconLightbulb,
					Steps: []gs.Step{
						gs.ChooseCardStep("pick_to_score", "hand", "Choose a card to score", false),
						gs.ScoreStep("score_pick", gs.Var("chosen_card")),
					},
				}}},
			{ID: "purple1", Name: "Purple One", Age: 1, Color: gs.ColorPurple,
				Icons: ic(gs.IconCastle, gs.IconNone, gs.IconCastle, gs.IconCastle),
				Dogmas: []gs.Effect{{
					ID: "purple1_dogma", Name: "Demander",
					Kind: gs.EffectDogma, TriggerIcon: gs.IconCastle,
					Steps: []gs.Step{
						gs.DemandStep("purple1_demand", []gs.Step{
							gs.DrawStep("demand_draw", 1, gs.IntLit(1)),
							{Kind: gs.StepTransfer, ID: "demand_transfer",
								From: "hand", To: "demanding_player_hand",
								Select: gs.SelectHighestAge},
						}),
					},
				}}},
			{ID: "red2", Name: "Red Two", Age: 2, Color: gs.ColorRed,
				Icons: ic(gs.IconCastle, gs.IconCrown, gs.IconNone, gs.IconCastle),
				Dogmas: []gs.Effect{{
					ID: "red2_dogma", Name: "Breaker",
					Kind: gs.EffectDogma, TriggerIcon: gs.IconCastle,
					Steps: []gs.Step{
						gs.DrawStep("break_draw", 1, gs.IntLit(1)),
						gs.ScoreStep("score_missing", gs.Var("never_bound")),
					},
				}}},
			{ID: "green2", Name: "Green Two", Age: 2, Color: gs.ColorGreen,
				Icons: ic(gs.IconNone, gs.IconLeaf, gs.IconLeaf, gs.IconCrown),
				Dogmas: []gs.Effect{{
					ID: "green2_dogma", Name: "Each Scorer",
					Kind: gs.EffectDogma, TriggerIcon: gs.IconLeaf,
					Steps: []gs.Step{{
						Kind: gs.StepForEach, ID: "score_hand",
						LoopVar: "loop_card", Over: gs.Prop("player.hand"),
						Body: []gs.Step{
							gs.ScoreStep("score_loop", gs.Var("loop_card")),
						},
					}},
				}}},
			{ID: "blue3", Name: "Blue Three", Age: 3, Color: gs.ColorBlue,
				Icons: ic(gs.IconLightbulb, gs.IconLightbulb, gs.IconNone, gs.IconLightbulb)},
			{ID: "yellow3", Name: "Yellow Three", Age: 3, Color: gs.ColorYellow,
				Icons: ic(gs.IconNone, gs.IconLeaf, gs.IconLeaf, gs.IconCrown)},
			{ID: "purple4", Name: "Purple Four", Age: 4, Color: gs.ColorPurple,
				Icons: ic(gs.IconClock, gs.IconNone, gs.IconClock, gs.IconCrown)},
			{ID: "green4", Name: "Green Four", Age: 4, Color: gs.ColorGreen,
				Icons: ic(gs.IconCrown, gs.IconClock, gs.IconNone, gs.IconClock)},
		},
		Actions: []gs.ActionDef{
			{Name: "draw"}, {Name: "meld"}, {Name: "dogma"}, {Name: "achieve"}, {Name: "pass"},
		},
		Turn:  gs.TurnStructure{ActionsPerTurn: 2, FirstTurnActions: 1, CanPass: true},
		Setup: gs.SetupRules{OpeningHandSize: 1, OpeningHandAge: 1},
		WinConditions: []gs.WinCondition{
			{Kind: gs.WinAchievementCount, Threshold: 1},
			{Kind: gs.WinDeckExhaustion},
		},
		AchievementAges: []int{1},
	}
}

func mustNewGame(t *testing.T, spec *gs.GameSpec, cfg Config) *State {
	t.Helper()
	st, err := NewGame(spec, cfg)
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	return st
}

func twoSeats() []Seat {
	return []Seat{{ID: "p1", Name: "Alice", Human: true}, {ID: "p2", Name: "Bob"}}
}

// takeCard pulls a card out of the supply, the shared achievements or a
// hand so tests can place it elsewhere without duplicating it.
func takeCard(t *testing.T, st *State, id string) {
	t.Helper()
	for _, d := range st.Supply {
		if d.Remove(id) {
			return
		}
	}
	if st.Achievements.Remove(id) {
		return
	}
	for _, p := range st.Players {
		if p.Hand.Remove(id) {
			return
		}
	}
	t.Fatalf("card %q not available to take", id)
}

// fixedDecks pins every deck so tests control all draws: age 1 top-first
// red1, red1b, yellow1, green1, blue1, purple1.
func fixedDecks() map[int][]string {
	return map[int][]string{
		1: {"red1", "red1b", "yellow1", "green1", "blue1", "purple1"},
		2: {"red2", "green2"},
		3: {"blue3", "yellow3"},
		4: {"purple4", "green4"},
	}
}
