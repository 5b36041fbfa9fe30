// Package innovation builds the GameSpec for the base Innovation-style card
// game: five colors, six icons, shared achievements and the standard
// draw/meld/dogma/achieve turn.
package innovation

import (
	gs "splay-lite/gamespec"
)

// SpecID identifies this ruleset in states, replays and archives.
const SpecID = "innovation_base"

// NewSpec assembles the full ruleset. The result validates cleanly; tests
// pin that.
func NewSpec() *gs.GameSpec {
	return &gs.GameSpec{
		ID:      SpecID,
		Name:    "Innovation (base)",
		Version: "1.0",

		MinPlayers: 2,
		MaxPlayers: 4,

		Icons: []gs.Icon{
			gs.IconCastle, gs.IconCrown, gs.IconLeaf,
			gs.IconLightbulb, gs.IconFactory, gs.IconClock,
		},
		Colors: []gs.Color{
			gs.ColorRed, gs.ColorYellow, gs.ColorGreen, gs.ColorBlue, gs.ColorPurple,
		},

		Zones: []gs.ZoneDef{
			{Name: "hand", Kind: gs.ZoneHand, Owner: gs.OwnerPlayer, Ordered: true, Hidden: true},
			{Name: "score_pile", Kind: gs.ZoneScorePile, Owner: gs.OwnerPlayer, Ordered: true, Hidden: true},
			{Name: "board", Kind: gs.ZoneBoard, Owner: gs.OwnerPlayer, Ordered: true},
			{Name: "achievements", Kind: gs.ZoneAchievements, Owner: gs.OwnerShared, Ordered: true},
			{Name: "supply", Kind: gs.ZoneSupply, Owner: gs.OwnerShared, Ordered: true, Hidden: true},
		},

		Cards: cards(),

		Actions: []gs.ActionDef{
			{Name: "draw", Description: "Draw a card of your highest top card age."},
			{Name: "meld", Description: "Play a card from your hand onto its color stack."},
			{Name: "dogma", Description: "Activate the dogma effects of one of your top cards."},
			{Name: "achieve", Description: "Claim an available achievement you qualify for."},
			{Name: "pass", Description: "Forfeit your remaining actions."},
		},

		Turn: gs.TurnStructure{
			ActionsPerTurn:   2,
			FirstTurnActions: 1,
			CanPass:          true,
		},
		Setup: gs.SetupRules{
			OpeningHandSize: 2,
			OpeningHandAge:  1,
		},

		WinConditions: []gs.WinCondition{
			{
				Kind:        gs.WinAchievementCount,
				Description: "Claim enough achievements for the table size.",
				Threshold:   6,
				ThresholdByPlayers: map[int]int{
					2: 6,
					3: 5,
					4: 4,
				},
			},
			{
				Kind:        gs.WinDeckExhaustion,
				Description: "If a draw escalates past the highest deck, the highest score wins.",
			},
		},

		AchievementAges: []int{1, 2, 3},
	}
}
