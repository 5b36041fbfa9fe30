package innovation

import (
	gs "splay-lite/gamespec"
)

// Card subset for the base game, ages 1 to 3. The full set would be compiled
// from the rules text; this slice is enough to exercise every step kind and
// seat up to four players.

func icons(tl, bl, bc, br gs.Icon) gs.CardIcons {
	return gs.CardIcons{tl, bl, bc, br}
}

func cards() []gs.CardDef {
	return []gs.CardDef{
		// --- Age 1 ---
		{
			ID: "archery", Name: "Archery", Age: 1, Color: gs.ColorRed,
			Icons:    icons(gs.IconCastle, gs.IconLightbulb, gs.IconNone, gs.IconCastle),
			Keywords: []string{"demand"},
			Dogmas: []gs.Effect{{
				ID: "archery_dogma", Name: "Archery Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconCastle,
				Description: "I demand you draw a 1, then transfer the highest card from your hand to my hand!",
				Steps: []gs.Step{
					gs.DemandStep("archery_demand", []gs.Step{
						gs.DrawStep("demand_draw", 1, gs.IntLit(1)),
						{
							Kind: gs.StepTransfer, ID: "demand_transfer",
							From: "hand", To: "demanding_player_hand",
							Select: gs.SelectHighestAge,
						},
					}),
				},
			}},
		},
		{
			ID: "metalworking", Name: "Metalworking", Age: 1, Color: gs.ColorRed,
			Icons: icons(gs.IconCastle, gs.IconCastle, gs.IconNone, gs.IconCastle),
			Dogmas: []gs.Effect{{
				ID: "metalworking_dogma", Name: "Metalworking Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconCastle,
				Description: "Draw and reveal a 1. If it has a castle, score it and repeat.",
				Steps: []gs.Step{{
					Kind: gs.StepRepeat, ID: "metalworking_loop", MaxIterations: 30,
					Body: []gs.Step{
						gs.DrawStep("draw_reveal", 1, gs.IntLit(1)),
						gs.ConditionalStep("check_castle",
							gs.Call{Fn: gs.FuncHasIcon, Args: []gs.Expr{gs.Var("drawn_card"), gs.StrLit("castle")}},
							[]gs.Step{gs.ScoreStep("score_drawn", gs.Var("drawn_card"))},
							[]gs.Step{{Kind: gs.StepSetVar, ID: "stop_loop", Var: "_break", Value: gs.BoolLit(true)}},
						),
					},
				}},
			}},
		},
		{
			ID: "writing", Name: "Writing", Age: 1, Color: gs.ColorBlue,
			Icons: icons(gs.IconNone, gs.IconLightbulb, gs.IconLightbulb, gs.IconCrown),
			Dogmas: []gs.Effect{{
				ID: "writing_dogma", Name: "Writing Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconLightbulb,
				Description: "Draw a 2.",
				Steps: []gs.Step{
					gs.DrawStep("writing_draw", 1, gs.IntLit(2)),
				},
			}},
		},
		{
			ID: "the_wheel", Name: "The Wheel", Age: 1, Color: gs.ColorGreen,
			Icons: icons(gs.IconNone, gs.IconCastle, gs.IconCastle, gs.IconNone),
			Dogmas: []gs.Effect{{
				ID: "the_wheel_dogma", Name: "The Wheel Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconCastle,
				Description: "Draw two 1s.",
				Steps: []gs.Step{
					gs.DrawStep("wheel_draw", 2, gs.IntLit(1)),
				},
			}},
		},
		{
			ID: "agriculture", Name: "Agriculture", Age: 1, Color: gs.ColorYellow,
			Icons: icons(gs.IconNone, gs.IconLeaf, gs.IconLeaf, gs.IconLeaf),
			Dogmas: []gs.Effect{{
				ID: "agriculture_dogma", Name: "Agriculture Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconLeaf,
				Description: "You may return a card from your hand. If you do, draw and score a card of value one higher.",
				Steps: []gs.Step{
					gs.ChooseCardStep("choose_return", "hand", "Choose a card to return (optional)", true),
					gs.ConditionalStep("if_returned", gs.Var("choice_made"),
						[]gs.Step{
							gs.ReturnStep("return_chosen", gs.Var("chosen_card")),
							{Kind: gs.StepDraw, ID: "draw_higher",
								Age: gs.Add(gs.Prop("returned_card.age"), gs.IntLit(1))},
							gs.ScoreStep("score_drawn", gs.Var("drawn_card")),
						}, nil),
				},
			}},
		},
		{
			ID: "domestication", Name: "Domestication", Age: 1, Color: gs.ColorYellow,
			Icons: icons(gs.IconCastle, gs.IconCrown, gs.IconNone, gs.IconCastle),
			Dogmas: []gs.Effect{{
				ID: "domestication_dogma", Name: "Domestication Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconCastle,
				Description: "You may meld a card from your hand. Draw a 1.",
				Steps: []gs.Step{
					gs.ChooseCardStep("choose_meld", "hand", "Choose a card to meld (optional)", true),
					gs.ConditionalStep("if_melded", gs.Var("choice_made"),
						[]gs.Step{gs.MeldStep("meld_chosen", gs.Var("chosen_card"))}, nil),
					gs.DrawStep("domestication_draw", 1, gs.IntLit(1)),
				},
			}},
		},
		{
			ID: "clothing", Name: "Clothing", Age: 1, Color: gs.ColorGreen,
			Icons: icons(gs.IconNone, gs.IconCrown, gs.IconLeaf, gs.IconLeaf),
			Dogmas: []gs.Effect{{
				ID: "clothing_dogma", Name: "Clothing Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconLeaf,
				Description: "You may meld a card from your hand. If you do, draw and score a 1.",
				Steps: []gs.Step{
					gs.ChooseCardStep("choose_meld", "hand", "Choose a card to meld (optional)", true),
					gs.ConditionalStep("if_melded", gs.Var("choice_made"),
						[]gs.Step{
							gs.MeldStep("meld_chosen", gs.Var("chosen_card")),
							gs.DrawStep("clothing_draw", 1, gs.IntLit(1)),
							gs.ScoreStep("score_drawn", gs.Var("drawn_card")),
						}, nil),
				},
			}},
		},
		{
			ID: "mysticism", Name: "Mysticism", Age: 1, Color: gs.ColorPurple,
			Icons: icons(gs.IconNone, gs.IconCastle, gs.IconCastle, gs.IconCastle),
			Dogmas: []gs.Effect{{
				ID: "mysticism_dogma", Name: "Mysticism Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconCastle,
				Description: "Draw a 1. If it matches a color on your board, meld it and draw a 1.",
				Steps: []gs.Step{
					gs.DrawStep("mysticism_draw", 1, gs.IntLit(1)),
					gs.ConditionalStep("if_color_match",
						gs.Call{Fn: gs.FuncHas, Args: []gs.Expr{
							gs.Prop("player.top_cards"),
							gs.Eq(gs.Prop("candidate.color"), gs.Prop("drawn_card.color")),
						}},
						[]gs.Step{
							gs.MeldStep("meld_drawn", gs.Var("drawn_card")),
							gs.DrawStep("mysticism_bonus_draw", 1, gs.IntLit(1)),
						}, nil),
				},
			}},
		},
		{
			ID: "sailing", Name: "Sailing", Age: 1, Color: gs.ColorGreen,
			Icons: icons(gs.IconCrown, gs.IconCrown, gs.IconNone, gs.IconLeaf),
			Dogmas: []gs.Effect{{
				ID: "sailing_dogma", Name: "Sailing Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconCrown,
				Description: "Draw and meld a 1.",
				Steps: []gs.Step{
					gs.DrawStep("sailing_draw", 1, gs.IntLit(1)),
					gs.MeldStep("meld_drawn", gs.Var("drawn_card")),
				},
			}},
		},
		{
			ID: "pottery", Name: "Pottery", Age: 1, Color: gs.ColorBlue,
			Icons: icons(gs.IconNone, gs.IconLeaf, gs.IconLeaf, gs.IconLeaf),
			Dogmas: []gs.Effect{{
				ID: "pottery_dogma", Name: "Pottery Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconLeaf,
				Description: "You may return a card from your hand. If you do, draw and score a 1.",
				Steps: []gs.Step{
					gs.ChooseCardStep("choose_return", "hand", "Choose a card to return (optional)", true),
					gs.ConditionalStep("if_returned", gs.Var("choice_made"),
						[]gs.Step{
							gs.ReturnStep("return_chosen", gs.Var("chosen_card")),
							gs.DrawStep("pottery_draw", 1, gs.IntLit(1)),
							gs.ScoreStep("score_drawn", gs.Var("drawn_card")),
						}, nil),
				},
			}},
		},

		// --- Age 2 ---
		{
			ID: "calendar", Name: "Calendar", Age: 2, Color: gs.ColorBlue,
			Icons: icons(gs.IconNone, gs.IconLeaf, gs.IconLeaf, gs.IconLightbulb),
			Dogmas: []gs.Effect{{
				ID: "calendar_dogma", Name: "Calendar Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconLeaf,
				Description: "If you have more cards in your score pile than in your hand, draw two 3s.",
				Steps: []gs.Step{
					gs.ConditionalStep("check_score_hand",
						gs.GT(gs.Prop("player.score_pile.count"), gs.Prop("player.hand.count")),
						[]gs.Step{gs.DrawStep("calendar_draw", 2, gs.IntLit(3))}, nil),
				},
			}},
		},
		{
			ID: "road_building", Name: "Road Building", Age: 2, Color: gs.ColorRed,
			Icons: icons(gs.IconCastle, gs.IconCastle, gs.IconNone, gs.IconCastle),
			Dogmas: []gs.Effect{{
				ID: "road_building_dogma", Name: "Road Building Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconCastle,
				Description: "Meld one or two cards from your hand. If you melded two, transfer your top red or yellow card to another player's board.",
				Steps: []gs.Step{
					gs.ChooseCardStep("choose_meld_1", "hand", "Choose a card to meld", false),
					gs.MeldStep("meld_first", gs.Var("chosen_card")),
					{Kind: gs.StepChooseCard, ID: "choose_meld_2", Choice: &gs.ChoiceSpec{
						Kind: gs.ChoiceCard, Source: "hand",
						Prompt: "Choose another card to meld (optional)", Optional: true,
						Bind: "second_card",
					}},
					gs.ConditionalStep("if_melded_two", gs.Var("choice_made"),
						[]gs.Step{
							gs.MeldStep("meld_second", gs.Var("second_card")),
							gs.ChooseOptionStep("choose_color", "Choose red or yellow to transfer", "red", "yellow"),
							{Kind: gs.StepChoosePlayer, ID: "choose_recipient", Choice: &gs.ChoiceSpec{
								Kind: gs.ChoicePlayer, Source: "opponents",
								Prompt: "Choose a player to receive the card",
							}},
							{Kind: gs.StepTransfer, ID: "transfer_card",
								From: "board", To: "chosen_player_board",
								Color: gs.Var("chosen_option")},
						}, nil),
				},
			}},
		},
		{
			ID: "currency", Name: "Currency", Age: 2, Color: gs.ColorGreen,
			Icons: icons(gs.IconLeaf, gs.IconCrown, gs.IconNone, gs.IconCrown),
			Dogmas: []gs.Effect{{
				ID: "currency_dogma", Name: "Currency Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconCrown,
				Description: "You may return a card from your hand. If you do, draw and score a 2.",
				Steps: []gs.Step{
					gs.ChooseCardStep("choose_return", "hand", "Choose a card to return (optional)", true),
					gs.ConditionalStep("if_returned", gs.Var("choice_made"),
						[]gs.Step{
							gs.ReturnStep("return_chosen", gs.Var("chosen_card")),
							gs.DrawStep("currency_draw", 1, gs.IntLit(2)),
							gs.ScoreStep("score_drawn", gs.Var("drawn_card")),
						}, nil),
				},
			}},
		},
		{
			ID: "fermenting", Name: "Fermenting", Age: 2, Color: gs.ColorYellow,
			Icons: icons(gs.IconLeaf, gs.IconLeaf, gs.IconNone, gs.IconCastle),
			Dogmas: []gs.Effect{{
				ID: "fermenting_dogma", Name: "Fermenting Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconLeaf,
				Description: "Draw a 2 for every two leaf icons on your board.",
				Steps: []gs.Step{{
					Kind: gs.StepDraw, ID: "fermenting_draw",
					Count: gs.Arith{Op: gs.ArithDiv,
						L: gs.Call{Fn: gs.FuncIconCount, Args: []gs.Expr{gs.StrLit("leaf")}},
						R: gs.IntLit(2)},
					Age: gs.IntLit(2),
				}},
			}},
		},
		{
			ID: "mathematics", Name: "Mathematics", Age: 2, Color: gs.ColorBlue,
			Icons: icons(gs.IconLightbulb, gs.IconNone, gs.IconLightbulb, gs.IconLightbulb),
			Dogmas: []gs.Effect{{
				ID: "mathematics_dogma", Name: "Mathematics Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconLightbulb,
				Description: "You may return a card from your hand. If you do, draw and meld a card of value one higher.",
				Steps: []gs.Step{
					gs.ChooseCardStep("choose_return", "hand", "Choose a card to return (optional)", true),
					gs.ConditionalStep("if_returned", gs.Var("choice_made"),
						[]gs.Step{
							gs.ReturnStep("return_chosen", gs.Var("chosen_card")),
							{Kind: gs.StepDraw, ID: "draw_higher",
								Age: gs.Add(gs.Prop("returned_card.age"), gs.IntLit(1))},
							gs.MeldStep("meld_drawn", gs.Var("drawn_card")),
						}, nil),
				},
			}},
		},

		// --- Age 3 ---
		{
			ID: "optics", Name: "Optics", Age: 3, Color: gs.ColorRed,
			Icons: icons(gs.IconCastle, gs.IconCrown, gs.IconCrown, gs.IconNone),
			Dogmas: []gs.Effect{{
				ID: "optics_dogma", Name: "Optics Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconCrown,
				Description: "Draw and meld a 3. If it has a crown, draw and score a 4. Otherwise, you may give a score card to an opponent.",
				Steps: []gs.Step{
					gs.DrawStep("optics_draw", 1, gs.IntLit(3)),
					gs.MeldStep("meld_drawn", gs.Var("drawn_card")),
					gs.ConditionalStep("if_crown",
						gs.Call{Fn: gs.FuncHasIcon, Args: []gs.Expr{gs.Var("melded_card"), gs.StrLit("crown")}},
						[]gs.Step{
							gs.DrawStep("bonus_draw", 1, gs.IntLit(4)),
							gs.ScoreStep("score_drawn", gs.Var("drawn_card")),
						},
						[]gs.Step{
							{Kind: gs.StepChooseCard, ID: "choose_give", Choice: &gs.ChoiceSpec{
								Kind: gs.ChoiceCard, Source: "score_pile",
								Prompt: "Choose a score card to give (optional)", Optional: true,
								Bind: "give_card",
							}},
							gs.ConditionalStep("if_give", gs.Var("choice_made"),
								[]gs.Step{
									{Kind: gs.StepChoosePlayer, ID: "choose_taker", Choice: &gs.ChoiceSpec{
										Kind: gs.ChoicePlayer, Source: "opponents",
										Prompt: "Choose a player to receive the card",
									}},
									{Kind: gs.StepTransfer, ID: "give_card",
										Card: gs.Var("give_card"),
										From: "score_pile", To: "chosen_player_score_pile"},
								}, nil),
						}),
				},
			}},
		},
		{
			ID: "paper", Name: "Paper", Age: 3, Color: gs.ColorGreen,
			Icons: icons(gs.IconNone, gs.IconLightbulb, gs.IconLightbulb, gs.IconCrown),
			Dogmas: []gs.Effect{{
				ID: "paper_dogma", Name: "Paper Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconLightbulb,
				Description: "You may splay your green or blue cards left. Draw a 4.",
				Steps: []gs.Step{
					{Kind: gs.StepChooseOption, ID: "choose_splay", Choice: &gs.ChoiceSpec{
						Kind: gs.ChoiceOption, Options: []string{"green", "blue"},
						Prompt: "Choose a color to splay left (optional)", Optional: true,
					}},
					gs.ConditionalStep("if_splay", gs.Var("choice_made"),
						[]gs.Step{gs.SplayStep("splay_left", gs.Var("chosen_option"), gs.SplayLeft)}, nil),
					gs.DrawStep("paper_draw", 1, gs.IntLit(4)),
				},
			}},
		},
		{
			ID: "education", Name: "Education", Age: 3, Color: gs.ColorPurple,
			Icons: icons(gs.IconLightbulb, gs.IconLightbulb, gs.IconLightbulb, gs.IconNone),
			Dogmas: []gs.Effect{{
				ID: "education_dogma", Name: "Education Dogma",
				Kind: gs.EffectDogma, TriggerIcon: gs.IconLightbulb,
				Description: "You may return a card from your score pile. If you do, draw a card of value two higher.",
				Steps: []gs.Step{
					gs.ChooseCardStep("choose_return", "score_pile", "Choose a score card to return (optional)", true),
					gs.ConditionalStep("if_returned", gs.Var("choice_made"),
						[]gs.Step{
							gs.ReturnStep("return_chosen", gs.Var("chosen_card")),
							{Kind: gs.StepDraw, ID: "draw_higher",
								Age: gs.Add(gs.Prop("returned_card.age"), gs.IntLit(2))},
						}, nil),
				},
			}},
		},
	}
}
