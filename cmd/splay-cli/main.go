// Command splay-cli seats bot personas at an Innovation-style table and
// plays a seeded game to completion, printing snapshots along the way.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"splay-lite/bot"
	"splay-lite/engine"
	"splay-lite/games/innovation"
	"splay-lite/gamespec"
)

var defaultPersonas = []*bot.Persona{
	{
		ID: "scholar", Name: "The Scholar", Tagline: "Reads everything twice.", Tier: 1,
		Brain: bot.Weights{ScoreDrive: 0.7, IconDrive: 0.5, AchieveDrive: 1.0, DogmaDrive: 0.8, Randomness: 0.1},
	},
	{
		ID: "magpie", Name: "The Magpie", Tagline: "Collects whatever glitters.", Tier: 2,
		Brain: bot.Weights{ScoreDrive: 0.4, IconDrive: 0.9, AchieveDrive: 0.6, DogmaDrive: 0.3, Randomness: 0.4},
	},
	{
		ID: "wanderer", Name: "The Wanderer", Tagline: "No plan survives contact.", Tier: 3,
		Brain: bot.Weights{ScoreDrive: 0.5, IconDrive: 0.5, AchieveDrive: 0.8, DogmaDrive: 0.5, Randomness: 0.8},
	},
	{
		ID: "miser", Name: "The Miser", Tagline: "Every point counts twice.", Tier: 2,
		Brain: bot.Weights{ScoreDrive: 1.0, IconDrive: 0.2, AchieveDrive: 0.9, DogmaDrive: 0.6, Randomness: 0.2},
	},
}

func main() {
	seed := flag.Int64("seed", 1, "game seed; the same seed replays the same game")
	players := flag.Int("players", 2, "number of bot seats (2-4)")
	maxActions := flag.Int("max-actions", 2000, "abort after this many actions")
	quiet := flag.Bool("quiet", false, "only print the final snapshot")
	flag.Parse()

	if *players < 2 || *players > len(defaultPersonas) {
		log.Fatalf("[CLI] players must be between 2 and %d", len(defaultPersonas))
	}

	spec := innovation.NewSpec()
	var seats []engine.Seat
	policies := make(map[string]bot.Policy, *players)
	for i := 0; i < *players; i++ {
		persona := defaultPersonas[i]
		id := fmt.Sprintf("bot_%d", i+1)
		seats = append(seats, engine.Seat{ID: id, Name: persona.Name})
		policies[id] = bot.NewGreedy(persona, *seed+int64(i))
	}

	st, err := engine.NewGame(spec, engine.Config{Players: seats, Seed: *seed})
	if err != nil {
		log.Fatalf("[CLI] new game: %v", err)
	}
	log.Printf("[CLI] %s: %d seats, seed %d", spec.Name, *players, *seed)

	driver := bot.NewDriver(spec, policies)
	actions := 0
	for !st.Ended() && actions < *maxActions {
		next, err := driver.Step(st)
		if err != nil {
			log.Fatalf("[CLI] action %d: %v", actions, err)
		}
		st = next
		actions++
		if !*quiet && st.ActionsRemaining == spec.Turn.ActionsPerTurn {
			printTurnLine(spec, st, seats)
		}
	}

	if st.Ended() {
		log.Printf("[CLI] game over after %d actions: %s wins (%s)",
			actions, st.Result.WinnerID, st.Result.Reason)
	} else {
		log.Printf("[CLI] stopped after %d actions without a result", actions)
	}

	snap := engine.TakeSnapshot(spec, st, "")
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		log.Fatalf("[CLI] encode snapshot: %v", err)
	}
}

func printTurnLine(spec *gamespec.GameSpec, st *engine.State, seats []engine.Seat) {
	line := fmt.Sprintf("[CLI] turn %d:", st.Turn)
	for _, seat := range seats {
		p := st.Player(seat.ID)
		line += fmt.Sprintf(" %s(hand=%d score=%d ach=%d)",
			seat.ID, p.Hand.Count(), engine.PlayerScore(spec, p), p.Achievements.Count())
	}
	log.Print(line)
}
