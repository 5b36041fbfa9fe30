package main

import (
	"log"
	"net/http"

	"github.com/caarlos0/env/v11"

	"splay-lite/apps/server/internal/archive"
	"splay-lite/apps/server/internal/auth"
	"splay-lite/apps/server/internal/gateway"
	"splay-lite/apps/server/internal/lobby"
	"splay-lite/apps/server/internal/room"
	"splay-lite/bot"
	"splay-lite/games/innovation"
)

type config struct {
	Addr           string `env:"SERVER_ADDR" envDefault:":8080"`
	AuthMode       string `env:"AUTH_MODE" envDefault:"memory"`
	ArchiveMode    string `env:"ARCHIVE_MODE" envDefault:"memory"`
	RoomMaxPlayers int    `env:"ROOM_MAX_PLAYERS" envDefault:"4"`
	GameSeed       int64  `env:"GAME_SEED" envDefault:"0"`
	PersonasPath   string `env:"BOT_PERSONAS_PATH"`
}

const defaultPersonasJSON = `[
  {"id": "scholar", "name": "The Scholar", "tagline": "Reads every card twice.", "tier": 1,
   "brain": {"scoreDrive": 0.7, "iconDrive": 0.5, "achieveDrive": 1.0, "dogmaDrive": 0.9, "randomness": 0.1}},
  {"id": "magpie", "name": "Magpie", "tagline": "Collects anything shiny.", "tier": 2,
   "brain": {"scoreDrive": 0.9, "iconDrive": 0.8, "achieveDrive": 0.6, "dogmaDrive": 0.4, "randomness": 0.3}},
  {"id": "wanderer", "name": "Wanderer", "tagline": "No plan survives contact.", "tier": 3,
   "brain": {"scoreDrive": 0.5, "iconDrive": 0.5, "achieveDrive": 0.5, "dogmaDrive": 0.5, "randomness": 0.8}}
]`

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("[Server] Failed to parse config: %v", err)
	}

	authService, authMode, err := auth.NewService(cfg.AuthMode)
	if err != nil {
		log.Fatalf("[Server] Failed to init auth service: %v", err)
	}
	defer authService.Close()
	log.Printf("[Server] Auth mode: %s", authMode)

	archiveService, archiveMode, err := archive.NewService(cfg.ArchiveMode)
	if err != nil {
		log.Fatalf("[Server] Failed to init archive service: %v", err)
	}
	defer archiveService.Close()
	log.Printf("[Server] Archive mode: %s", archiveMode)

	personas := bot.NewRegistry()
	if cfg.PersonasPath != "" {
		if err := personas.LoadFromFile(cfg.PersonasPath); err != nil {
			log.Fatalf("[Server] Failed to load personas: %v", err)
		}
	} else if err := personas.LoadFromJSON([]byte(defaultPersonasJSON)); err != nil {
		log.Fatalf("[Server] Failed to load default personas: %v", err)
	}
	log.Printf("[Server] Loaded %d bot personas", personas.Count())

	spec := innovation.NewSpec()
	lby := lobby.New(spec, room.Config{
		MaxPlayers: cfg.RoomMaxPlayers,
		Seed:       cfg.GameSeed,
	}, archiveService, personas)
	defer lby.Stop()

	gw := gateway.New(lby, authService)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	auth.NewHTTPHandler(authService).RegisterRoutes(mux)
	archive.NewHTTPHandler(authService, archiveService).RegisterRoutes(mux)

	log.Printf("[Server] Listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("[Server] Server failed: %v", err)
	}
}
