package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/andjpython/Jogo-de-damas/internal/ai"
	httpapi "github.com/andjpython/Jogo-de-damas/internal/api/http"
	"github.com/andjpython/Jogo-de-damas/internal/api/ws"
	"github.com/andjpython/Jogo-de-damas/internal/config"
	"github.com/andjpython/Jogo-de-damas/internal/room"
	"github.com/andjpython/Jogo-de-damas/internal/session"
	"github.com/andjpython/Jogo-de-damas/internal/store"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Load()
	proposer := ai.New(cfg, log)
	reg := session.NewRegistry(cfg, proposer, log)
	mem := store.NewMemoryStore()
	directory := room.NewDirectory(mem, reg, log)
	hub := ws.NewHub(directory, log)
	r := httpapi.NewRouter(reg, directory, hub)

	// Waiting rooms nobody joined are dropped after RoomTTL.
	go func() {
		for range time.Tick(10 * time.Minute) {
			directory.CleanupStale(cfg.RoomTTL)
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
