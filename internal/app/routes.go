package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/vancomm/minesweeper-engine/internal/handlers"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.logger, a.store, a.tokens, a.ws, createRand, a.config.Difficulty(),
	)

	a.router.HandleFunc("POST /v1/round", game.NewGame)
	a.router.HandleFunc("GET /v1/round/{id}", game.Fetch)
	a.router.HandleFunc("POST /v1/round/{id}/open", game.Open)
	a.router.HandleFunc("POST /v1/round/{id}/flag", game.Flag)
	a.router.HandleFunc("POST /v1/round/{id}/batch", game.Batch)
	a.router.HandleFunc("POST /v1/round/{id}/forfeit", game.Forfeit)
	a.router.HandleFunc("GET /v1/round/{id}/connect", game.ConnectWS)
	a.router.HandleFunc("GET /v1/status", game.Status)
}
