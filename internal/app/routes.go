package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/vancomm/untangle-server/internal/handlers"
	"github.com/vancomm/untangle-server/internal/metrics"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	puzzle := handlers.NewPuzzleHandler(
		a.logger, a.repo, a.ws, a.maxPoints, createRand(),
	)
	auth := handlers.NewAuth(a.logger, a.repo, a.cookies, a.jwt)
	highscores := handlers.NewHighscoreHandler(a.logger, a.repo)

	a.router.HandleFunc("GET /presets", puzzle.Presets)
	a.router.HandleFunc("POST /puzzle", puzzle.NewPuzzle)
	a.router.HandleFunc("GET /puzzle/{id}", puzzle.Fetch)
	a.router.HandleFunc("POST /puzzle/{id}/move", puzzle.Move)
	a.router.HandleFunc("POST /puzzle/{id}/solve", puzzle.Solve)
	a.router.HandleFunc("GET /puzzle/{id}/connect", puzzle.Connect)

	a.router.HandleFunc("GET /highscores", highscores.List)

	a.router.HandleFunc("POST /register", auth.Register)
	a.router.HandleFunc("POST /login", auth.Login)
	a.router.HandleFunc("POST /logout", auth.Logout)
	a.router.HandleFunc("GET /status", auth.Status)

	a.router.Handle("GET /metrics", metrics.Handler())
}
