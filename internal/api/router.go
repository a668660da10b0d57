package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/booster-sim/internal/api/handlers"
	"github.com/ramonehamilton/booster-sim/internal/api/response"
	"github.com/ramonehamilton/booster-sim/internal/version"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint for generation events
	s.router.Get("/ws", s.wsHub.ServeWs)

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Pack generation routes. The chaos routes are registered before
		// the selector wildcard so "chaos" never resolves as a set code.
		packHandler := handlers.NewPackHandler(s.gen, s.wsHub)
		r.Route("/packs", func(r chi.Router) {
			r.Get("/chaos", packHandler.GenerateChaos)
			r.Get("/chaos/arena", packHandler.ExportChaosArena)
			r.Get("/jumpstart", packHandler.GenerateJumpstart)
			r.Get("/list", packHandler.GenerateFromList)
			r.Get("/pool", packHandler.GeneratePool)
			r.Get("/{selector}", packHandler.GeneratePack)
			r.Get("/{selector}/arena", packHandler.ExportArena)
			r.Get("/{selector}/sealed", packHandler.GenerateSealed)
			r.Get("/{selector}/sealed/arena", packHandler.ExportSealedArena)
		})

		// Set listing routes
		setsHandler := handlers.NewSetsHandler(s.gen, s.selector)
		r.Route("/sets", func(r chi.Router) {
			r.Get("/", setsHandler.ListSets)
			r.Get("/rotations", setsHandler.GetRotations)
			r.Get("/{code}", setsHandler.GetSet)
		})

		// Simulation chart routes
		statsHandler := handlers.NewStatsHandler(s.gen)
		r.Route("/stats", func(r chi.Router) {
			r.Get("/{selector}/colors", statsHandler.ColorChart)
			r.Get("/{selector}/rarities", statsHandler.RarityChart)
		})
	})
}

// healthCheck reports server liveness and the size of the loaded index.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": version.Version,
		"sets":    s.gen.Snapshot().Len(),
	})
}
