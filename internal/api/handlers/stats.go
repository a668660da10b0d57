package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/booster-sim/internal/api/response"
	"github.com/ramonehamilton/booster-sim/internal/booster"
	"github.com/ramonehamilton/booster-sim/internal/charts"
)

const (
	defaultSimulationPacks = 200
	maxSimulationPacks     = 2000
)

// StatsHandler serves simulation charts over generated packs.
type StatsHandler struct {
	gen *booster.Generator
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(gen *booster.Generator) *StatsHandler {
	return &StatsHandler{gen: gen}
}

// ColorChart simulates packs for the selector and renders the color
// distribution as an HTML bar chart.
func (h *StatsHandler) ColorChart(w http.ResponseWriter, r *http.Request) {
	selector := chi.URLParam(r, "selector")

	n, err := simulationSize(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	data, err := charts.SimulateColorDistribution(h.gen, selector, n)
	if err != nil {
		writeError(w, err)
		return
	}

	cfg := charts.DefaultChartConfig()
	cfg.Title = "Color Distribution"
	cfg.Subtitle = fmt.Sprintf("%s over %d packs", selector, n)

	renderChart(w, data, cfg)
}

// RarityChart simulates packs for the selector and renders the rarity
// distribution as an HTML bar chart.
func (h *StatsHandler) RarityChart(w http.ResponseWriter, r *http.Request) {
	selector := chi.URLParam(r, "selector")

	n, err := simulationSize(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	data, err := charts.SimulateRarityDistribution(h.gen, selector, n)
	if err != nil {
		writeError(w, err)
		return
	}

	cfg := charts.DefaultChartConfig()
	cfg.Title = "Rarity Distribution"
	cfg.Subtitle = fmt.Sprintf("%s over %d packs", selector, n)

	renderChart(w, data, cfg)
}

func renderChart(w http.ResponseWriter, data []charts.DataPoint, cfg charts.ChartConfig) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := charts.RenderBarChart(w, data, cfg); err != nil {
		response.InternalError(w, err)
	}
}

// simulationSize reads the optional ?packs= query parameter.
func simulationSize(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("packs")
	if raw == "" {
		return defaultSimulationPacks, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("packs must be a positive integer")
	}
	if n > maxSimulationPacks {
		n = maxSimulationPacks
	}
	return n, nil
}
