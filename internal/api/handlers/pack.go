package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/booster-sim/internal/api/response"
	"github.com/ramonehamilton/booster-sim/internal/api/websocket"
	"github.com/ramonehamilton/booster-sim/internal/booster"
	"github.com/ramonehamilton/booster-sim/internal/export"
)

// maxBatchPacks caps batch endpoints so a single request cannot tie up the
// generator for long.
const maxBatchPacks = 36

// PackHandler handles pack generation API requests.
type PackHandler struct {
	gen *booster.Generator
	hub *websocket.Hub
}

// NewPackHandler creates a new PackHandler.
func NewPackHandler(gen *booster.Generator, hub *websocket.Hub) *PackHandler {
	return &PackHandler{gen: gen, hub: hub}
}

// GeneratePack generates a single booster pack for the selector in the
// URL. An optional ?seed= query parameter makes the result reproducible.
func (h *PackHandler) GeneratePack(w http.ResponseWriter, r *http.Request) {
	selector := chi.URLParam(r, "selector")

	seed, seeded, err := parseSeed(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	result, err := h.generate(selector, seed, seeded)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.EventPackGenerated, result)
	response.Success(w, result)
}

// GenerateSealed generates a sealed pool of packs from a single set. An
// optional ?count= query parameter overrides the configured pool size.
func (h *PackHandler) GenerateSealed(w http.ResponseWriter, r *http.Request) {
	selector := chi.URLParam(r, "selector")

	count, err := parseCount(r, 0)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	results, err := h.gen.GenerateBatch(selector, count)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.EventPackGenerated, results)
	response.Success(w, results)
}

// GenerateJumpstart deals out random jumpstart theme decks. An optional
// ?count= query parameter sets how many (default 1).
func (h *PackHandler) GenerateJumpstart(w http.ResponseWriter, r *http.Request) {
	count, err := parseCount(r, 1)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	results, err := h.gen.GenerateJumpstart(count)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.EventPackGenerated, results)
	response.Success(w, results)
}

// GenerateFromList generates packs from a pipe-separated candidate set list
// (?sets=znr|eld), picking a set at random for each pack. An optional
// ?count= query parameter sets how many packs (default 1).
func (h *PackHandler) GenerateFromList(w http.ResponseWriter, r *http.Request) {
	codes, err := parseSetList(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	count, err := parseCount(r, 1)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	results, err := h.gen.GenerateFromList(codes, count)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.EventPackGenerated, results)
	response.Success(w, results)
}

// GeneratePool generates exactly one pack per listed code, in order
// (?sets=znr|znr|eld).
func (h *PackHandler) GeneratePool(w http.ResponseWriter, r *http.Request) {
	codes, err := parseSetList(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	results, err := h.gen.GeneratePool(codes)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.EventPackGenerated, results)
	response.Success(w, results)
}

// GenerateChaos generates a sealed pool where every pack comes from a
// random historic set.
func (h *PackHandler) GenerateChaos(w http.ResponseWriter, r *http.Request) {
	results, err := h.gen.GenerateChaos()
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcast(websocket.EventPackGenerated, results)
	response.Success(w, results)
}

// ExportArena generates a single pack and returns it as an Arena import
// list in plain text.
func (h *PackHandler) ExportArena(w http.ResponseWriter, r *http.Request) {
	selector := chi.URLParam(r, "selector")

	seed, seeded, err := parseSeed(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	result, err := h.generate(selector, seed, seeded)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Text(w, http.StatusOK, export.Arena(result))
}

// ExportSealedArena generates a sealed pool and returns the merged Arena
// import list in plain text.
func (h *PackHandler) ExportSealedArena(w http.ResponseWriter, r *http.Request) {
	selector := chi.URLParam(r, "selector")

	results, err := h.gen.GenerateSealed(selector)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Text(w, http.StatusOK, export.ArenaPool(results))
}

// ExportChaosArena generates a chaos sealed pool and returns the merged
// Arena import list in plain text.
func (h *PackHandler) ExportChaosArena(w http.ResponseWriter, r *http.Request) {
	results, err := h.gen.GenerateChaos()
	if err != nil {
		writeError(w, err)
		return
	}

	response.Text(w, http.StatusOK, export.ArenaPool(results))
}

func (h *PackHandler) generate(selector string, seed uint64, seeded bool) (*booster.PackResult, error) {
	if seeded {
		return h.gen.GeneratePackSeeded(selector, seed)
	}
	return h.gen.GeneratePack(selector)
}

// parseSeed reads the optional ?seed= query parameter.
func parseSeed(r *http.Request) (uint64, bool, error) {
	raw := r.URL.Query().Get("seed")
	if raw == "" {
		return 0, false, nil
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, errors.New("seed must be an unsigned integer")
	}
	return seed, true, nil
}

// parseCount reads the optional ?count= query parameter, capped at
// maxBatchPacks. Zero means "use the caller's default".
func parseCount(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		return def, nil
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 1 {
		return 0, errors.New("count must be a positive integer")
	}
	if count > maxBatchPacks {
		count = maxBatchPacks
	}
	return count, nil
}

// parseSetList reads the required ?sets= pipe-separated code list.
func parseSetList(r *http.Request) ([]string, error) {
	raw := r.URL.Query().Get("sets")
	var codes []string
	for _, code := range strings.Split(raw, "|") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return nil, errors.New("sets must be a pipe-separated list of set codes")
	}
	return codes, nil
}

func (h *PackHandler) broadcast(eventType string, data interface{}) {
	if h.hub == nil {
		return
	}
	h.hub.BroadcastEvent(websocket.Event{Type: eventType, Data: data})
}
