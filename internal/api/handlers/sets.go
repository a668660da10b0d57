package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/booster-sim/internal/api/response"
	"github.com/ramonehamilton/booster-sim/internal/booster"
)

// SetsHandler handles set listing API requests.
type SetsHandler struct {
	gen      *booster.Generator
	selector *booster.Selector
}

// NewSetsHandler creates a new SetsHandler.
func NewSetsHandler(gen *booster.Generator, selector *booster.Selector) *SetsHandler {
	return &SetsHandler{gen: gen, selector: selector}
}

// SetInfo describes one loaded set.
type SetInfo struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date,omitempty"`
	Balanced    bool   `json:"balanced"`
	PackSize    int    `json:"pack_size"`
	HasLandSlot bool   `json:"has_land_slot"`
}

// RotationInfo lists the set codes behind the rotation selectors.
type RotationInfo struct {
	Standard []string `json:"standard"`
	Historic []string `json:"historic"`
}

// ListSets returns every set the generator can currently build packs for.
func (h *SetsHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	idx := h.gen.Snapshot()

	sets := make([]SetInfo, 0, idx.Len())
	for _, code := range idx.Codes() {
		pool, err := idx.Lookup(code)
		if err != nil {
			// Pools that cannot produce a pack are hidden from the listing.
			continue
		}
		sets = append(sets, setInfo(pool))
	}

	response.Success(w, sets)
}

// GetSet returns details for a single set code.
func (h *SetsHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	pool, err := h.gen.Snapshot().Lookup(code)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, setInfo(pool))
}

// GetRotations returns the standard and historic rotation lists,
// filtered down to sets that are actually loaded.
func (h *SetsHandler) GetRotations(w http.ResponseWriter, r *http.Request) {
	idx := h.gen.Snapshot()

	response.Success(w, RotationInfo{
		Standard: h.selector.Standard(idx),
		Historic: h.selector.Historic(idx),
	})
}

func setInfo(pool *booster.SetPool) SetInfo {
	return SetInfo{
		Code:        pool.Code,
		Name:        pool.Name,
		ReleaseDate: pool.ReleaseDate,
		Balanced:    pool.Balanced,
		PackSize:    pool.Composition.Total(),
		HasLandSlot: pool.Composition.HasLandSlot,
	}
}
