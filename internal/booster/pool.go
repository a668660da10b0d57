package booster

import (
	"math/rand/v2"
	"sort"
	"strings"
)

// SheetCard is one entry on a sheet with its print weight.
type SheetCard struct {
	Card   *Card
	Weight int
}

// Sheet is the weighted pool of distinct cards eligible for one slot group.
type Sheet struct {
	Name        string
	Cards       []SheetCard
	TotalWeight int
}

// Add appends a card to the sheet. Weights below one are treated as one.
func (s *Sheet) Add(card *Card, weight int) {
	if weight < 1 {
		weight = 1
	}
	s.Cards = append(s.Cards, SheetCard{Card: card, Weight: weight})
	s.TotalWeight += weight
}

// Len returns the number of distinct cards on the sheet.
func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Cards)
}

// Composition declares how a single pack of a set is put together.
type Composition struct {
	// Commons, Uncommons and Rares are the slot counts per rarity group.
	// The rare slot draws a mythic instead with MythicProbability.
	Commons   int
	Uncommons int
	Rares     int

	// HasLandSlot replaces one common slot with a draw from the land sheet.
	HasLandSlot bool

	// FoilProbability is the chance a pack carries a foil card.
	FoilProbability float64

	// FoilReplacesCommon controls whether a foil takes over a common slot
	// (keeping the pack total fixed) or is appended as an extra card.
	FoilReplacesCommon bool

	// MythicProbability is the chance the rare slot upgrades to mythic.
	MythicProbability float64

	// Weight is the composition's draw weight among a pool's variants.
	// Zero on pools with a single fixed composition.
	Weight int
}

// Total returns the number of cards a pack of this composition holds,
// excluding an appended foil.
func (c Composition) Total() int {
	total := c.Commons + c.Uncommons + c.Rares
	if c.HasLandSlot {
		total++
	}
	return total
}

// SetPool holds everything needed to sample packs for one set: the
// composition rule, the partitioned sheets and the balancing flag. Pools are
// built once and are immutable afterwards.
type SetPool struct {
	Code        string
	Name        string
	ReleaseDate string

	// Balanced controls whether generated packs go through the balance
	// validator. Sets without the flag bypass validation entirely.
	Balanced bool

	// Composition is the set's most common pack shape, used for display
	// and as the fallback when no variants are declared.
	Composition Composition

	// Variants are the weighted pack shapes of the set's booster
	// configuration. When present, the sampler picks one by weight for
	// every pack.
	Variants []Composition

	Commons   *Sheet
	Uncommons *Sheet
	Rares     *Sheet
	Mythics   *Sheet
	Lands     *Sheet
	Foils     *Sheet
}

// PickComposition chooses the pack shape for one sampling attempt: a
// weighted pick among the variants when the set declares them, the fixed
// composition otherwise.
func (p *SetPool) PickComposition(rng *rand.Rand) Composition {
	if len(p.Variants) == 0 {
		return p.Composition
	}

	total := 0
	for _, v := range p.Variants {
		total += max(v.Weight, 1)
	}

	r := rng.IntN(total)
	for _, v := range p.Variants {
		r -= max(v.Weight, 1)
		if r < 0 {
			return v
		}
	}
	return p.Variants[len(p.Variants)-1]
}

// validate reports whether the pool can produce at least one raw pack for
// every declared variant.
func (p *SetPool) validate() error {
	need := p.Composition
	for _, v := range p.Variants {
		need.Commons = max(need.Commons, v.Commons)
		need.Uncommons = max(need.Uncommons, v.Uncommons)
		need.Rares = max(need.Rares, v.Rares)
		need.HasLandSlot = need.HasLandSlot || v.HasLandSlot
	}

	if need.Commons > 0 && p.Commons.Len() == 0 {
		return &EmptySheetError{SetCode: p.Code, Sheet: "common"}
	}
	if need.Uncommons > 0 && p.Uncommons.Len() == 0 {
		return &EmptySheetError{SetCode: p.Code, Sheet: "uncommon"}
	}
	if need.Rares > 0 && p.Rares.Len() == 0 && p.Mythics.Len() == 0 {
		return &EmptySheetError{SetCode: p.Code, Sheet: "rare"}
	}
	if need.HasLandSlot && p.Lands.Len() == 0 {
		return &EmptySheetError{SetCode: p.Code, Sheet: "land"}
	}
	return nil
}

// Index is an immutable lookup table of set pools keyed by set code. A
// refresh builds a new Index and swaps it in; an Index is never mutated
// after construction, so concurrent readers need no locking.
type Index struct {
	pools map[string]*SetPool
	codes []string
}

// NewIndex builds an index over the given pools. Codes are keyed lowercase.
func NewIndex(pools []*SetPool) *Index {
	idx := &Index{pools: make(map[string]*SetPool, len(pools))}
	for _, p := range pools {
		code := strings.ToLower(p.Code)
		if _, dup := idx.pools[code]; dup {
			continue
		}
		idx.pools[code] = p
		idx.codes = append(idx.codes, code)
	}
	sort.Strings(idx.codes)
	return idx
}

// Lookup resolves a set code (case-insensitive) to its pool. It returns
// UnknownSetError for codes not in the index and EmptySheetError when the
// set's data cannot produce a pack.
func (idx *Index) Lookup(code string) (*SetPool, error) {
	pool, ok := idx.pools[strings.ToLower(code)]
	if !ok {
		return nil, &UnknownSetError{Code: code}
	}
	if err := pool.validate(); err != nil {
		return nil, err
	}
	return pool, nil
}

// Has reports whether a set code is present in the index.
func (idx *Index) Has(code string) bool {
	_, ok := idx.pools[strings.ToLower(code)]
	return ok
}

// Codes returns the sorted lowercase codes of all indexed sets.
func (idx *Index) Codes() []string {
	out := make([]string, len(idx.codes))
	copy(out, idx.codes)
	return out
}

// Len returns the number of indexed sets.
func (idx *Index) Len() int {
	return len(idx.pools)
}
