package booster

import (
	"math/rand/v2"
)

// Sampler draws raw candidate packs from a set pool. A sampler wraps a
// single random source and is not safe for concurrent use; the generator
// creates one per call.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler around the given random source.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// SamplePack produces one raw candidate pack: a pack shape is picked by
// weight among the pool's variants, then rare or mythic slots are drawn
// first, followed by uncommons, commons, the land slot and finally the
// foil. Sampling is without replacement within each sheet, and the foil
// draw excludes identifiers already in the pack, so a pack can never
// contain duplicates.
func (s *Sampler) SamplePack(pool *SetPool) (*Pack, error) {
	comp := pool.PickComposition(s.rng)
	taken := make(map[string]bool, comp.Total()+1)
	pack := &Pack{SetCode: pool.Code, SetName: pool.Name}

	// The foil is decided and drawn up front so that, when it takes over a
	// common slot, the commons draw count is already settled and later
	// draws can exclude its identifier.
	var foil *Card
	if comp.FoilProbability > 0 && pool.Foils.Len() > 0 &&
		s.rng.Float64() < comp.FoilProbability {
		card, err := s.drawOne(pool.Code, pool.Foils, taken)
		if err == nil {
			foil = card
		}
	}

	for i := 0; i < comp.Rares; i++ {
		sheet := pool.Rares
		if pool.Mythics.Len() > 0 &&
			(pool.Rares.Len() == 0 || s.rng.Float64() < comp.MythicProbability) {
			sheet = pool.Mythics
		}
		card, err := s.drawOne(pool.Code, sheet, taken)
		if err != nil {
			return nil, err
		}
		pack.Cards = append(pack.Cards, PackCard{Card: card})
	}

	if err := s.drawInto(pack, pool.Code, pool.Uncommons, comp.Uncommons, taken); err != nil {
		return nil, err
	}

	commons := comp.Commons
	if foil != nil && comp.FoilReplacesCommon {
		commons--
	}
	if err := s.drawInto(pack, pool.Code, pool.Commons, commons, taken); err != nil {
		return nil, err
	}

	if comp.HasLandSlot {
		card, err := s.drawOne(pool.Code, pool.Lands, taken)
		if err != nil {
			return nil, err
		}
		pack.Cards = append(pack.Cards, PackCard{Card: card})
	}

	if foil != nil {
		pack.Cards = append(pack.Cards, PackCard{Card: foil, Foil: true})
	}

	return pack, nil
}

// drawInto draws n cards from sheet and appends them to the pack.
func (s *Sampler) drawInto(pack *Pack, setCode string, sheet *Sheet, n int, taken map[string]bool) error {
	for i := 0; i < n; i++ {
		card, err := s.drawOne(setCode, sheet, taken)
		if err != nil {
			return err
		}
		pack.Cards = append(pack.Cards, PackCard{Card: card})
	}
	return nil
}

// drawOne performs a single weighted draw from sheet, skipping identifiers
// in taken. The picked identifier is added to taken.
func (s *Sampler) drawOne(setCode string, sheet *Sheet, taken map[string]bool) (*Card, error) {
	totalWeight := 0
	eligible := 0
	for _, sc := range sheet.Cards {
		if taken[sc.Card.ID] {
			continue
		}
		totalWeight += sc.Weight
		eligible++
	}
	if eligible == 0 {
		return nil, &InsufficientCardsError{
			SetCode: setCode,
			Sheet:   sheet.Name,
			Need:    1,
			Have:    0,
		}
	}

	r := s.rng.IntN(totalWeight)
	for _, sc := range sheet.Cards {
		if taken[sc.Card.ID] {
			continue
		}
		r -= sc.Weight
		if r < 0 {
			taken[sc.Card.ID] = true
			return sc.Card, nil
		}
	}

	// Unreachable: r is bounded by the eligible total weight.
	panic("booster: weighted draw walked past the sheet")
}
