package booster

import (
	"strings"

	"github.com/ramonehamilton/booster-sim/internal/mtgjson"
)

// Foil pool rarity weights. Real foil sheets are not disclosed; this is the
// usual community approximation of one foil in roughly every third pack
// skewing heavily toward commons.
var foilRarityWeights = map[Rarity]int{
	RarityCommon:   64,
	RarityUncommon: 24,
	RarityRare:     7,
	RarityMythic:   1,
}

// BuilderConfig tunes index construction.
type BuilderConfig struct {
	// MythicProbability applies to every set's rare slot.
	MythicProbability float64
}

// BuildIndex converts MTGJSON set data into an immutable pool index. Sets
// without a booster configuration are skipped; promo printings are excluded
// from every sheet.
func BuildIndex(all *mtgjson.AllPrintings, cfg BuilderConfig) *Index {
	pools := make([]*SetPool, 0, len(all.Data))
	for _, set := range all.Data {
		if !set.HasBoosters() {
			continue
		}
		pools = append(pools, buildPool(set, cfg))
	}
	return NewIndex(pools)
}

func buildPool(set *mtgjson.Set, cfg BuilderConfig) *SetPool {
	booster := set.DefaultBooster()

	pool := &SetPool{
		Code:        set.Code,
		Name:        set.Name,
		ReleaseDate: set.ReleaseDate,
		Balanced:    isBalanced(set, booster),
		Commons:     &Sheet{Name: "common"},
		Uncommons:   &Sheet{Name: "uncommon"},
		Rares:       &Sheet{Name: "rare"},
		Mythics:     &Sheet{Name: "mythic"},
		Lands:       &Sheet{Name: "land"},
		Foils:       &Sheet{Name: "foil"},
	}

	pool.Composition, pool.Variants = deriveCompositions(booster, cfg)

	weights, eligible := sheetWeights(booster)

	for _, c := range set.Cards {
		if c.IsPromo() {
			continue
		}
		// When the booster declares sheets, only cards actually printed
		// on a sheet can appear in packs.
		if len(eligible) > 0 && !eligible[c.UUID] {
			continue
		}

		card := convertCard(c)
		weight := weights[c.UUID]

		if isLand(c) {
			pool.Lands.Add(card, weight)
		} else {
			switch card.Rarity {
			case RarityCommon:
				pool.Commons.Add(card, weight)
			case RarityUncommon:
				pool.Uncommons.Add(card, weight)
			case RarityMythic:
				pool.Mythics.Add(card, weight)
			default:
				// rare, special and bonus share the rare slot
				pool.Rares.Add(card, weight)
			}
		}

		if c.HasFoil {
			pool.Foils.Add(card, foilWeight(card))
		}
	}

	return pool
}

// isBalanced reports whether any sheet of the booster requests color
// balancing. IKO's data omits the flag on its common sheet even though the
// printed product is balanced, so it is forced on.
func isBalanced(set *mtgjson.Set, booster *mtgjson.Booster) bool {
	if strings.EqualFold(set.Code, "IKO") {
		return true
	}
	if booster == nil {
		return false
	}
	for _, sheet := range booster.Sheets {
		if sheet.BalanceColors {
			return true
		}
	}
	return false
}

// sheetClass buckets MTGJSON sheet names into the engine's slot groups.
func sheetClass(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "foil"):
		return "foil"
	case strings.Contains(n, "land"):
		return "land"
	case strings.Contains(n, "mythic"), strings.Contains(n, "rare"):
		return "rare"
	case strings.Contains(n, "uncommon"):
		return "uncommon"
	case strings.Contains(n, "common"):
		return "common"
	default:
		return ""
	}
}

// deriveCompositions turns every weighted booster variant into a pack
// shape of its own; the sampler later picks one by weight per pack. The
// returned default is the heaviest variant. Sets with no usable variant
// fall back to the classic 10/3/1 draft booster.
func deriveCompositions(booster *mtgjson.Booster, cfg BuilderConfig) (Composition, []Composition) {
	fallback := Composition{
		Commons:           10,
		Uncommons:         3,
		Rares:             1,
		MythicProbability: cfg.MythicProbability,
	}
	if booster == nil || len(booster.Boosters) == 0 {
		return fallback, nil
	}

	variants := make([]Composition, 0, len(booster.Boosters))
	for _, v := range booster.Boosters {
		variants = append(variants, deriveVariant(v, cfg))
	}

	// The heaviest (most common) variant doubles as the display shape.
	def := variants[0]
	for _, v := range variants[1:] {
		if v.Weight > def.Weight {
			def = v
		}
	}
	return def, variants
}

// deriveVariant reads one variant's slot counts. Contents are literal: a
// variant that carries a foil sheet always produces a foil, and its other
// slot counts already account for it.
func deriveVariant(v mtgjson.BoosterVariant, cfg BuilderConfig) Composition {
	comp := Composition{
		Commons:           10,
		Uncommons:         3,
		Rares:             1,
		MythicProbability: cfg.MythicProbability,
		Weight:            v.Weight,
	}

	counts := map[string]int{}
	for sheetName, n := range v.Contents {
		counts[sheetClass(sheetName)] += n
	}
	if counts["common"] > 0 {
		comp.Commons = counts["common"]
	}
	if counts["uncommon"] > 0 {
		comp.Uncommons = counts["uncommon"]
	}
	if counts["rare"] > 0 {
		comp.Rares = counts["rare"]
	}
	comp.HasLandSlot = counts["land"] > 0
	if comp.HasLandSlot && comp.Commons > 1 {
		// The land slot takes over one of the printed common slots.
		comp.Commons--
	}
	if counts["foil"] > 0 {
		comp.FoilProbability = 1
	}

	return comp
}

// sheetWeights flattens all booster sheets into a uuid -> weight map and a
// membership set. Non-foil sheets take precedence for weights.
func sheetWeights(booster *mtgjson.Booster) (map[string]int, map[string]bool) {
	weights := make(map[string]int)
	eligible := make(map[string]bool)
	if booster == nil {
		return weights, eligible
	}
	for _, sheet := range booster.Sheets {
		for uuid, w := range sheet.Cards {
			eligible[uuid] = true
			if _, seen := weights[uuid]; !seen || !sheet.Foil {
				weights[uuid] = w
			}
		}
	}
	return weights, eligible
}

func convertCard(c *mtgjson.Card) *Card {
	display := make(map[string]string)
	if c.Identifiers.ScryfallID != "" {
		display["scryfall_id"] = c.Identifiers.ScryfallID
	}
	if c.Identifiers.MultiverseID != "" {
		display["multiverse_id"] = c.Identifiers.MultiverseID
	}
	if c.ManaCost != "" {
		display["mana_cost"] = c.ManaCost
	}

	return &Card{
		ID:           c.UUID,
		Name:         c.Name,
		SetCode:      c.SetCode,
		Number:       c.Number,
		Rarity:       Rarity(strings.ToLower(c.Rarity)),
		Colors:       c.Colors,
		TypeLine:     c.Type,
		Types:        c.Types,
		FoilEligible: c.HasFoil,
		Display:      display,
	}
}

func isLand(c *mtgjson.Card) bool {
	for _, t := range c.Types {
		if t == "Land" {
			return true
		}
	}
	return false
}

func foilWeight(card *Card) int {
	if w, ok := foilRarityWeights[card.Rarity]; ok {
		return w
	}
	return 1
}
