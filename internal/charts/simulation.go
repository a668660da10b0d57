package charts

import (
	"fmt"

	"github.com/ramonehamilton/booster-sim/internal/booster"
)

// Color distribution bucket labels, in display order.
var colorLabels = []string{"White", "Blue", "Black", "Red", "Green", "Multicolor", "Colorless"}

var colorByCode = map[string]string{
	"W": "White",
	"U": "Blue",
	"B": "Black",
	"R": "Red",
	"G": "Green",
}

// SimulateColorDistribution generates n packs through the given generator
// and tallies card colors across all of them. Unbalanced results still
// count; the tally reflects what the generator actually hands out.
func SimulateColorDistribution(gen *booster.Generator, selector string, n int) ([]DataPoint, error) {
	counts := make(map[string]float64, len(colorLabels))

	for i := 0; i < n; i++ {
		res, err := gen.GeneratePack(selector)
		if err != nil {
			return nil, fmt.Errorf("simulation run %d: %w", i+1, err)
		}
		for _, pc := range res.Cards {
			switch {
			case len(pc.Colors) == 0:
				counts["Colorless"]++
			case len(pc.Colors) > 1:
				counts["Multicolor"]++
			default:
				counts[colorByCode[pc.Colors[0]]]++
			}
		}
	}

	points := make([]DataPoint, 0, len(colorLabels))
	for _, label := range colorLabels {
		points = append(points, DataPoint{Label: label, Value: counts[label]})
	}
	return points, nil
}

// SimulateRarityDistribution generates n packs and tallies card rarities.
func SimulateRarityDistribution(gen *booster.Generator, selector string, n int) ([]DataPoint, error) {
	order := []booster.Rarity{
		booster.RarityCommon,
		booster.RarityUncommon,
		booster.RarityRare,
		booster.RarityMythic,
	}
	counts := make(map[booster.Rarity]float64, len(order))

	for i := 0; i < n; i++ {
		res, err := gen.GeneratePack(selector)
		if err != nil {
			return nil, fmt.Errorf("simulation run %d: %w", i+1, err)
		}
		for _, pc := range res.Cards {
			counts[pc.Rarity]++
		}
	}

	points := make([]DataPoint, 0, len(order))
	for _, r := range order {
		points = append(points, DataPoint{Label: string(r), Value: counts[r]})
	}
	return points, nil
}
