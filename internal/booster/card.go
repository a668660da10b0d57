// Package booster implements the pack generation engine: partitioned card
// pools, weighted sampling without replacement, color balance validation
// and the bounded retry loop that ties them together.
package booster

// Rarity is a card's printed rarity.
type Rarity string

// Rarity values as they appear in the card database.
const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityMythic   Rarity = "mythic"
	RaritySpecial  Rarity = "special"
	RarityBonus    Rarity = "bonus"
	RarityLand     Rarity = "land"
)

// Card is an immutable card record as the engine sees it. Identity is the
// printed identifier; a pack never contains the same identifier twice.
type Card struct {
	// ID is the printing identifier (MTGJSON UUID).
	ID string `json:"id"`

	Name    string `json:"name"`
	SetCode string `json:"set_code"`
	Number  string `json:"number"`
	Rarity  Rarity `json:"rarity"`

	// Colors is the card's color list ("W", "U", "B", "R", "G"). Empty
	// for colorless cards, more than one entry for multicolor cards.
	Colors []string `json:"colors"`

	TypeLine string   `json:"type_line"`
	Types    []string `json:"types"`

	FoilEligible bool `json:"foil_eligible"`

	// Display carries arbitrary display metadata from the data source,
	// passed through untouched.
	Display map[string]string `json:"display,omitempty"`
}

// IsMonocolor reports whether the card is exactly one color. Only monocolor
// cards count toward the per-color balance buckets.
func (c *Card) IsMonocolor() bool {
	return len(c.Colors) == 1
}

// Color returns the card's color for monocolor cards, or "" otherwise.
func (c *Card) Color() string {
	if len(c.Colors) == 1 {
		return c.Colors[0]
	}
	return ""
}

// IsCreature reports whether the card has the Creature type.
func (c *Card) IsCreature() bool {
	for _, t := range c.Types {
		if t == "Creature" {
			return true
		}
	}
	return false
}

// PackCard is one card slot in a generated pack.
type PackCard struct {
	*Card
	Foil bool `json:"foil"`
}

// Pack is an ordered candidate pack produced by a single sampling attempt.
// It is discarded wholesale on balance failure, never patched in place.
type Pack struct {
	SetCode string
	SetName string
	Cards   []PackCard
}

// Colors are the five colors considered by balance rules, in canonical order.
var Colors = []string{"W", "U", "B", "R", "G"}
