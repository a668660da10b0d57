package booster

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/ramonehamilton/booster-sim/internal/mtgjson"
)

// JumpstartDeck is one fixed 20-card theme deck. Unlike sampled packs it has
// no randomness of its own; only the deck choice is random.
type JumpstartDeck struct {
	Name    string
	SetCode string
	Cards   []PackCard
}

// BuildJumpstartDecks converts raw deck lists into generator-ready decks,
// replicating each entry by its copy count.
func BuildJumpstartDecks(decks []*mtgjson.Deck) []*JumpstartDeck {
	out := make([]*JumpstartDeck, 0, len(decks))
	for _, d := range decks {
		jd := &JumpstartDeck{
			Name:    d.Name,
			SetCode: d.Code,
		}
		for _, entry := range d.MainBoard {
			card := convertCard(&entry.Card)
			n := entry.Count
			if n < 1 {
				n = 1
			}
			for i := 0; i < n; i++ {
				jd.Cards = append(jd.Cards, PackCard{Card: card})
			}
		}
		out = append(out, jd)
	}
	return out
}

// WithJumpstartDecks loads the theme decks served by GenerateJumpstart.
func WithJumpstartDecks(decks []*JumpstartDeck) Option {
	return func(g *Generator) { g.jmpDecks = decks }
}

// GenerateJumpstart picks n theme decks uniformly at random, with
// replacement. Decks are fixed lists, so every result is balanced by
// construction.
func (g *Generator) GenerateJumpstart(count int) ([]*PackResult, error) {
	if len(g.jmpDecks) == 0 {
		return nil, &JumpstartUnavailableError{}
	}
	if count < 1 {
		count = 1
	}

	rng := newRNG(rand.Uint64())
	results := make([]*PackResult, 0, count)
	for i := 0; i < count; i++ {
		deck := g.jmpDecks[rng.IntN(len(g.jmpDecks))]
		results = append(results, &PackResult{
			ID:       uuid.NewString(),
			SetCode:  deck.SetCode,
			SetName:  deck.Name,
			Cards:    deck.Cards,
			Balanced: true,
			Attempts: 1,
		})
	}
	return results, nil
}
