package booster

import (
	"math/rand/v2"
	"strings"
)

// Symbolic selector tokens understood by Resolve.
const (
	TokenRandom   = "random"
	TokenHistoric = "historic"
	TokenStandard = "standard"
)

// Selector resolves user-facing selector tokens to concrete set codes. It
// holds only the rotation lists; the index snapshot is passed per call so a
// refresh never invalidates a selector.
type Selector struct {
	standard []string
	historic []string
}

// NewSelector creates a selector with the given rotation lists. Codes are
// normalized to lowercase.
func NewSelector(standard, historic []string) *Selector {
	return &Selector{
		standard: lowerAll(standard),
		historic: lowerAll(historic),
	}
}

// Resolve maps a token to a set code: "random" picks uniformly over all
// indexed sets, "historic" and "standard" over the respective rotation
// lists, and anything else is treated as an explicit set code,
// case-insensitively.
func (s *Selector) Resolve(idx *Index, token string, rng *rand.Rand) (string, error) {
	token = strings.ToLower(strings.TrimSpace(token))

	switch token {
	case TokenRandom:
		return pickUniform(idx.Codes(), token, rng)
	case TokenHistoric:
		return pickUniform(s.loaded(idx, s.historic), token, rng)
	case TokenStandard:
		return pickUniform(s.loaded(idx, s.standard), token, rng)
	default:
		if !idx.Has(token) {
			return "", &UnknownSetError{Code: token}
		}
		return token, nil
	}
}

// Historic returns the historic rotation codes present in the index.
func (s *Selector) Historic(idx *Index) []string {
	return s.loaded(idx, s.historic)
}

// Standard returns the standard rotation codes present in the index.
func (s *Selector) Standard(idx *Index) []string {
	return s.loaded(idx, s.standard)
}

// loaded filters a rotation list down to sets with loaded card data.
func (s *Selector) loaded(idx *Index, codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if idx.Has(code) {
			out = append(out, code)
		}
	}
	return out
}

func pickUniform(codes []string, token string, rng *rand.Rand) (string, error) {
	if len(codes) == 0 {
		return "", &UnknownSetError{Code: token}
	}
	return codes[rng.IntN(len(codes))], nil
}

func lowerAll(codes []string) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = strings.ToLower(c)
	}
	return out
}
