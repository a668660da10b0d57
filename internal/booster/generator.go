package booster

import (
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generation defaults.
const (
	DefaultMaxAttempts     = 100
	DefaultSealedPackCount = 6
)

// PackResult is one generated pack handed back to callers.
type PackResult struct {
	ID      string     `json:"id"`
	SetCode string     `json:"set_code"`
	SetName string     `json:"set_name"`
	Cards   []PackCard `json:"cards"`

	// Balanced is false only when the set requested balancing and the
	// retry budget ran out; the pack is still usable, just imperfect.
	Balanced bool `json:"balanced"`

	// Attempts is how many candidates were sampled for this pack.
	Attempts int `json:"attempts"`

	// Violations lists the rules the final candidate still violated when
	// Balanced is false.
	Violations []Rule `json:"violations,omitempty"`
}

// Generator orchestrates sampling and balance validation in a bounded retry
// loop. All of its state is either immutable (the index snapshot, swapped
// atomically on refresh) or local to one call, so it is safe for concurrent
// use without locking.
type Generator struct {
	index       atomic.Pointer[Index]
	validator   PackValidator
	selector    *Selector
	logger      *slog.Logger
	maxAttempts int
	sealedCount int
	jmpDecks    []*JumpstartDeck
}

// Option configures a Generator.
type Option func(*Generator)

// WithValidator replaces the balance validator.
func WithValidator(v PackValidator) Option {
	return func(g *Generator) { g.validator = v }
}

// WithSelector sets the selection policy for symbolic tokens.
func WithSelector(s *Selector) Option {
	return func(g *Generator) { g.selector = s }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithMaxAttempts bounds the balancing retry loop.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithSealedPackCount sets how many packs a sealed or chaos pool holds.
func WithSealedPackCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.sealedCount = n
		}
	}
}

// New creates a generator over the given pool index.
func New(index *Index, opts ...Option) *Generator {
	g := &Generator{
		validator:   BalanceValidator{},
		selector:    NewSelector(nil, nil),
		logger:      slog.Default(),
		maxAttempts: DefaultMaxAttempts,
		sealedCount: DefaultSealedPackCount,
	}
	g.index.Store(index)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SwapIndex atomically replaces the pool index. In-flight generations keep
// reading the snapshot they started with.
func (g *Generator) SwapIndex(idx *Index) {
	g.index.Store(idx)
}

// Snapshot returns the current pool index.
func (g *Generator) Snapshot() *Index {
	return g.index.Load()
}

// GeneratePack resolves the selector token and generates one pack.
func (g *Generator) GeneratePack(selector string) (*PackResult, error) {
	return g.GeneratePackSeeded(selector, rand.Uint64())
}

// GeneratePackSeeded is GeneratePack with an explicit random seed, for
// reproducible output.
func (g *Generator) GeneratePackSeeded(selector string, seed uint64) (*PackResult, error) {
	idx := g.index.Load()
	rng := newRNG(seed)

	code, err := g.selector.Resolve(idx, selector, rng)
	if err != nil {
		return nil, err
	}

	pool, err := idx.Lookup(code)
	if err != nil {
		return nil, err
	}

	return g.generateOne(pool, rng)
}

// GenerateSealed resolves the selector once and generates a sealed pool of
// packs from that set, using the configured pool size.
func (g *Generator) GenerateSealed(selector string) ([]*PackResult, error) {
	return g.GenerateBatch(selector, g.sealedCount)
}

// GenerateBatch resolves the selector once and generates count packs from
// that set. A non-positive count falls back to the configured sealed pool
// size. Unbalanced flags are per-pack, never aggregated.
func (g *Generator) GenerateBatch(selector string, count int) ([]*PackResult, error) {
	if count < 1 {
		count = g.sealedCount
	}

	idx := g.index.Load()
	rng := newRNG(rand.Uint64())

	code, err := g.selector.Resolve(idx, selector, rng)
	if err != nil {
		return nil, err
	}

	pool, err := idx.Lookup(code)
	if err != nil {
		return nil, err
	}

	results := make([]*PackResult, 0, count)
	for i := 0; i < count; i++ {
		res, err := g.generateOne(pool, rng)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// GenerateFromList generates count packs, each from a set picked uniformly
// at random (with replacement) out of the given codes. Every code must
// resolve before any pack is drawn.
func (g *Generator) GenerateFromList(codes []string, count int) ([]*PackResult, error) {
	idx := g.index.Load()

	pools := make([]*SetPool, 0, len(codes))
	for _, code := range codes {
		pool, err := idx.Lookup(code)
		if err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}
	if len(pools) == 0 {
		return nil, &UnknownSetError{Code: ""}
	}
	if count < 1 {
		count = 1
	}

	rng := newRNG(rand.Uint64())
	results := make([]*PackResult, 0, count)
	for i := 0; i < count; i++ {
		res, err := g.generateOne(pools[rng.IntN(len(pools))], rng)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// GeneratePool generates exactly one pack per listed code, in order, so a
// caller can assemble a custom sealed pool like "znr|znr|eld".
func (g *Generator) GeneratePool(codes []string) ([]*PackResult, error) {
	idx := g.index.Load()
	rng := newRNG(rand.Uint64())

	results := make([]*PackResult, 0, len(codes))
	for _, code := range codes {
		pool, err := idx.Lookup(code)
		if err != nil {
			return nil, err
		}
		res, err := g.generateOne(pool, rng)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// GenerateChaos generates a sealed pool where every pack comes from an
// independently chosen historic set.
func (g *Generator) GenerateChaos() ([]*PackResult, error) {
	idx := g.index.Load()
	rng := newRNG(rand.Uint64())

	results := make([]*PackResult, 0, g.sealedCount)
	for i := 0; i < g.sealedCount; i++ {
		code, err := g.selector.Resolve(idx, TokenHistoric, rng)
		if err != nil {
			return nil, err
		}
		pool, err := idx.Lookup(code)
		if err != nil {
			return nil, err
		}
		res, err := g.generateOne(pool, rng)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// generateOne runs the SAMPLE -> VALIDATE -> {ACCEPT | RETRY} loop for a
// single pack. Rejected candidates are discarded wholesale; every retry is
// a fresh independent draw. Exhausting the budget is not an error: the last
// candidate is returned flagged unbalanced.
func (g *Generator) generateOne(pool *SetPool, rng *rand.Rand) (*PackResult, error) {
	sampler := NewSampler(rng)

	var (
		pack       *Pack
		violations []Rule
		err        error
	)

	maxAttempts := g.maxAttempts
	if !pool.Balanced {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		pack, err = sampler.SamplePack(pool)
		if err != nil {
			// A data problem, not sampling luck; retrying cannot help.
			return nil, err
		}

		if !pool.Balanced {
			return g.result(pack, true, attempt, nil), nil
		}

		var ok bool
		ok, violations = g.validator.Check(pack)
		if ok {
			g.logger.Debug("pack accepted",
				"set", pool.Code, "attempts", attempt)
			return g.result(pack, true, attempt, nil), nil
		}

		g.logger.Debug("pack discarded",
			"set", pool.Code, "attempt", attempt, "violations", ruleStrings(violations))
	}

	g.logger.Warn("balance retry budget exhausted, returning unbalanced pack",
		"set", pool.Code, "attempts", maxAttempts, "violations", ruleStrings(violations))

	return g.result(pack, false, maxAttempts, violations), nil
}

func (g *Generator) result(pack *Pack, balanced bool, attempts int, violations []Rule) *PackResult {
	return &PackResult{
		ID:         uuid.NewString(),
		SetCode:    pack.SetCode,
		SetName:    pack.SetName,
		Cards:      pack.Cards,
		Balanced:   balanced,
		Attempts:   attempts,
		Violations: violations,
	}
}

// newRNG builds an independent per-call random source, keeping concurrent
// generations uncorrelated.
func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func ruleStrings(rules []Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.String()
	}
	return out
}
