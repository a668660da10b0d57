// Package benchmarks provides benchmarks for the pack generation engine.
//
// To run:
//
//	go test -bench=. -benchmem ./benchmarks/...
//
// To compare runs:
//
//	go install golang.org/x/perf/cmd/benchstat@latest
//	go test -bench=. -benchmem -count=5 ./benchmarks/... > before.txt
//	go test -bench=. -benchmem -count=5 ./benchmarks/... > after.txt
//	benchstat before.txt after.txt
package benchmarks

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/ramonehamilton/booster-sim/internal/booster"
)

// benchPool builds a realistically sized pool: a modern set runs roughly
// 100 commons, 80 uncommons, 60 rares and 20 mythics.
func benchPool(balanced bool) *booster.SetPool {
	colors := []string{"W", "U", "B", "R", "G"}

	sheet := func(name, prefix string, rarity booster.Rarity, count int, creatures bool) *booster.Sheet {
		s := &booster.Sheet{Name: name}
		for i := 0; i < count; i++ {
			types := []string{"Sorcery"}
			if creatures && i%2 == 0 {
				types = []string{"Creature"}
			}
			s.Add(&booster.Card{
				ID:      fmt.Sprintf("%s-%d", prefix, i),
				Name:    fmt.Sprintf("%s %d", name, i),
				SetCode: "BEN",
				Number:  fmt.Sprintf("%d", i+1),
				Rarity:  rarity,
				Colors:  []string{colors[i%5]},
				Types:   types,
			}, 1+i%4)
		}
		return s
	}

	return &booster.SetPool{
		Code:     "ben",
		Name:     "Benchmark Set",
		Balanced: balanced,
		Composition: booster.Composition{
			Commons:         10,
			Uncommons:       3,
			Rares:           1,
			FoilProbability: 0.25,
		},
		Commons:   sheet("common", "c", booster.RarityCommon, 100, true),
		Uncommons: sheet("uncommon", "u", booster.RarityUncommon, 80, false),
		Rares:     sheet("rare", "r", booster.RarityRare, 60, false),
		Mythics:   sheet("mythic", "m", booster.RarityMythic, 20, false),
		Foils:     sheet("foil", "f", booster.RarityCommon, 100, true),
	}
}

func benchGenerator(balanced bool) *booster.Generator {
	idx := booster.NewIndex([]*booster.SetPool{benchPool(balanced)})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return booster.New(idx, booster.WithLogger(logger))
}

func BenchmarkSamplePack(b *testing.B) {
	pool := benchPool(false)
	sampler := booster.NewSampler(rand.New(rand.NewPCG(1, 2)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sampler.SamplePack(pool); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGeneratePackUnbalanced(b *testing.B) {
	gen := benchGenerator(false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gen.GeneratePack("ben"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGeneratePackBalanced(b *testing.B) {
	gen := benchGenerator(true)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gen.GeneratePack("ben"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGenerateSealed(b *testing.B) {
	gen := benchGenerator(true)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gen.GenerateSealed("ben"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBalanceCheck(b *testing.B) {
	pool := benchPool(false)
	sampler := booster.NewSampler(rand.New(rand.NewPCG(3, 4)))
	validator := booster.BalanceValidator{}

	pack, err := sampler.SamplePack(pool)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		validator.Check(pack)
	}
}
