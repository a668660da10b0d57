package booster

import (
	"fmt"
	"testing"
)

// balancedPack builds a pack that satisfies all five rules: one common of
// each color (creatures), five filler colorless commons, one uncommon.
func balancedPack() *Pack {
	pack := &Pack{SetCode: "TST"}
	pack.Cards = append(pack.Cards, PackCard{
		Card: makeCard("rare", RarityRare, []string{"W"}, false),
	})
	pack.Cards = append(pack.Cards, PackCard{
		Card: makeCard("unc", RarityUncommon, []string{"U"}, false),
	})
	for i, color := range Colors {
		pack.Cards = append(pack.Cards, PackCard{
			Card: makeCard(fmt.Sprintf("common-%s", color), RarityCommon, []string{color}, true),
		})
		pack.Cards = append(pack.Cards, PackCard{
			Card: makeCard(fmt.Sprintf("filler-%d", i), RarityCommon, nil, false),
		})
	}
	return pack
}

func hasRule(rules []Rule, r Rule) bool {
	for _, got := range rules {
		if got == r {
			return true
		}
	}
	return false
}

func TestBalancedPackPasses(t *testing.T) {
	ok, violated := BalanceValidator{}.Check(balancedPack())
	if !ok {
		t.Fatalf("Expected balanced pack to pass, violated: %v", violated)
	}
	if len(violated) != 0 {
		t.Errorf("Expected no violations, got %v", violated)
	}
}

func TestTooManyCommonsOfOneColor(t *testing.T) {
	pack := balancedPack()
	for i := 0; i < 4; i++ {
		pack.Cards = append(pack.Cards, PackCard{
			Card: makeCard(fmt.Sprintf("extra-w-%d", i), RarityCommon, []string{"W"}, false),
		})
	}

	ok, violated := BalanceValidator{}.Check(pack)
	if ok {
		t.Fatal("Expected pack with 5 white commons to fail")
	}
	if !hasRule(violated, RuleMaxCommonsPerColor) {
		t.Errorf("Expected RuleMaxCommonsPerColor, got %v", violated)
	}
}

func TestMissingColorCommon(t *testing.T) {
	pack := balancedPack()
	// Drop the green common.
	var cards []PackCard
	for _, pc := range pack.Cards {
		if pc.ID == "common-G" {
			continue
		}
		cards = append(cards, pc)
	}
	pack.Cards = cards

	ok, violated := BalanceValidator{}.Check(pack)
	if ok {
		t.Fatal("Expected pack with no green common to fail")
	}
	if !hasRule(violated, RuleEveryColorCommon) {
		t.Errorf("Expected RuleEveryColorCommon, got %v", violated)
	}
}

func TestNoCommonCreature(t *testing.T) {
	pack := balancedPack()
	for i := range pack.Cards {
		if pack.Cards[i].Rarity != RarityCommon {
			continue
		}
		c := *pack.Cards[i].Card
		c.Types = []string{"Sorcery"}
		c.TypeLine = "Sorcery"
		pack.Cards[i].Card = &c
	}

	ok, violated := BalanceValidator{}.Check(pack)
	if ok {
		t.Fatal("Expected pack with no common creature to fail")
	}
	if !hasRule(violated, RuleCommonCreature) {
		t.Errorf("Expected RuleCommonCreature, got %v", violated)
	}
}

func TestTooManyUncommonsOfOneColor(t *testing.T) {
	pack := balancedPack()
	pack.Cards = append(pack.Cards,
		PackCard{Card: makeCard("unc2", RarityUncommon, []string{"U"}, false)},
		PackCard{Card: makeCard("unc3", RarityUncommon, []string{"U"}, false)},
	)

	ok, violated := BalanceValidator{}.Check(pack)
	if ok {
		t.Fatal("Expected pack with 3 blue uncommons to fail")
	}
	if !hasRule(violated, RuleMaxUncommonsPerColor) {
		t.Errorf("Expected RuleMaxUncommonsPerColor, got %v", violated)
	}
}

func TestDuplicateCard(t *testing.T) {
	pack := balancedPack()
	pack.Cards = append(pack.Cards, pack.Cards[0])

	ok, violated := BalanceValidator{}.Check(pack)
	if ok {
		t.Fatal("Expected pack with duplicate card to fail")
	}
	if !hasRule(violated, RuleNoDuplicates) {
		t.Errorf("Expected RuleNoDuplicates, got %v", violated)
	}
}

func TestMulticolorAndColorlessNotCounted(t *testing.T) {
	pack := balancedPack()

	// Five multicolor white-blue commons and five colorless commons must
	// not trip the per-color maximum.
	for i := 0; i < 5; i++ {
		pack.Cards = append(pack.Cards,
			PackCard{Card: makeCard(fmt.Sprintf("multi-%d", i), RarityCommon, []string{"W", "U"}, false)},
			PackCard{Card: makeCard(fmt.Sprintf("colorless-%d", i), RarityCommon, nil, false)},
		)
	}

	ok, violated := BalanceValidator{}.Check(pack)
	if !ok {
		t.Errorf("Multicolor and colorless commons should not count toward color buckets, violated: %v", violated)
	}
}

func TestFoilCardsExcludedFromColorRules(t *testing.T) {
	pack := balancedPack()

	// Five foil white commons: foils never count toward rules 1-4.
	for i := 0; i < 5; i++ {
		pack.Cards = append(pack.Cards, PackCard{
			Card: makeCard(fmt.Sprintf("foil-w-%d", i), RarityCommon, []string{"W"}, false),
			Foil: true,
		})
	}

	ok, violated := BalanceValidator{}.Check(pack)
	if !ok {
		t.Errorf("Foil commons should not count toward color buckets, violated: %v", violated)
	}
}

func TestMultipleViolationsReported(t *testing.T) {
	// A pack of one colorless non-creature common violates the color
	// coverage rule and the creature rule at once.
	pack := &Pack{
		SetCode: "TST",
		Cards: []PackCard{
			{Card: makeCard("only", RarityCommon, nil, false)},
		},
	}

	ok, violated := BalanceValidator{}.Check(pack)
	if ok {
		t.Fatal("Expected failure")
	}
	if !hasRule(violated, RuleEveryColorCommon) || !hasRule(violated, RuleCommonCreature) {
		t.Errorf("Expected both color coverage and creature violations, got %v", violated)
	}
}

func TestRuleString(t *testing.T) {
	rules := []Rule{
		RuleMaxCommonsPerColor,
		RuleEveryColorCommon,
		RuleCommonCreature,
		RuleMaxUncommonsPerColor,
		RuleNoDuplicates,
	}
	for _, r := range rules {
		if r.String() == "unknown rule" {
			t.Errorf("Rule %d has no description", r)
		}
	}
	if Rule(99).String() != "unknown rule" {
		t.Error("Expected unknown rule fallback")
	}
}
