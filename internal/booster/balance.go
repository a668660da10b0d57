package booster

// Rule identifies one of the five balance rules of Reuben's algorithm.
type Rule int

// The five rules, in the order they are checked.
const (
	RuleMaxCommonsPerColor Rule = iota + 1
	RuleEveryColorCommon
	RuleCommonCreature
	RuleMaxUncommonsPerColor
	RuleNoDuplicates
)

const (
	maxCommonsPerColor   = 4
	maxUncommonsPerColor = 2
)

func (r Rule) String() string {
	switch r {
	case RuleMaxCommonsPerColor:
		return "more than 4 commons of one color"
	case RuleEveryColorCommon:
		return "a color has no common"
	case RuleCommonCreature:
		return "no common creature"
	case RuleMaxUncommonsPerColor:
		return "more than 2 uncommons of one color"
	case RuleNoDuplicates:
		return "duplicate card"
	default:
		return "unknown rule"
	}
}

// PackValidator evaluates balance rules against a candidate pack.
type PackValidator interface {
	// Check returns whether the pack passes, plus the rules it violates.
	Check(pack *Pack) (bool, []Rule)
}

// BalanceValidator applies the five rules of Reuben's algorithm. Rules 1-4
// look only at non-foil commons and uncommons, and only monocolor cards
// count toward the per-color buckets; rule 5 spans the whole pack. The
// check is a single pass over at most fifteen cards, cheap enough to run
// on every retry.
type BalanceValidator struct{}

// Check implements PackValidator.
func (BalanceValidator) Check(pack *Pack) (bool, []Rule) {
	commonColors := make(map[string]int, 5)
	uncommonColors := make(map[string]int, 5)
	seen := make(map[string]bool, len(pack.Cards))

	commonCreature := false
	duplicate := false

	for _, pc := range pack.Cards {
		if seen[pc.ID] {
			duplicate = true
		}
		seen[pc.ID] = true

		if pc.Foil {
			continue
		}
		switch pc.Rarity {
		case RarityCommon:
			if pc.IsMonocolor() {
				commonColors[pc.Color()]++
			}
			if pc.IsCreature() {
				commonCreature = true
			}
		case RarityUncommon:
			if pc.IsMonocolor() {
				uncommonColors[pc.Color()]++
			}
		}
	}

	var violated []Rule

	for _, color := range Colors {
		if commonColors[color] > maxCommonsPerColor {
			violated = append(violated, RuleMaxCommonsPerColor)
			break
		}
	}
	for _, color := range Colors {
		if commonColors[color] == 0 {
			violated = append(violated, RuleEveryColorCommon)
			break
		}
	}
	if !commonCreature {
		violated = append(violated, RuleCommonCreature)
	}
	for _, color := range Colors {
		if uncommonColors[color] > maxUncommonsPerColor {
			violated = append(violated, RuleMaxUncommonsPerColor)
			break
		}
	}
	if duplicate {
		violated = append(violated, RuleNoDuplicates)
	}

	return len(violated) == 0, violated
}
