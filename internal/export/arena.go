// Package export renders generated packs in shareable formats.
package export

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/booster-sim/internal/booster"
)

// Arena renders a pack as MTG Arena import lines, one card per line:
//
//	1 Opt (ZNR) 123
func Arena(result *booster.PackResult) string {
	var b strings.Builder
	for _, pc := range result.Cards {
		fmt.Fprintf(&b, "1 %s (%s) %s\n", pc.Name, strings.ToUpper(pc.SetCode), pc.Number)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ArenaPool renders a batch of packs as a single Arena import list. Copies
// of the same card across packs are merged into one line with a count.
func ArenaPool(results []*booster.PackResult) string {
	type entry struct {
		name    string
		setCode string
		number  string
	}

	counts := make(map[entry]int)
	var order []entry
	for _, res := range results {
		for _, pc := range res.Cards {
			e := entry{name: pc.Name, setCode: strings.ToUpper(pc.SetCode), number: pc.Number}
			if counts[e] == 0 {
				order = append(order, e)
			}
			counts[e]++
		}
	}

	var b strings.Builder
	for _, e := range order {
		fmt.Fprintf(&b, "%d %s (%s) %s\n", counts[e], e.name, e.setCode, e.number)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Text renders a pack as a plain card list, flagging foils.
func Text(result *booster.PackResult) string {
	var b strings.Builder
	for _, pc := range result.Cards {
		if pc.Foil {
			fmt.Fprintf(&b, "%s (foil)\n", pc.Name)
		} else {
			fmt.Fprintf(&b, "%s\n", pc.Name)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
