package reach

import "github.com/cognicore/andor/pkg/andor/rule"

// Closure returns every goal derivable from given by forward chaining over
// rules, given goals included.
func Closure[G comparable](rules []*rule.Rule[G], given []G) map[G]bool {
	known := make(map[G]bool, len(given))
	for _, g := range given {
		known[g] = true
	}
	fired := make([]bool, len(rules))
	for changed := true; changed; {
		changed = false
		for i, r := range rules {
			if fired[i] || !holds(known, r.Antecedents()) {
				continue
			}
			fired[i] = true
			for _, g := range r.Consequents() {
				if !known[g] {
					known[g] = true
					changed = true
				}
			}
		}
	}
	return known
}

func holds[G comparable](known map[G]bool, goals []G) bool {
	for _, g := range goals {
		if !known[g] {
			return false
		}
	}
	return true
}
