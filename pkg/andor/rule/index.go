package rule

// Index maps each goal to the rules listing it as a consequent.
// It is built once per rule set and read-only afterwards.
type Index[G comparable] struct {
	rules    []*Rule[G]
	byGoal   map[G][]*Rule[G]
	goals    []G
	position map[*Rule[G]]int
}

// NewIndex indexes rules under every consequent goal.
func NewIndex[G comparable](rules []*Rule[G]) *Index[G] {
	idx := &Index[G]{
		rules:    append([]*Rule[G](nil), rules...),
		byGoal:   make(map[G][]*Rule[G]),
		position: make(map[*Rule[G]]int, len(rules)),
	}
	for i, r := range idx.rules {
		if _, dup := idx.position[r]; !dup {
			idx.position[r] = i
		}
		for _, g := range r.consequents {
			if _, seen := idx.byGoal[g]; !seen {
				idx.goals = append(idx.goals, g)
			}
			idx.byGoal[g] = append(idx.byGoal[g], r)
		}
	}
	return idx
}

// RulesFor returns the rules producing goal; empty, never nil, if there are none.
func (idx *Index[G]) RulesFor(goal G) []*Rule[G] {
	return append([]*Rule[G]{}, idx.byGoal[goal]...)
}

// Goals returns every goal that is a consequent of some rule, in first-seen order.
func (idx *Index[G]) Goals() []G {
	return append([]G(nil), idx.goals...)
}

// Produces reports whether some rule has goal as a consequent.
func (idx *Index[G]) Produces(goal G) bool {
	_, ok := idx.byGoal[goal]
	return ok
}

// Rules returns the indexed rules in their original order.
func (idx *Index[G]) Rules() []*Rule[G] {
	return append([]*Rule[G](nil), idx.rules...)
}

// Len returns the number of indexed rules.
func (idx *Index[G]) Len() int { return len(idx.rules) }

// Position returns the index of r within Rules, or -1.
func (idx *Index[G]) Position(r *Rule[G]) int {
	if i, ok := idx.position[r]; ok {
		return i
	}
	return -1
}
