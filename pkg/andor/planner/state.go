package planner

import "github.com/cognicore/andor/pkg/andor/rule"

// State is the bookkeeping shared by one planning run and any sequel
// planners it hands off to. Satisfied and Available are mutated during
// search and restored before each enclosing call moves on.
type State[G comparable] struct {
	Goals     []G
	Satisfied map[G]bool
	Rules     []*rule.Rule[G]
	Available []bool

	index *rule.Index[G]
}

// NewState starts a run over rules with every rule available.
func NewState[G comparable](goals, satisfied []G, rules []*rule.Rule[G]) *State[G] {
	st := &State[G]{
		Goals:     append([]G(nil), goals...),
		Satisfied: make(map[G]bool, len(satisfied)),
		Rules:     append([]*rule.Rule[G](nil), rules...),
		Available: make([]bool, len(rules)),
	}
	for _, g := range satisfied {
		st.Satisfied[g] = true
	}
	for i := range st.Available {
		st.Available[i] = true
	}
	st.index = rule.NewIndex(st.Rules)
	return st
}

// Unsatisfied returns the goals not yet achieved, in goal order.
func (s *State[G]) Unsatisfied() []G {
	var out []G
	for _, g := range s.Goals {
		if !s.Satisfied[g] {
			out = append(out, g)
		}
	}
	return out
}

// AllSatisfied reports whether every goal has been achieved.
func (s *State[G]) AllSatisfied() bool {
	for _, g := range s.Goals {
		if !s.Satisfied[g] {
			return false
		}
	}
	return true
}

// apply consumes rule i and marks its consequents satisfied. The returned
// func undoes exactly those changes and must run before the caller tries
// another rule.
func (s *State[G]) apply(i int) (undo func()) {
	s.Available[i] = false
	var added []G
	for _, g := range s.Rules[i].Consequents() {
		if !s.Satisfied[g] {
			s.Satisfied[g] = true
			added = append(added, g)
		}
	}
	return func() {
		for _, g := range added {
			delete(s.Satisfied, g)
		}
		s.Available[i] = true
	}
}

// relevant returns the unsatisfied goals that are needed, directly or as an
// antecedent of some available rule, to achieve the unsatisfied goals.
func (s *State[G]) relevant() map[G]bool {
	rel := make(map[G]bool)
	queue := s.Unsatisfied()
	for _, g := range queue {
		rel[g] = true
	}
	for len(queue) > 0 {
		g := queue[0]
		queue = queue[1:]
		for _, r := range s.index.RulesFor(g) {
			if i := s.index.Position(r); i < 0 || !s.Available[i] {
				continue
			}
			for _, ant := range r.Antecedents() {
				if !s.Satisfied[ant] && !rel[ant] {
					rel[ant] = true
					queue = append(queue, ant)
				}
			}
		}
	}
	return rel
}

// applicable reports whether rule i is available, fires from the satisfied
// goals, and achieves at least one new relevant goal.
func (s *State[G]) applicable(i int, relevant map[G]bool) bool {
	if !s.Available[i] {
		return false
	}
	r := s.Rules[i]
	for _, ant := range r.Antecedents() {
		if !s.Satisfied[ant] {
			return false
		}
	}
	for _, g := range r.Consequents() {
		if !s.Satisfied[g] && relevant[g] {
			return true
		}
	}
	return false
}
