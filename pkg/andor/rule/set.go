package rule

// Set is an ordered collection of rules in which equivalent rules coalesce:
// adding a rule with the same consequent and antecedent sets as a member is a
// no-op.
type Set[G comparable] struct {
	rules []*Rule[G]
}

// NewSet returns a set holding rules, coalescing equivalents.
func NewSet[G comparable](rules ...*Rule[G]) *Set[G] {
	s := &Set[G]{}
	for _, r := range rules {
		s.Add(r)
	}
	return s
}

// Add inserts r unless an equivalent rule is present. It reports whether r
// was added.
func (s *Set[G]) Add(r *Rule[G]) bool {
	if r == nil || s.Contains(r) {
		return false
	}
	s.rules = append(s.rules, r)
	return true
}

// Contains reports whether an equivalent rule is in the set.
func (s *Set[G]) Contains(r *Rule[G]) bool {
	for _, m := range s.rules {
		if m == r || m.Equivalent(r) {
			return true
		}
	}
	return false
}

// Len returns the number of rules.
func (s *Set[G]) Len() int { return len(s.rules) }

// Rules returns the members in insertion order.
func (s *Set[G]) Rules() []*Rule[G] {
	return append([]*Rule[G](nil), s.rules...)
}
