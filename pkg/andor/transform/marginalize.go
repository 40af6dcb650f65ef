package transform

import "github.com/cognicore/andor/pkg/andor/rule"

// Marginalizer eliminates goals that are assumed never to be given: the
// marginalized rules derive every other goal without mentioning them.
type Marginalizer[G comparable] struct {
	index        *rule.Index[G]
	marginalized []G
	factory      rule.Factory[G]
	opts         []Option
}

// NewMarginalizer prepares the marginalization of rules over marginalizedGoals.
// A nil factory is rule.DefaultFactory.
func NewMarginalizer[G comparable](rules []*rule.Rule[G], marginalizedGoals []G, factory rule.Factory[G], opts ...Option) *Marginalizer[G] {
	return &Marginalizer[G]{
		index:        rule.NewIndex(rules),
		marginalized: append([]G(nil), marginalizedGoals...),
		factory:      factory,
		opts:         opts,
	}
}

// MarginalizedRules synthesizes rules for every consequent of the original
// rules except the marginalized goals.
func (m *Marginalizer[G]) MarginalizedRules() []*rule.Rule[G] {
	dropped := setOf(m.marginalized)
	var goals []G
	for _, g := range m.index.Goals() {
		if !dropped[g] {
			goals = append(goals, g)
		}
	}
	provided := func(goal G, topLevel bool) bool {
		return !topLevel && !dropped[goal]
	}
	return synthesize(m.index, goals, provided, m.factory, m.opts)
}
