package transform

import "github.com/cognicore/andor/pkg/andor/rule"

// Projection restricts a rule set to a goal subset: the projected rules derive
// each projected goal directly from other projected goals.
type Projection[G comparable] struct {
	index     *rule.Index[G]
	projected []G
	factory   rule.Factory[G]
	opts      []Option
}

// NewProjection prepares the projection of rules onto projectedGoals. A nil
// factory is rule.DefaultFactory.
func NewProjection[G comparable](rules []*rule.Rule[G], projectedGoals []G, factory rule.Factory[G], opts ...Option) *Projection[G] {
	return &Projection[G]{
		index:     rule.NewIndex(rules),
		projected: append([]G(nil), projectedGoals...),
		factory:   factory,
		opts:      opts,
	}
}

// ProjectedRules synthesizes one rule per way of deriving a projected goal
// from projected goals. Equivalent rules coalesce.
func (p *Projection[G]) ProjectedRules() []*rule.Rule[G] {
	kept := setOf(p.projected)
	provided := func(goal G, topLevel bool) bool {
		return !topLevel && kept[goal]
	}
	return synthesize(p.index, p.projected, provided, p.factory, p.opts)
}
