// Package transform derives new rule sets from existing ones: projection keeps
// only the rules needed to derive a goal subset from another goal subset, and
// marginalization eliminates goals assumed never to be given.
//
// Both run the reachability analysis in DNF mode and turn every conjunctive
// clause of a goal's condition into one synthesized rule. The goal analyzed at
// top level is never assumed given, so every synthesized rule stands for at
// least one original rule application.
package transform

import (
	"github.com/cognicore/andor/pkg/andor/reach"
	"github.com/cognicore/andor/pkg/andor/rule"
	"github.com/cognicore/andor/pkg/andor/trace"
)

// Option configures a transformer.
type Option func(*options)

type options struct {
	tracer trace.Tracer
}

// WithTracer reports the underlying analysis to t.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

func synthesize[G comparable](
	index *rule.Index[G],
	goals []G,
	provided reach.Provider[G],
	factory rule.Factory[G],
	opts []Option,
) []*rule.Rule[G] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if factory == nil {
		factory = rule.DefaultFactory[G]
	}

	analyzer := reach.New(index, provided, reach.WithTracer[G](o.tracer))
	out := rule.NewSet[G]()
	for _, goal := range goals {
		analyzer.Reset()
		for _, clause := range analyzer.Condition(goal).Clauses() {
			out.Add(factory(goal, clause.Literals()))
		}
	}
	return out.Rules()
}

func setOf[G comparable](goals []G) map[G]bool {
	set := make(map[G]bool, len(goals))
	for _, g := range goals {
		set[g] = true
	}
	return set
}
