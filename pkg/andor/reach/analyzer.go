// Package reach computes, for a goal, the DNF condition over "directly
// providable" goals under which some chain of rules derives it. Projection and
// marginalization are both instances of this analysis with different
// providability policies.
package reach

import (
	"fmt"

	"github.com/cognicore/andor/pkg/andor/dnf"
	"github.com/cognicore/andor/pkg/andor/rule"
	"github.com/cognicore/andor/pkg/andor/trace"
)

// Provider decides whether goal may be assumed given rather than derived.
// topLevel is true for the goal a Condition call starts from.
type Provider[G comparable] func(goal G, topLevel bool) bool

// Option configures an Analyzer.
type Option[G comparable] func(*Analyzer[G])

// WithTracer reports analysis decisions to t.
func WithTracer[G comparable](t trace.Tracer) Option[G] {
	return func(a *Analyzer[G]) { a.tracer = trace.OrNop(t) }
}

// Analyzer runs the cycle-safe reachability search in DNF mode.
type Analyzer[G comparable] struct {
	index    *rule.Index[G]
	provided Provider[G]
	stack    *GoalStack[G]
	tracer   trace.Tracer
}

// New returns an analyzer over index with the given providability policy.
func New[G comparable](index *rule.Index[G], provided Provider[G], opts ...Option[G]) *Analyzer[G] {
	a := &Analyzer[G]{
		index:    index,
		provided: provided,
		stack:    NewGoalStack[G](),
		tracer:   trace.Nop{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Reset clears the cycle guard before analyzing an unrelated goal.
func (a *Analyzer[G]) Reset() { a.stack.Reset() }

// Condition returns provided(goal) OR the disjunction, over rules producing
// goal, of the conjunction of their antecedents' conditions. A goal already
// under derivation yields false, so a goal reachable only through itself is
// unreachable.
func (a *Analyzer[G]) Condition(goal G) dnf.DNF[G] {
	depth := a.stack.Len()
	if a.stack.Contains(goal) {
		a.tracer.Trace(trace.Event{Kind: trace.KindCycle, Depth: depth, Goal: fmt.Sprint(goal)})
		return dnf.False[G]()
	}

	result := dnf.False[G]()
	if a.provided(goal, a.stack.Empty()) {
		a.tracer.Trace(trace.Event{Kind: trace.KindProvided, Depth: depth, Goal: fmt.Sprint(goal)})
		result = dnf.Literal(goal)
	}

	a.stack.Push(goal)
	defer a.stack.Pop()

	for _, r := range a.index.RulesFor(goal) {
		if result.IsTrue() {
			break
		}
		result = dnf.Or(result, a.ruleCondition(r))
	}

	a.tracer.Trace(trace.Event{
		Kind:   trace.KindCondition,
		Depth:  depth,
		Goal:   fmt.Sprint(goal),
		Detail: result.String(),
	})
	return result
}

func (a *Analyzer[G]) ruleCondition(r *rule.Rule[G]) dnf.DNF[G] {
	cond := dnf.True[G]()
	for _, ant := range r.Antecedents() {
		cond = dnf.And(cond, a.Condition(ant))
		if cond.IsFalse() {
			break
		}
	}
	return cond
}
