// Package planner searches for plans achieving a goal set by chaining rules,
// using each rule at most once along any branch.
package planner

import (
	"fmt"

	"github.com/cognicore/andor/pkg/andor/plan"
	"github.com/cognicore/andor/pkg/andor/rule"
	"github.com/cognicore/andor/pkg/andor/trace"
)

// Planner continues a planning run from st. A nil plan means no plan exists.
type Planner[G comparable] interface {
	Plan(st *State[G]) plan.Plan[G]
}

// Noop is the default sequel: nothing is left to do.
type Noop[G comparable] struct{}

func (Noop[G]) Plan(*State[G]) plan.Plan[G] {
	return plan.NewSequential[G]()
}

// EachRuleAtMostOnce plans for st.Goals. Once every goal is satisfied it hands
// off to Sequel with the same rule-availability bookkeeping.
type EachRuleAtMostOnce[G comparable] struct {
	Sequel    Planner[G]
	Smoothing float64
	Tracer    trace.Tracer
}

// Plan returns an Alternative over every way of achieving st's goals, or nil.
// st is left as it was found.
func (p *EachRuleAtMostOnce[G]) Plan(st *State[G]) plan.Plan[G] {
	return p.search(st, 0)
}

func (p *EachRuleAtMostOnce[G]) search(st *State[G], depth int) plan.Plan[G] {
	tracer := trace.OrNop(p.Tracer)
	if st.AllSatisfied() {
		tracer.Trace(trace.Event{Kind: trace.KindSequel, Depth: depth})
		return p.sequel().Plan(st)
	}

	relevant := st.relevant()
	var alternatives []plan.Plan[G]
	for i := range st.Rules {
		if !st.applicable(i, relevant) {
			continue
		}
		if alt := p.try(st, i, depth); alt != nil {
			alternatives = append(alternatives, alt)
		}
	}
	if len(alternatives) == 0 {
		tracer.Trace(trace.Event{
			Kind:   trace.KindNoPlan,
			Depth:  depth,
			Detail: fmt.Sprintf("unsatisfied=%v", st.Unsatisfied()),
		})
		return nil
	}
	return plan.NewAlternativeWithSmoothing(p.Smoothing, alternatives...)
}

func (p *EachRuleAtMostOnce[G]) try(st *State[G], i, depth int) plan.Plan[G] {
	undo := st.apply(i)
	defer undo()

	trace.OrNop(p.Tracer).Trace(trace.Event{Kind: trace.KindTry, Depth: depth, Rule: st.Rules[i].String()})
	return plan.NewSequential(plan.NewAtomic(st.Rules[i]), p.search(st, depth+1))
}

func (p *EachRuleAtMostOnce[G]) sequel() Planner[G] {
	if p.Sequel == nil {
		return Noop[G]{}
	}
	return p.Sequel
}

// WithGoals is a sequel that switches the run to another goal set and
// continues with Next, which defaults to EachRuleAtMostOnce. Rules consumed
// for the previous goals stay consumed.
type WithGoals[G comparable] struct {
	Goals []G
	Next  Planner[G]
}

func (w WithGoals[G]) Plan(st *State[G]) plan.Plan[G] {
	prev := st.Goals
	st.Goals = w.Goals
	defer func() { st.Goals = prev }()

	next := w.Next
	if next == nil {
		next = &EachRuleAtMostOnce[G]{}
	}
	return next.Plan(st)
}

// Chain plans for each goal set in turn, later sets continuing from the rules
// and goals left by earlier ones.
func Chain[G comparable](rules []*rule.Rule[G], goalSets ...[]G) plan.Plan[G] {
	if len(goalSets) == 0 {
		return plan.NewSequential[G]()
	}
	var sequel Planner[G]
	for i := len(goalSets) - 1; i > 0; i-- {
		sequel = WithGoals[G]{Goals: goalSets[i], Next: &EachRuleAtMostOnce[G]{Sequel: sequel}}
	}
	return PlanUsingEachRuleAtMostOnceWithSequel(goalSets[0], nil, rules, sequel)
}

// Plan searches for a plan achieving every goal starting from nothing.
func Plan[G comparable](goals []G, rules []*rule.Rule[G]) plan.Plan[G] {
	return PlanUsingEachRuleAtMostOnce(goals, nil, rules)
}

// PlanUsingEachRuleAtMostOnce searches for a plan achieving goals given that
// satisfied already hold.
func PlanUsingEachRuleAtMostOnce[G comparable](goals, satisfied []G, rules []*rule.Rule[G]) plan.Plan[G] {
	return PlanUsingEachRuleAtMostOnceWithSequel(goals, satisfied, rules, nil)
}

// PlanUsingEachRuleAtMostOnceWithSequel is PlanUsingEachRuleAtMostOnce handing
// off to sequel once goals are achieved. A nil sequel is Noop.
func PlanUsingEachRuleAtMostOnceWithSequel[G comparable](goals, satisfied []G, rules []*rule.Rule[G], sequel Planner[G]) plan.Plan[G] {
	p := &EachRuleAtMostOnce[G]{Sequel: sequel}
	return p.Plan(NewState(goals, satisfied, rules))
}
