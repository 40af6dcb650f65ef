// Package rule defines goals, production rules and the goal-indexed rule set
// consulted by the planner and the rule-set transformers.
package rule

import (
	"context"
	"fmt"
	"strings"
)

// State is the opaque execution context handed to actions and goal tests.
type State any

// Action performs a rule's effect against a State.
type Action func(ctx context.Context, state State) error

// ContingentGoal is a goal whose truth can be tested at execution time.
// IsSatisfied must be a pure function of the state.
type ContingentGoal[G comparable] interface {
	Goal() G
	IsSatisfied(state State) bool
}

type testable[G comparable] struct {
	goal G
	test func(State) bool
}

func (t testable[G]) Goal() G                      { return t.goal }
func (t testable[G]) IsSatisfied(state State) bool { return t.test(state) }
func (t testable[G]) String() string               { return fmt.Sprint(t.goal) }

// Testable pairs a goal with its runtime test.
func Testable[G comparable](goal G, test func(State) bool) ContingentGoal[G] {
	return testable[G]{goal: goal, test: test}
}

// Rule asserts that once all antecedents hold, executing it makes every
// consequent hold. Weight estimates how likely execution is to succeed.
type Rule[G comparable] struct {
	Name   string
	Weight float64
	Action Action

	antecedents []G
	consequents []G
}

// New builds a rule, dropping duplicate goals from both sides.
func New[G comparable](consequents, antecedents []G, weight float64) *Rule[G] {
	return &Rule[G]{
		Weight:      weight,
		antecedents: unique(antecedents),
		consequents: unique(consequents),
	}
}

// Named is New with a name, which also becomes the rule's Key.
func Named[G comparable](name string, consequents, antecedents []G, weight float64) *Rule[G] {
	r := New(consequents, antecedents, weight)
	r.Name = name
	return r
}

// Antecedents returns a copy of the goals required before the rule fires.
func (r *Rule[G]) Antecedents() []G {
	return append([]G(nil), r.antecedents...)
}

// Consequents returns a copy of the goals the rule guarantees.
func (r *Rule[G]) Consequents() []G {
	return append([]G(nil), r.consequents...)
}

// Execute runs the rule's action. A rule without an action succeeds trivially.
func (r *Rule[G]) Execute(ctx context.Context, state State) error {
	if r.Action == nil {
		return nil
	}
	if err := r.Action(ctx, state); err != nil {
		return fmt.Errorf("rule %s: %w", r.Key(), err)
	}
	return nil
}

// Key identifies the rule for weight persistence: its name if set, otherwise
// its rendered form.
func (r *Rule[G]) Key() string {
	if r.Name != "" {
		return r.Name
	}
	return r.String()
}

// Equivalent reports whether two rules have the same consequent and
// antecedent sets.
func (r *Rule[G]) Equivalent(o *Rule[G]) bool {
	return sameSet(r.consequents, o.consequents) && sameSet(r.antecedents, o.antecedents)
}

func (r *Rule[G]) String() string {
	return join(r.consequents) + " <- [" + join(r.antecedents) + "]"
}

// Factory synthesizes a rule deriving goal from antecedents. The transformers
// call it once per conjunctive clause they discover.
type Factory[G comparable] func(goal G, antecedents []G) *Rule[G]

// DefaultFactory produces unnamed, action-less rules of weight 1.
func DefaultFactory[G comparable](goal G, antecedents []G) *Rule[G] {
	return New([]G{goal}, antecedents, 1)
}

func join[G comparable](goals []G) string {
	parts := make([]string, len(goals))
	for i, g := range goals {
		parts[i] = fmt.Sprint(g)
	}
	return strings.Join(parts, ", ")
}

func unique[G comparable](goals []G) []G {
	seen := make(map[G]struct{}, len(goals))
	out := make([]G, 0, len(goals))
	for _, g := range goals {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

func sameSet[G comparable](a, b []G) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[G]struct{}, len(a))
	for _, g := range a {
		set[g] = struct{}{}
	}
	for _, g := range b {
		if _, ok := set[g]; !ok {
			return false
		}
	}
	return true
}
