// Package plan defines the executable AND/OR/contingent plan tree.
//
// Plan is a closed sum type: Atomic, Sequential, Alternative and Contingent are
// its only variants, and Execute, Reward and Deterministic switch over them
// exhaustively. A nil Plan is the "no plan" sentinel; every smart constructor
// propagates it.
package plan

import (
	"fmt"
	"strings"

	"github.com/cognicore/andor/pkg/andor/rule"
)

const (
	// MaxWeight is the weight of a plan that is certain to succeed.
	MaxWeight = 1.0
	// DefaultSmoothing is added to every alternative's weight before
	// normalizing, so no alternative's selection probability reaches zero.
	DefaultSmoothing = 0.01
)

// Rand is the randomness source Alternative execution samples from.
// *math/rand.Rand and *math/rand/v2.Rand both satisfy it.
type Rand interface {
	Float64() float64
}

// Plan is an executable, weighted strategy for achieving a goal set.
type Plan[G comparable] interface {
	// Weight estimates how likely the plan is to succeed.
	Weight() float64
	// NestedString renders the tree, indenting each level by four spaces.
	NestedString(indent int) string

	sealed(G)
}

// Atomic executes a single rule.
type Atomic[G comparable] struct {
	Rule   *rule.Rule[G]
	weight float64
}

// NewAtomic wraps r, starting from the rule's weight. A nil rule is no plan.
func NewAtomic[G comparable](r *rule.Rule[G]) Plan[G] {
	if r == nil {
		return nil
	}
	return &Atomic[G]{Rule: r, weight: r.Weight}
}

func (a *Atomic[G]) Weight() float64 { return a.weight }

func (a *Atomic[G]) NestedString(indent int) string {
	return pad(indent) + a.Rule.String() + weightSuffix(a)
}

func (a *Atomic[G]) String() string { return a.NestedString(0) }

func (*Atomic[G]) sealed(G) {}

// Sequential executes its children in order.
type Sequential[G comparable] struct {
	children []Plan[G]
}

// NewSequential flattens nested Sequential children into one level. It returns
// nil if any child is nil and the child itself if exactly one remains. With no
// children it returns the empty plan, which does nothing and always succeeds.
func NewSequential[G comparable](children ...Plan[G]) Plan[G] {
	flat := make([]Plan[G], 0, len(children))
	for _, c := range children {
		switch c := c.(type) {
		case nil:
			return nil
		case *Sequential[G]:
			flat = append(flat, c.children...)
		default:
			flat = append(flat, c)
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Sequential[G]{children: flat}
}

// Children returns the steps in execution order.
func (s *Sequential[G]) Children() []Plan[G] {
	return append([]Plan[G](nil), s.children...)
}

// Weight is the weight of the weakest step.
func (s *Sequential[G]) Weight() float64 {
	if len(s.children) == 0 {
		return MaxWeight
	}
	w := s.children[0].Weight()
	for _, c := range s.children[1:] {
		w = min(w, c.Weight())
	}
	return w
}

func (s *Sequential[G]) NestedString(indent int) string {
	if len(s.children) == 0 {
		return pad(indent) + "Sequential (empty)"
	}
	return nest(indent, "Sequential"+weightSuffix(s), s.children)
}

func (s *Sequential[G]) String() string { return s.NestedString(0) }

func (*Sequential[G]) sealed(G) {}

// Contingent branches on a goal tested at execution time.
type Contingent[G comparable] struct {
	Goal rule.ContingentGoal[G]
	Then Plan[G]
	Else Plan[G]
}

// NewContingent returns nil if the goal or either branch is missing.
func NewContingent[G comparable](goal rule.ContingentGoal[G], then, els Plan[G]) Plan[G] {
	if goal == nil || then == nil || els == nil {
		return nil
	}
	return &Contingent[G]{Goal: goal, Then: then, Else: els}
}

// Weight is MaxWeight when both branches are deterministic, since the test
// picks the branch with certainty, and otherwise the weaker branch's weight.
func (c *Contingent[G]) Weight() float64 {
	if Deterministic(c.Then) && Deterministic(c.Else) {
		return MaxWeight
	}
	return min(c.Then.Weight(), c.Else.Weight())
}

func (c *Contingent[G]) NestedString(indent int) string {
	var b strings.Builder
	b.WriteString(pad(indent))
	b.WriteString("If ")
	b.WriteString(fmt.Sprint(c.Goal.Goal()))
	b.WriteString(weightSuffix(c))
	b.WriteString("\n")
	b.WriteString(pad(indent + 1))
	b.WriteString("then\n")
	b.WriteString(c.Then.NestedString(indent + 2))
	b.WriteString("\n")
	b.WriteString(pad(indent + 1))
	b.WriteString("else\n")
	b.WriteString(c.Else.NestedString(indent + 2))
	return b.String()
}

func (c *Contingent[G]) String() string { return c.NestedString(0) }

func (*Contingent[G]) sealed(G) {}

// Deterministic reports whether p contains no Alternative or Contingent node.
func Deterministic[G comparable](p Plan[G]) bool {
	switch p := p.(type) {
	case *Atomic[G]:
		return true
	case *Sequential[G]:
		for _, c := range p.children {
			if !Deterministic(c) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Sampled reports whether executing p may sample from a randomness source,
// that is whether p contains an Alternative node.
func Sampled[G comparable](p Plan[G]) bool {
	switch p := p.(type) {
	case *Alternative[G]:
		return true
	case *Sequential[G]:
		for _, c := range p.children {
			if Sampled(c) {
				return true
			}
		}
	case *Contingent[G]:
		return Sampled(p.Then) || Sampled(p.Else)
	}
	return false
}

// Atomics returns the leaves of p in depth-first order.
func Atomics[G comparable](p Plan[G]) []*Atomic[G] {
	var out []*Atomic[G]
	var walk func(Plan[G])
	walk = func(p Plan[G]) {
		switch p := p.(type) {
		case *Atomic[G]:
			out = append(out, p)
		case *Sequential[G]:
			for _, c := range p.children {
				walk(c)
			}
		case *Alternative[G]:
			for _, c := range p.children {
				walk(c)
			}
		case *Contingent[G]:
			walk(p.Then)
			walk(p.Else)
		}
	}
	walk(p)
	return out
}

// NestedString renders p, or "<no plan>" for nil.
func NestedString[G comparable](p Plan[G], indent int) string {
	if p == nil {
		return pad(indent) + "<no plan>"
	}
	return p.NestedString(indent)
}
