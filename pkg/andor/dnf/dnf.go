// Package dnf implements disjunctive normal form conditions over positive goal
// literals. Values are immutable: every operation returns a fresh DNF.
package dnf

import (
	"fmt"
	"strings"
)

// Clause is a conjunction of positive goal literals.
// The zero value is the empty conjunction, which always holds.
type Clause[G comparable] struct {
	literals []G
	set      map[G]struct{}
}

// NewClause builds a clause, dropping duplicate literals.
func NewClause[G comparable](literals ...G) Clause[G] {
	c := Clause[G]{}
	for _, g := range literals {
		c = c.with(g)
	}
	return c
}

func (c Clause[G]) with(g G) Clause[G] {
	if c.Contains(g) {
		return c
	}
	out := Clause[G]{
		literals: make([]G, len(c.literals), len(c.literals)+1),
		set:      make(map[G]struct{}, len(c.literals)+1),
	}
	copy(out.literals, c.literals)
	for _, l := range c.literals {
		out.set[l] = struct{}{}
	}
	out.literals = append(out.literals, g)
	out.set[g] = struct{}{}
	return out
}

// Literals returns the clause literals in insertion order.
func (c Clause[G]) Literals() []G {
	out := make([]G, len(c.literals))
	copy(out, c.literals)
	return out
}

// Len returns the number of literals.
func (c Clause[G]) Len() int { return len(c.literals) }

// Contains reports whether g is one of the literals.
func (c Clause[G]) Contains(g G) bool {
	_, ok := c.set[g]
	return ok
}

func (c Clause[G]) subsetOf(o Clause[G]) bool {
	if c.Len() > o.Len() {
		return false
	}
	for _, g := range c.literals {
		if !o.Contains(g) {
			return false
		}
	}
	return true
}

func (c Clause[G]) equal(o Clause[G]) bool {
	return c.Len() == o.Len() && c.subsetOf(o)
}

func (c Clause[G]) union(o Clause[G]) Clause[G] {
	out := c
	for _, g := range o.literals {
		out = out.with(g)
	}
	return out
}

func (c Clause[G]) String() string {
	if c.Len() == 0 {
		return "true"
	}
	parts := make([]string, len(c.literals))
	for i, g := range c.literals {
		parts[i] = fmt.Sprint(g)
	}
	return strings.Join(parts, " & ")
}

// DNF is a disjunction of clauses. The zero value is false.
type DNF[G comparable] struct {
	clauses []Clause[G]
}

// True returns the condition that always holds: one empty clause.
func True[G comparable]() DNF[G] {
	return DNF[G]{clauses: []Clause[G]{{}}}
}

// False returns the condition that never holds: no clauses.
func False[G comparable]() DNF[G] {
	return DNF[G]{}
}

// Literal returns the condition satisfied exactly when g holds.
func Literal[G comparable](g G) DNF[G] {
	return DNF[G]{clauses: []Clause[G]{NewClause(g)}}
}

// FromClauses builds a normalized DNF from arbitrary clauses.
func FromClauses[G comparable](clauses ...Clause[G]) DNF[G] {
	return DNF[G]{clauses: absorb(clauses)}
}

// IsTrue reports whether d consists of exactly the empty clause.
func (d DNF[G]) IsTrue() bool {
	return len(d.clauses) == 1 && d.clauses[0].Len() == 0
}

// IsFalse reports whether d has no clauses.
func (d DNF[G]) IsFalse() bool {
	return len(d.clauses) == 0
}

// Clauses returns the surviving clauses in insertion order.
func (d DNF[G]) Clauses() []Clause[G] {
	out := make([]Clause[G], len(d.clauses))
	copy(out, d.clauses)
	return out
}

func (d DNF[G]) String() string {
	if d.IsFalse() {
		return "false"
	}
	if d.IsTrue() {
		return "true"
	}
	parts := make([]string, len(d.clauses))
	for i, c := range d.clauses {
		if c.Len() > 1 && len(d.clauses) > 1 {
			parts[i] = "(" + c.String() + ")"
		} else {
			parts[i] = c.String()
		}
	}
	return strings.Join(parts, " | ")
}

// Or returns the disjunction of x and y.
func Or[G comparable](x, y DNF[G]) DNF[G] {
	switch {
	case x.IsTrue() || y.IsTrue():
		return True[G]()
	case x.IsFalse():
		return y
	case y.IsFalse():
		return x
	}
	all := make([]Clause[G], 0, len(x.clauses)+len(y.clauses))
	all = append(all, x.clauses...)
	all = append(all, y.clauses...)
	return DNF[G]{clauses: absorb(all)}
}

// And returns the conjunction of x and y.
func And[G comparable](x, y DNF[G]) DNF[G] {
	switch {
	case x.IsFalse() || y.IsFalse():
		return False[G]()
	case x.IsTrue():
		return y
	case y.IsTrue():
		return x
	}
	all := make([]Clause[G], 0, len(x.clauses)*len(y.clauses))
	for _, cx := range x.clauses {
		for _, cy := range y.clauses {
			all = append(all, cx.union(cy))
		}
	}
	return DNF[G]{clauses: absorb(all)}
}

// Equal reports whether x and y contain the same clauses, in any order.
func Equal[G comparable](x, y DNF[G]) bool {
	if len(x.clauses) != len(y.clauses) {
		return false
	}
	for _, cx := range x.clauses {
		found := false
		for _, cy := range y.clauses {
			if cx.equal(cy) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// absorb drops clauses that are supersets of another clause. Of several equal
// clauses only the first survives.
func absorb[G comparable](clauses []Clause[G]) []Clause[G] {
	out := make([]Clause[G], 0, len(clauses))
	for i, c := range clauses {
		absorbed := false
		for j, o := range clauses {
			if i == j || !o.subsetOf(c) {
				continue
			}
			if o.Len() < c.Len() || j < i {
				absorbed = true
				break
			}
		}
		if !absorbed {
			out = append(out, c)
		}
	}
	return out
}
