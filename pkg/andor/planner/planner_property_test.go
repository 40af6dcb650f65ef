//go:build property
// +build property

package planner_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/cognicore/andor/pkg/andor/plan"
	"github.com/cognicore/andor/pkg/andor/planner"
	"github.com/cognicore/andor/pkg/andor/reach"
	"github.com/cognicore/andor/pkg/andor/rule"
)

// rulesFrom reads each slice as consequent followed by antecedents.
func rulesFrom(raw [][]int) []*rule.Rule[int] {
	var out []*rule.Rule[int]
	for _, r := range raw {
		if len(r) == 0 {
			continue
		}
		out = append(out, rule.New([]int{r[0]}, r[1:], 0.5))
	}
	return out
}

func sound(p plan.Plan[int], goals []int) bool {
	var walk func(plan.Plan[int], map[int]bool) []map[int]bool
	walk = func(p plan.Plan[int], known map[int]bool) []map[int]bool {
		clone := func(m map[int]bool) map[int]bool {
			out := make(map[int]bool, len(m))
			for k, v := range m {
				out[k] = v
			}
			return out
		}
		switch p := p.(type) {
		case *plan.Atomic[int]:
			for _, a := range p.Rule.Antecedents() {
				if !known[a] {
					return nil
				}
			}
			next := clone(known)
			for _, c := range p.Rule.Consequents() {
				next[c] = true
			}
			return []map[int]bool{next}
		case *plan.Sequential[int]:
			states := []map[int]bool{known}
			for _, c := range p.Children() {
				var next []map[int]bool
				for _, s := range states {
					out := walk(c, s)
					if out == nil {
						return nil
					}
					next = append(next, out...)
				}
				states = next
			}
			return states
		case *plan.Alternative[int]:
			var out []map[int]bool
			for _, c := range p.Children() {
				s := walk(c, known)
				if s == nil {
					return nil
				}
				out = append(out, s...)
			}
			return out
		}
		return nil
	}

	finals := walk(p, map[int]bool{})
	if finals == nil {
		return false
	}
	for _, known := range finals {
		for _, g := range goals {
			if !known[g] {
				return false
			}
		}
	}
	return true
}

// Property: a plan exists exactly when forward chaining reaches every goal,
// and every execution path of a returned plan achieves every goal.
func TestPlannerSoundAndComplete(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	parameters.MaxSize = 6
	properties := gopter.NewProperties(parameters)

	properties.Property("plan exists iff goals are reachable; plans are sound", prop.ForAll(
		func(raw [][]int, goals []int) bool {
			rules := rulesFrom(raw)
			p := planner.Plan(goals, rules)

			closure := reach.Closure(rules, nil)
			reachable := true
			for _, g := range goals {
				reachable = reachable && closure[g]
			}
			if p == nil {
				return !reachable
			}
			return reachable && sound(p, goals)
		},
		gen.SliceOf(gen.SliceOf(gen.IntRange(0, 4))),
		gen.SliceOf(gen.IntRange(0, 4)),
	))

	properties.TestingRun(t)
}
