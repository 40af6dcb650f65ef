package main

import (
	"context"
	"errors"

	"github.com/cognicore/andor/pkg/andor/learn"
	"github.com/cognicore/andor/pkg/andor/plan"
	"github.com/cognicore/andor/pkg/andor/rule"
)

var errRuleFailed = errors.New("rule did not take effect")

// world is the simulated state train executes plans against: the set of
// goals that currently hold.
type world struct {
	facts map[string]bool
}

func newWorld(given []string) func() rule.State {
	return func() rule.State {
		w := &world{facts: make(map[string]bool, len(given))}
		for _, g := range given {
			w.facts[g] = true
		}
		return w
	}
}

func holds(goal string) func(rule.State) bool {
	return func(s rule.State) bool {
		w, ok := s.(*world)
		return ok && w.facts[goal]
	}
}

// simulate gives every rule an action that makes its consequents hold with
// the rule's success probability.
func simulate(rules []*rule.Rule[string], success map[string]float64, rng plan.Rand) {
	for _, r := range rules {
		p, ok := success[r.Key()]
		if !ok {
			p = 1
		}
		then := r.Consequents()
		r.Action = func(_ context.Context, s rule.State) error {
			w := s.(*world)
			if rng.Float64() >= p {
				return errRuleFailed
			}
			for _, g := range then {
				w.facts[g] = true
			}
			return nil
		}
	}
}

// achieved rewards an execution that left every goal holding.
func achieved(goals []string) learn.Judge {
	return func(s rule.State, err error) float64 {
		if err != nil {
			return -1
		}
		for _, g := range goals {
			if !holds(g)(s) {
				return -1
			}
		}
		return 1
	}
}
