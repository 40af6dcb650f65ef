package plan

import (
	"context"
	"fmt"

	"github.com/cognicore/andor/pkg/andor/internalerr"
	"github.com/cognicore/andor/pkg/andor/rule"
)

// Execute runs p against state. Alternatives sample with rng, which must be
// non-nil whenever p contains an Alternative. Executing no plan is an error.
func Execute[G comparable](ctx context.Context, p Plan[G], state rule.State, rng Rand) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch p := p.(type) {
	case nil:
		return fmt.Errorf("execute: %w", internalerr.ErrNoPlan)
	case *Atomic[G]:
		return p.Rule.Execute(ctx, state)
	case *Sequential[G]:
		for _, c := range p.children {
			if err := Execute(ctx, c, state, rng); err != nil {
				return err
			}
		}
		return nil
	case *Alternative[G]:
		if rng == nil {
			return fmt.Errorf("execute alternative: %w", internalerr.ErrNilRand)
		}
		return Execute(ctx, p.children[p.Choose(rng)], state, rng)
	case *Contingent[G]:
		if p.Goal.IsSatisfied(state) {
			return Execute(ctx, p.Then, state, rng)
		}
		return Execute(ctx, p.Else, state, rng)
	default:
		return fmt.Errorf("execute %T: %w", p, internalerr.ErrInvalidInput)
	}
}

// Reward feeds execution feedback back into the plan's weights. Sequential
// splits amount evenly among its steps, Alternative splits it by selection
// probability, and Contingent applies it to both branches since the branch
// taken in past executions is unknown here.
func Reward[G comparable](p Plan[G], amount float64) error {
	switch p := p.(type) {
	case nil:
		return fmt.Errorf("reward: %w", internalerr.ErrNoPlan)
	case *Atomic[G]:
		p.weight += amount
		return nil
	case *Sequential[G]:
		if len(p.children) == 0 {
			return nil
		}
		share := amount / float64(len(p.children))
		for _, c := range p.children {
			if err := Reward(c, share); err != nil {
				return err
			}
		}
		return nil
	case *Alternative[G]:
		// Probabilities shift as children are rewarded, so fix them first.
		ps := p.Probabilities()
		for i, c := range p.children {
			if err := Reward(c, amount*ps[i]); err != nil {
				return err
			}
		}
		return nil
	case *Contingent[G]:
		if err := Reward(p.Then, amount); err != nil {
			return err
		}
		return Reward(p.Else, amount)
	default:
		return fmt.Errorf("reward %T: %w", p, internalerr.ErrInvalidInput)
	}
}
