// Package learn trains plan weights online: it executes a plan repeatedly,
// rewards it according to a judge and persists what the leaves learned.
package learn

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cognicore/andor/pkg/andor/internalerr"
	"github.com/cognicore/andor/pkg/andor/plan"
	"github.com/cognicore/andor/pkg/andor/rule"
	"github.com/cognicore/andor/pkg/andor/store"
)

// Judge scores one execution from the state it left behind and the error it
// returned, if any.
type Judge func(state rule.State, err error) float64

// DefaultJudge rewards success with 1 and failure with -1.
func DefaultJudge(_ rule.State, err error) float64 {
	if err != nil {
		return -1
	}
	return 1
}

// Summary reports a training run.
type Summary struct {
	Episodes    int
	Successes   int
	TotalReward float64
	// Weights holds the learned weight of every rule in the plan, by key.
	Weights map[string]float64
}

// Trainer executes and rewards a plan. Store and Logger are optional.
type Trainer[G comparable] struct {
	Store  store.Store
	Rand   plan.Rand
	Judge  Judge
	Goals  []G
	Logger *zap.Logger

	entropy *ulid.MonotonicEntropy
}

// NewTrainer creates a trainer persisting to st.
func NewTrainer[G comparable](st store.Store, rng plan.Rand, judge Judge) *Trainer[G] {
	return &Trainer[G]{
		Store:   st,
		Rand:    rng,
		Judge:   judge,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Run executes p episodes times, each against a fresh state from newState.
// Every execution is judged and the reward fed back through plan.Reward.
// Execution failures are part of training; only context cancellation and
// store errors abort the run.
func (t *Trainer[G]) Run(ctx context.Context, p plan.Plan[G], newState func() rule.State, episodes int) (Summary, error) {
	if p == nil {
		return Summary{}, fmt.Errorf("train: %w", internalerr.ErrNoPlan)
	}
	if t.Rand == nil && plan.Sampled(p) {
		return Summary{}, fmt.Errorf("train: %w", internalerr.ErrNilRand)
	}
	if episodes < 0 {
		return Summary{}, fmt.Errorf("%w: negative episode count %d", internalerr.ErrInvalidInput, episodes)
	}

	judge := t.Judge
	if judge == nil {
		judge = DefaultJudge
	}
	logger := t.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if t.entropy == nil {
		t.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	goals := make([]string, len(t.Goals))
	for i, g := range t.Goals {
		goals[i] = fmt.Sprint(g)
	}

	var sum Summary
	for i := 0; i < episodes; i++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		state := newState()
		execErr := plan.Execute(ctx, p, state, t.Rand)
		if errors.Is(execErr, context.Canceled) || errors.Is(execErr, context.DeadlineExceeded) {
			return sum, execErr
		}
		reward := judge(state, execErr)
		if err := plan.Reward(p, reward); err != nil {
			return sum, err
		}

		sum.Episodes++
		sum.TotalReward += reward
		ep := store.Episode{
			ID:     ulid.MustNew(ulid.Now(), t.entropy).String(),
			Goals:  goals,
			Reward: reward,
			Plan:   plan.NestedString(p, 0),
			At:     time.Now(),
		}
		if execErr == nil {
			sum.Successes++
		} else {
			ep.Err = execErr.Error()
		}
		logger.Debug("episode",
			zap.String("id", ep.ID),
			zap.Float64("reward", reward),
			zap.Error(execErr),
		)

		if t.Store != nil {
			if err := t.Store.RecordEpisode(ctx, ep); err != nil {
				return sum, fmt.Errorf("record episode: %w", err)
			}
		}
	}

	sum.Weights = LeafWeights(p)
	if t.Store != nil {
		for key, w := range sum.Weights {
			if err := t.Store.UpsertWeight(ctx, key, w); err != nil {
				return sum, fmt.Errorf("persist weight %s: %w", key, err)
			}
		}
	}
	logger.Info("training finished",
		zap.Int("episodes", sum.Episodes),
		zap.Int("successes", sum.Successes),
		zap.Float64("total_reward", sum.TotalReward),
	)
	return sum, nil
}

// LeafWeights folds the plan's leaves back into one weight per rule key. A
// rule appearing in several branches learns from all of them: its weight is
// the rule's own weight plus every leaf's drift from it.
func LeafWeights[G comparable](p plan.Plan[G]) map[string]float64 {
	out := make(map[string]float64)
	for _, a := range plan.Atomics(p) {
		key := a.Rule.Key()
		if _, ok := out[key]; !ok {
			out[key] = a.Rule.Weight
		}
		out[key] += a.Weight() - a.Rule.Weight
	}
	return out
}

// ApplyWeights overwrites the weight of every rule the store has learned a
// weight for, and reports how many rules changed.
func ApplyWeights[G comparable](ctx context.Context, st store.Store, rules []*rule.Rule[G]) (int, error) {
	if st == nil {
		return 0, fmt.Errorf("apply weights: %w", internalerr.ErrStoreUnavailable)
	}
	learned, err := st.Weights(ctx)
	if err != nil {
		return 0, fmt.Errorf("load weights: %w", err)
	}
	n := 0
	for _, r := range rules {
		if w, ok := learned[r.Key()]; ok {
			r.Weight = w
			n++
		}
	}
	return n, nil
}
