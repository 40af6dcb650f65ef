// Package andor is the rule-based AND/OR planning engine facade: it plans
// over a rule set, transforms the rule set and trains plan weights against
// a store.
package andor

import (
	"context"

	"go.uber.org/zap"

	"github.com/cognicore/andor/pkg/andor/learn"
	"github.com/cognicore/andor/pkg/andor/plan"
	"github.com/cognicore/andor/pkg/andor/planner"
	"github.com/cognicore/andor/pkg/andor/rule"
	"github.com/cognicore/andor/pkg/andor/store"
	"github.com/cognicore/andor/pkg/andor/trace"
	"github.com/cognicore/andor/pkg/andor/transform"
)

// Engine is the main planning facade
type Engine[G comparable] struct {
	rules     []*rule.Rule[G]
	store     store.Store
	tracer    trace.Tracer
	smoothing float64
	factory   rule.Factory[G]
	logger    *zap.Logger
}

// Options configures an Engine. Every field is optional.
type Options[G comparable] struct {
	Rules  []*rule.Rule[G]
	Store  store.Store
	Tracer trace.Tracer
	// Smoothing is the Alternative smoothing constant; zero means
	// plan.DefaultSmoothing.
	Smoothing float64
	// Factory synthesizes projected and marginalized rules.
	Factory rule.Factory[G]
	Logger  *zap.Logger
}

// New creates an Engine with the given dependencies
func New[G comparable](opts Options[G]) *Engine[G] {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine[G]{
		rules:     opts.Rules,
		store:     opts.Store,
		tracer:    trace.OrNop(opts.Tracer),
		smoothing: opts.Smoothing,
		factory:   opts.Factory,
		logger:    logger,
	}
}

// Close closes the store, if any
func (e *Engine[G]) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Rules returns the engine's rules.
func (e *Engine[G]) Rules() []*rule.Rule[G] {
	return append([]*rule.Rule[G](nil), e.rules...)
}

// LoadWeights seeds rule weights from what the store has learned.
func (e *Engine[G]) LoadWeights(ctx context.Context) (int, error) {
	n, err := learn.ApplyWeights(ctx, e.store, e.rules)
	if err != nil {
		return 0, err
	}
	e.logger.Debug("loaded learned weights", zap.Int("rules", n))
	return n, nil
}

func (e *Engine[G]) planner(sequel planner.Planner[G]) *planner.EachRuleAtMostOnce[G] {
	return &planner.EachRuleAtMostOnce[G]{
		Sequel:    sequel,
		Smoothing: e.smoothing,
		Tracer:    e.tracer,
	}
}

// Plan searches for a plan achieving every goal from nothing. A nil plan
// means none exists.
func (e *Engine[G]) Plan(goals ...G) plan.Plan[G] {
	return e.PlanFrom(nil, goals)
}

// PlanFrom searches for a plan achieving goals given that satisfied hold.
func (e *Engine[G]) PlanFrom(satisfied, goals []G) plan.Plan[G] {
	p := e.planner(nil).Plan(planner.NewState(goals, satisfied, e.rules))
	e.logger.Debug("planned", zap.Any("goals", goals), zap.Bool("found", p != nil))
	return p
}

// PlanThen plans for first and, with the rules left over, for then.
func (e *Engine[G]) PlanThen(first, then []G) plan.Plan[G] {
	sequel := planner.WithGoals[G]{Goals: then, Next: e.planner(nil)}
	return e.planner(sequel).Plan(planner.NewState(first, nil, e.rules))
}

// PlanUnless guards the plan for goals with a runtime check: when check holds
// at execution time nothing runs.
func (e *Engine[G]) PlanUnless(check rule.ContingentGoal[G], goals ...G) plan.Plan[G] {
	return plan.NewContingent(check, plan.NewSequential[G](), e.Plan(goals...))
}

// Project restricts the rules to goals.
func (e *Engine[G]) Project(goals ...G) []*rule.Rule[G] {
	return transform.NewProjection(e.rules, goals, e.factory, transform.WithTracer(e.tracer)).ProjectedRules()
}

// Marginalize eliminates goals from the rules.
func (e *Engine[G]) Marginalize(goals ...G) []*rule.Rule[G] {
	return transform.NewMarginalizer(e.rules, goals, e.factory, transform.WithTracer(e.tracer)).MarginalizedRules()
}

// TrainRequest describes a training run
type TrainRequest[G comparable] struct {
	Plan     plan.Plan[G]
	Goals    []G
	NewState func() rule.State
	Episodes int
	Judge    learn.Judge
	Rand     plan.Rand
}

// Train executes and rewards req.Plan, persisting episodes and learned
// weights to the engine's store.
func (e *Engine[G]) Train(ctx context.Context, req TrainRequest[G]) (learn.Summary, error) {
	t := learn.NewTrainer[G](e.store, req.Rand, req.Judge)
	t.Goals = req.Goals
	t.Logger = e.logger
	return t.Run(ctx, req.Plan, req.NewState, req.Episodes)
}
