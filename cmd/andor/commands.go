package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cognicore/andor/pkg/andor"
	"github.com/cognicore/andor/pkg/andor/export"
	"github.com/cognicore/andor/pkg/andor/internalerr"
	"github.com/cognicore/andor/pkg/andor/plan"
	"github.com/cognicore/andor/pkg/andor/rule"
)

type planFlags struct {
	given  []string
	unless string
}

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.given, "given", nil, "goals that already hold, in addition to the rule base's given")
	cmd.Flags().StringVar(&f.unless, "unless", "", "goal tested at run time; when it holds the plan does nothing")
}

// build plans for goals from the rule base's and the flags' given goals.
func (s *session) build(goals []string, f planFlags) plan.Plan[string] {
	given := append(append([]string(nil), s.comp.RuleBase.Given...), f.given...)
	p := s.engine.PlanFrom(given, goals)

	unless := f.unless
	if unless == "" {
		unless = s.comp.RuleBase.Unless
	}
	if unless != "" {
		p = plan.NewContingent(rule.Testable(unless, holds(unless)), plan.NewSequential[string](), p)
	}
	return p
}

func (s *session) explain(w io.Writer) {
	if s.recorder == nil {
		return
	}
	fmt.Fprintln(w, "search trace:")
	fmt.Fprint(w, s.recorder.String())
}

func newPlanCmd(c *cli) *cobra.Command {
	var f planFlags
	cmd := &cobra.Command{
		Use:   "plan [goals...]",
		Short: "Find every plan achieving the goals",
		Long: `Searches for rule chains achieving every goal, defaulting to the rule base's
goals, and prints the resulting AND/OR plan tree with its weights.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			goals := s.goals(args)
			p := s.build(goals, f)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, plan.NestedString(p, 0))
			s.explain(out)
			if p == nil {
				return fmt.Errorf("goals %v: %w", goals, internalerr.ErrNoPlan)
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newProjectCmd(c *cli) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "project goals...",
		Short: "Restrict the rule base to a goal subset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.transform(cmd, outPath, args, func(e *andor.Engine[string]) []*rule.Rule[string] {
				return e.Project(args...)
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the rule base to this file instead of stdout")
	return cmd
}

func newMarginalizeCmd(c *cli) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "marginalize goals...",
		Short: "Eliminate goals that are never given",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.transform(cmd, outPath, args, func(e *andor.Engine[string]) []*rule.Rule[string] {
				return e.Marginalize(args...)
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the rule base to this file instead of stdout")
	return cmd
}

func (c *cli) transform(cmd *cobra.Command, outPath string, goals []string, derive func(*andor.Engine[string]) []*rule.Rule[string]) error {
	s, err := c.open(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	var writer export.RuleWriter = export.StreamWriter{W: cmd.OutOrStdout()}
	if outPath != "" {
		writer = export.FileWriter{Path: outPath}
	}
	rules := derive(s.engine)
	exporter := export.RuleExporter{Writer: writer}
	if err := exporter.Export(cmd.Context(), rules); err != nil {
		return err
	}
	c.logger.Sugar().Infof("%s over %v: %d rules", cmd.Name(), goals, len(rules))
	s.explain(cmd.ErrOrStderr())
	return nil
}

func newTrainCmd(c *cli) *cobra.Command {
	var (
		f        planFlags
		episodes int
		seed     uint64
	)
	cmd := &cobra.Command{
		Use:   "train [goals...]",
		Short: "Learn plan weights against a simulated world",
		Long: `Plans for the goals, then executes the plan repeatedly against a simulated
world in which each rule takes effect with its "success" probability. Each
episode is rewarded 1 when every goal holds afterwards and -1 otherwise, and
the learned weights are saved to the store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			goals := s.goals(args)
			p := s.build(goals, f)
			if p == nil {
				return fmt.Errorf("goals %v: %w", goals, internalerr.ErrNoPlan)
			}

			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			simulate(s.engine.Rules(), s.comp.RuleBase.SuccessOf(), rng)
			given := append(append([]string(nil), s.comp.RuleBase.Given...), f.given...)

			sum, err := s.engine.Train(cmd.Context(), andor.TrainRequest[string]{
				Plan:     p,
				Goals:    goals,
				NewState: newWorld(given),
				Episodes: episodes,
				Judge:    achieved(goals),
				Rand:     rng,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "episodes %d, successes %d, total reward %.3f\n", sum.Episodes, sum.Successes, sum.TotalReward)
			keys := make([]string, 0, len(sum.Weights))
			for k := range sum.Weights {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "  %-30s %.3f\n", k, sum.Weights[k])
			}
			fmt.Fprintln(out, plan.NestedString(p, 0))
			s.explain(out)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().IntVarP(&episodes, "episodes", "n", 100, "number of executions")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed for plan choices and the simulation")
	return cmd
}

func newEpisodesCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "episodes",
		Short: "List recent training episodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			eps, err := s.comp.Store.Episodes(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range eps {
				status := "ok"
				if e.Err != "" {
					status = e.Err
				}
				fmt.Fprintf(out, "%s %v reward %+.1f %s\n", e.ID, e.Goals, e.Reward, status)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of episodes")
	return cmd
}
