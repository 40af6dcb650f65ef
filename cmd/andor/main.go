package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/andor/pkg/andor"
	"github.com/cognicore/andor/pkg/andor/config"
	"github.com/cognicore/andor/pkg/andor/trace"
)

// cli holds the flags shared by every subcommand.
type cli struct {
	rulesPath string
	dbPath    string
	verbose   bool
	explain   bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "andor",
		Short: "Rule-based AND/OR planner",
		Long: `andor plans over a YAML rule base: it finds every way of chaining rules
to achieve a goal set, derives projected or marginalized rule bases, and
trains plan weights against a simulated world.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			if c.verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&c.rulesPath, "rules", "rules.yaml", "rule base YAML file")
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "SQLite store for learned weights (overrides store.path)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&c.explain, "explain", false, "print the search trace")

	root.AddCommand(
		newPlanCmd(c),
		newProjectCmd(c),
		newMarginalizeCmd(c),
		newTrainCmd(c),
		newEpisodesCmd(c),
	)
	return root
}

// session is a loaded rule base wired into an engine.
type session struct {
	comp     *config.Components
	engine   *andor.Engine[string]
	recorder *trace.Recorder
}

func (c *cli) open(ctx context.Context) (*session, error) {
	loader := config.Loader{RuleBasePath: c.rulesPath, StorePath: c.dbPath}
	comp, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	s := &session{comp: comp}
	tracers := trace.Multi{trace.NewZap(c.logger)}
	if c.explain {
		s.recorder = &trace.Recorder{}
		tracers = append(tracers, s.recorder)
	}
	s.engine = andor.New(andor.Options[string]{
		Rules:     comp.Rules,
		Store:     comp.Store,
		Tracer:    tracers,
		Smoothing: comp.RuleBase.Planner.Smoothing,
		Logger:    c.logger,
	})

	n, err := s.engine.LoadWeights(ctx)
	if err != nil {
		s.engine.Close()
		return nil, err
	}
	c.logger.Info("rule base loaded",
		zap.String("path", c.rulesPath),
		zap.Int("rules", len(comp.Rules)),
		zap.Int("learned", n),
	)
	return s, nil
}

func (s *session) Close() error { return s.engine.Close() }

// goals returns args, or the rule base's goals when none are given.
func (s *session) goals(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return s.comp.RuleBase.Goals
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
