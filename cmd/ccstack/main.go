// Command ccstack runs the distance-binned cross-correlation stacking
// pipeline end to end: discover event groups, preprocess and accumulate each
// group's pairs in parallel across a worker pool, reduce, finish, and write.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/geoseis/ccstack/cluster"
	"github.com/geoseis/ccstack/config"
	"github.com/geoseis/ccstack/finisher"
	"github.com/geoseis/ccstack/internal/logx"
	"github.com/geoseis/ccstack/output"
	"github.com/geoseis/ccstack/stack"
	"github.com/geoseis/ccstack/trace"
	"github.com/geoseis/ccstack/trace/tracestore"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "ccstack:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("ccstack", pflag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if flags.ConfigPath == "" {
		return fmt.Errorf("missing required -c/--config")
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	flags.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	coordLogger, closeCoord, err := logx.New(cfg.LogPrefix, 0)
	if err != nil {
		return err
	}
	defer closeCoord()

	plan, err := stack.NewPlan(cfg)
	if err != nil {
		return fmt.Errorf("building plan: %w", err)
	}

	groups, err := trace.DiscoverGroups(cfg.InputPattern)
	if err != nil {
		return fmt.Errorf("discovering event groups: %w", err)
	}
	coordLogger.Info("discovered event groups", "count", len(groups))

	world := cluster.NewLocalWorld(cfg.Workers)
	store := tracestore.New()

	global, err := world.Run(groups, stack.NewMatrix(plan), workerFunc(cfg, plan, store, world.Size()))
	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}

	var total int32
	for _, c := range global.Count {
		total += c
	}
	coordLogger.Info("pair accumulation complete", "total_pairs", total, "bins", plan.B)

	result, err := finisher.Finish(global, cfg, cfg.Delta)
	if err != nil {
		return fmt.Errorf("finishing stack: %w", err)
	}

	if err := output.Write(cfg, result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	coordLogger.Info("wrote output", "prefix", cfg.OutputPrefix, "formats", cfg.OutputFormats)
	return nil
}

// workerFunc builds the per-worker WorkFunc: each rank opens its own log
// file, runs C4/C5 over every group in its chunk, and sum-reduces its own
// partial matrix before returning it for the global reduction.
func workerFunc(cfg *config.Config, plan *stack.Plan, store trace.Store, size int) cluster.WorkFunc {
	return func(ctx cluster.Context, chunk []trace.Group) (*stack.Matrix, error) {
		logger, closeLog, err := logx.New(cfg.LogPrefix, ctx.Rank)
		if err != nil {
			return nil, err
		}
		defer closeLog()

		local := stack.NewMatrix(plan)
		for _, group := range chunk {
			result, stats, err := stack.PreprocessGroup(group, store, cfg, plan)
			if err != nil {
				logger.Error("preprocessing group failed", "dir", group.Dir, "err", err)
				continue
			}
			logger.Debug("group preprocessed", "dir", group.Dir, "accepted", stats.Accepted, "skipped", stats.Skipped)
			stack.AccumulatePairs(result, cfg, plan, local)
		}
		logSummary(logger, ctx, size)
		return local, nil
	}
}

func logSummary(logger *log.Logger, ctx cluster.Context, size int) {
	logger.Info("worker done", "rank", ctx.Rank, "of", size)
}
