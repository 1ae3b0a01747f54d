package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/1siamBot/bwmacro/internal/botlog"
	"github.com/1siamBot/bwmacro/internal/core"
	"github.com/1siamBot/bwmacro/internal/frameloop"
	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/macroconfig"
	"github.com/1siamBot/bwmacro/internal/strategy"
)

func newRunCmd() *cobra.Command {
	var speedup float64
	var raceName string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the macro core's frame loop against the in-memory fake game bridge",
		RunE: func(cmd *cobra.Command, args []string) error {
			budget := frameloop.FrameBudget
			if speedup > 0 {
				budget = time.Duration(float64(budget) / speedup)
			}
			loop := frameloop.NewLoop(budget)

			// No engine bridge is wired into this binary yet, so run
			// against the in-memory Fake: every per-package stage below is
			// the real one, exercised against a bridge that reports an
			// empty match rather than a connected one. Swapping in a real
			// gameapi.Game (and the Hooks a concrete engine binding
			// supplies) is the only change needed to run against a live
			// match.
			game := gameapi.NewFake()
			w := core.NewWorld(game, &gameapi.FakeMapAnalysis{}, nil, nil, nil,
				macroconfig.Default(), raceToStrategy(raceName), false, core.Hooks{})
			w.Bootstrap(nil)

			loop.AddStage(frameloop.Stage{Name: "observe", Run: w.StageObserve})
			loop.AddStage(frameloop.Stage{Name: "recognize", Run: w.StageRecognize})
			loop.AddStage(frameloop.Stage{Name: "strategy", Run: w.StageStrategy})
			loop.AddStage(frameloop.Stage{Name: "defense", Run: w.StageDefense})
			loop.AddStage(frameloop.Stage{Name: "production", Run: w.StageProduction})
			loop.AddStage(frameloop.Stage{Name: "buildings", Run: w.StageBuildings})
			loop.AddStage(frameloop.Stage{Name: "workers", Run: w.StageWorkers})

			botlog.Info("starting macro core", botlog.F("frameBudget", budget.String()))

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			return loop.Run(ctx)
		},
	}
	cmd.Flags().Float64Var(&speedup, "speedup", 1.0, "frame-budget speed multiplier (for replay/testing)")
	cmd.Flags().StringVar(&raceName, "race", "protoss", "our race: terran, protoss, or zerg")
	return cmd
}

func raceToStrategy(name string) strategy.Race {
	switch name {
	case "terran":
		return strategy.RaceTerran
	case "zerg":
		return strategy.RaceZerg
	default:
		return strategy.RaceProtoss
	}
}
