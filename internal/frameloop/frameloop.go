// Package frameloop drives the single-threaded per-frame cycle that wires
// every macro-core component together in a fixed data-flow order:
// observation -> InformationTracker -> BaseRegistry ownership
// -> OpponentPlanRecognizer -> StrategyCoordinator + StaticDefensePlanner
// -> ProductionScheduler -> BuildingRegistry -> WorkerScheduler -> outgoing
// commands. It adapts a fixed-timestep GameLoop accumulator to a single
// ~42ms frame budget instead of an interpolated render loop, since this
// core only needs one decision pass per frame rather than a render tick.
package frameloop

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/1siamBot/bwmacro/internal/botlog"
)

// FrameBudget is the default frame period at normal game speed.
const FrameBudget = 42 * time.Millisecond

// Stage is one named step of the per-frame cycle. Stages run in the order
// they were added to Loop — there is no priority sort, because this
// domain's ordering is a fixed data-flow pipeline, not a set of
// independently-prioritized systems.
type Stage struct {
	Name string
	Run  func(frame int) error
}

// Loop sequences Stages once per frame, paced by a token-bucket limiter so
// the core never runs faster than FrameBudget even when stages finish
// quickly (useful for headless testing/replay speedup control).
type Loop struct {
	stages  []Stage
	limiter *rate.Limiter
	frame   int
}

// NewLoop returns a Loop paced at one tick per budget.
func NewLoop(budget time.Duration) *Loop {
	if budget <= 0 {
		budget = FrameBudget
	}
	return &Loop{limiter: rate.NewLimiter(rate.Every(budget), 1)}
}

// AddStage appends a stage to the per-frame pipeline.
func (l *Loop) AddStage(s Stage) {
	l.stages = append(l.stages, s)
}

// Frame returns the number of frames processed so far.
func (l *Loop) Frame() int { return l.frame }

// Tick waits for the rate limiter then runs every stage once, in order,
// stopping (and returning the error) at the first stage that fails. A
// single frame's stage error does not stop future calls to Tick — it is the
// caller's decision whether to keep looping.
func (l *Loop) Tick(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return err
	}
	l.frame++
	for _, s := range l.stages {
		if err := s.Run(l.frame); err != nil {
			botlog.Error("frame stage failed", botlog.F("stage", s.Name), botlog.F("frame", l.frame), botlog.F("error", err.Error()))
			return err
		}
	}
	return nil
}

// Run ticks the loop until ctx is cancelled, logging and continuing past
// per-frame stage errors so one bad frame never ends the match.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := l.Tick(ctx); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
