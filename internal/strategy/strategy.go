// Package strategy is the per-frame entry point that chooses the opening
// book, the unit mix, and the tech target, and injects urgent items into
// the production queue.
package strategy

import (
	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/opponent"
	"github.com/1siamBot/bwmacro/internal/production"
)

// OpeningGroup names a unit-composition focus the production goal solver
// is seeded with (the protoss example: "zealots", "dragoons", "dark
// templar", "drop"). Kept as a plain string rather than an enum so each
// race's group table can be defined independently, the way
// StrategyManager's string-keyed build groups work in the original.
type OpeningGroup string

// Coordinator drives queue adjustments and opening-book selection.
type Coordinator struct {
	group              OpeningGroup
	cancelledDefenseOnce bool
	gasCollectionOn    bool
}

// NewCoordinator returns a Coordinator with no opening group chosen yet.
func NewCoordinator() *Coordinator {
	return &Coordinator{gasCollectionOn: true}
}

// Group returns the current opening group.
func (c *Coordinator) Group() OpeningGroup { return c.group }

// SetGroup transitions to a new opening group (e.g. "vultures" -> "tanks").
func (c *Coordinator) SetGroup(g OpeningGroup) { c.group = g }

// CancelUnnecessaryDefense implements the book-phase rule: if the
// enemy plan is Turtle, SafeExpand, or NakedExpand, cancel all queued or
// under-construction static defenses. Latched so it only runs once.
func (c *Coordinator) CancelUnnecessaryDefense(outOfBook bool, plan opponent.Plan, cancelAll func()) {
	if outOfBook || c.cancelledDefenseOnce {
		return
	}
	switch plan {
	case opponent.PlanTurtle, opponent.PlanSafeExpand, opponent.PlanNakedExpand:
		cancelAll()
		c.cancelledDefenseOnce = true
	}
}

// GasToggleInputs bundles the values the gas on/off rule consults.
type GasToggleInputs struct {
	Gas              int
	Minerals         int
	QueueGasNeedsMet bool
	UpcomingGasNeed  int
	CurrentGas       int
}

// UpdateGasCollection turns gas off once we're gas-heavy and the queue's
// needs are satisfied; it turns gas back on once upcoming items need more
// gas than we have.
func (c *Coordinator) UpdateGasCollection(in GasToggleInputs) bool {
	if c.gasCollectionOn && in.Gas > 400 && in.Gas > 4*in.Minerals && in.QueueGasNeedsMet {
		c.gasCollectionOn = false
	} else if !c.gasCollectionOn && in.UpcomingGasNeed > in.CurrentGas {
		c.gasCollectionOn = true
	}
	return c.gasCollectionOn
}

// HasDropTech implements the race-specific drop-tech gate.
func HasDropTech(race Race, overlordTransportResearched bool, overlordCount int, completedShuttles int, completedDropships int) bool {
	switch race {
	case RaceZerg:
		return overlordTransportResearched && overlordCount >= 1
	case RaceProtoss:
		return completedShuttles >= 1
	case RaceTerran:
		return completedDropships >= 1
	}
	return false
}

// Race mirrors macroconfig.Race without importing it, since strategy's
// race-specific branches are purely about build-order logic, not tunables.
type Race int

const (
	RaceTerran Race = iota
	RaceProtoss
	RaceZerg
)

// HistoryBias nudges the default opening weight table using opponent-match
// history: when non-nil and matchup data exists, it biases (never
// overrides) the weights.
func HistoryBias(history gameapi.OpponentHistory, opponentName string, defaultWeights map[string]float64) map[string]float64 {
	if history == nil {
		return defaultWeights
	}
	rec, ok := history.Matchup(opponentName)
	if !ok || rec.Wins+rec.Losses == 0 {
		return defaultWeights
	}
	winRate := float64(rec.Wins) / float64(rec.Wins+rec.Losses)
	biased := make(map[string]float64, len(defaultWeights))
	for k, w := range defaultWeights {
		biased[k] = w
	}
	if guess, ok := history.BestGuessPlan(opponentName); ok {
		// Nudge the matching opening upward in proportion to how often this
		// matchup has been won with it; never zero out the rest.
		if w, exists := biased[guess]; exists {
			biased[guess] = w * (1 + winRate)
		}
	}
	return biased
}

// ChooseOpening picks the opening group name with the highest (possibly
// history-biased) weight.
func ChooseOpening(weights map[string]float64) (OpeningGroup, bool) {
	var best string
	bestW := 0.0
	found := false
	for k, w := range weights {
		if !found || w > bestW {
			best, bestW, found = k, w, true
		}
	}
	return OpeningGroup(best), found
}

// TickInputs bundles the per-frame external state Tick consults beyond what
// Coordinator already tracks internally.
type TickInputs struct {
	OutOfBook bool
	Plan      opponent.Plan
	Gas       GasToggleInputs
	Race      Race
	Urgent    UrgentInputs
}

// UrgentInputs bundles the per-frame checks the urgent-injection pass runs
// before anything else in the queue: missing supply, a starved worker
// count, a worker pulled into combat needing replacing, an impending supply
// block, and a reactive defense trigger against something the opening book
// didn't plan for (a cloaked unit or an early rush). Each Needs* flag is
// paired with the MacroAct to push when it fires; the act itself is race-
// specific and supplied by the caller, since this package doesn't own unit
// tables.
type UrgentInputs struct {
	NeedsSupply   bool
	SupplyAct     production.MacroAct
	NeedsWorkers  bool
	WorkerAct     production.MacroAct
	WorkerEmergency bool
	EmergencyWorkerAct production.MacroAct
	SupplyBlockImminent bool
	SupplyBlockAct      production.MacroAct
	ReactiveDefenseNeeded bool
	ReactiveDefenseAct    production.MacroAct
}

// RunUrgent implements the race-agnostic half of the urgent-injection pass:
// every condition that fires pushes its act as the new highest priority, in
// the order supply, supply-block, worker-emergency, needs-workers,
// reactive-defense, so the last condition to fire ends up on top.
// Race-specific conditions the caller's unit tables know about (e.g. a
// zerg-only extractor trick) are layered on top by the urgent closure Tick
// also accepts.
func RunUrgent(q *production.Queue, in UrgentInputs) {
	if in.NeedsSupply {
		q.PushBack(production.Item{Act: in.SupplyAct})
	}
	if in.SupplyBlockImminent {
		q.PushBack(production.Item{Act: in.SupplyBlockAct})
	}
	if in.WorkerEmergency {
		q.PushBack(production.Item{Act: in.EmergencyWorkerAct})
	}
	if in.NeedsWorkers {
		q.PushBack(production.Item{Act: in.WorkerAct})
	}
	if in.ReactiveDefenseNeeded {
		q.PushBack(production.Item{Act: in.ReactiveDefenseAct})
	}
}

// Tick is the per-frame entry point: cancel static defense that a
// passive opening makes unnecessary, run the race-agnostic urgent
// injection (RunUrgent) followed by any race-specific urgent injection the
// caller supplies as a closure, retoggle gas collection, and request a
// fresh plan once the queue runs dry. Returns true if a fresh plan was
// requested this tick.
func (c *Coordinator) Tick(
	q *production.Queue,
	in TickInputs,
	cancelAllDefense func(),
	urgent func(q *production.Queue, race Race, group OpeningGroup),
	zergPlan func() []production.Item,
	goalSolverPlan func(group OpeningGroup) []production.Item,
) bool {
	c.CancelUnnecessaryDefense(in.OutOfBook, in.Plan, cancelAllDefense)
	RunUrgent(q, in.Urgent)
	if urgent != nil {
		urgent(q, in.Race, c.group)
	}
	c.UpdateGasCollection(in.Gas)
	if q.Len() == 0 {
		RequestFreshPlan(q, in.Race, zergPlan, goalSolverPlan, c.group)
		return true
	}
	return false
}

// RequestFreshPlan implements the "queue empties -> ask for a new
// plan" step: zerg asks its tactical brain, other races ask the goal
// solver. Both are injected as closures since their internals (the tactical
// brain's heuristics, the goal solver's search) are out of this package's
// scope — strategy only orchestrates when they're called.
func RequestFreshPlan(q *production.Queue, race Race, zergPlan func() []production.Item, goalSolverPlan func(group OpeningGroup) []production.Item, group OpeningGroup) {
	var items []production.Item
	if race == RaceZerg {
		items = zergPlan()
	} else {
		items = goalSolverPlan(group)
	}
	for _, it := range items {
		q.PushBack(it)
	}
}
