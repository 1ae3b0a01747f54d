// Package defense translates threat assessment into counts of defensive
// structures at specific base categories.
package defense

import (
	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/placement"
	"github.com/1siamBot/bwmacro/internal/production"
)

// BaseCategory distinguishes how exposed a base is to a ground attack.
type BaseCategory int

const (
	CategoryInner BaseCategory = iota // unreachable by ground without crossing an outer base
	CategoryOuter
	CategoryFront
)

// Plan is the per-tick output the names "StaticDefensePlan".
type Plan struct {
	AtInnerBases int
	AtOuterBases int
	AtFront      int
	AirIsPerBase bool
	AntiAir      int
}

// MinDroneLimit returns the zerg drone safety floor: 9 if the
// enemy is zerg, else 18 ("the drone below safety limit" rule).
func MinDroneLimit(enemyIsZerg bool) int {
	if enemyIsZerg {
		return 9
	}
	return 18
}

// TerranProtossPlan implements the race-specific rule for Terran
// and Protoss: ground defense only from raid response / book orders
// (supplied directly by the caller as groundCount, since "book orders" are
// strategy-owned), air scaling with enemy air-to-ground power, folded into
// ground counts for protoss since cannons are general purpose.
func TerranProtossPlan(groundAtFront, groundAtOuter, groundAtInner int, enemyAirToGroundPower float64, isProtoss bool) Plan {
	airCount := int(enemyAirToGroundPower / 2)
	p := Plan{AtFront: groundAtFront, AtOuterBases: groundAtOuter, AtInnerBases: groundAtInner}
	if isProtoss {
		p.AtFront += airCount
		p.AirIsPerBase = false
		p.AntiAir = 0
	} else {
		p.AirIsPerBase = false
		p.AntiAir = airCount
	}
	return p
}

// ZergStrength bundles the combat-strength comparison inputs the zerg
// ground-count rule uses.
type ZergStrength struct {
	MyLurkers            int
	MyOtherSupplyWeighted float64
	EnemySupplyWeighted   float64
	EnemyTankWeight       float64
	EnemyGoliathWeight    float64
	EnemyMarineMedicRatio float64
	DroneCount            int
}

// ZergPlan implements the zerg ground-count derivation: lurkers
// count quadratically up to a cap of 8, combined with other supply-
// weighted strength, compared to enemy supply-weighted strength (with
// tank/goliath/marine-medic adjustments already folded into
// EnemySupplyWeighted by the caller), then clamped by drone count so the
// economy can support it.
func ZergPlan(s ZergStrength, enemyAirToGroundUnits int) Plan {
	lurkers := s.MyLurkers
	if lurkers > 8 {
		lurkers = 8
	}
	myStrength := float64(lurkers*lurkers) + s.MyOtherSupplyWeighted
	deficit := s.EnemySupplyWeighted - myStrength
	ground := 0
	if deficit > 0 {
		ground = int(deficit/2) + 1
	}
	if maxAffordable := s.DroneCount / 3; ground > maxAffordable {
		ground = maxAffordable
	}
	p := Plan{AtFront: ground}
	if enemyAirToGroundUnits >= 6 {
		p.AirIsPerBase = true
		p.AntiAir = enemyAirToGroundUnits / 2
	} else {
		p.AirIsPerBase = false
		p.AntiAir = enemyAirToGroundUnits
	}
	return p
}

// creepColonyBuildFrames is the zerg creep colony's build time, the
// threshold the uses to decide whether a morphing prerequisite is
// close enough to not block defense planning.
const creepColonyBuildFrames = 300

// BaseState is the Execution step's per-base input for the one-at-a-time
// outer/inner gating rule.
type BaseState struct {
	ID               int
	Loc              placement.MacroLocation
	Workers          int
	ExistingDefenses int
}

// ZergPrereq bundles the zerg-only prerequisite state Execute gates on:
// a spawning pool (ground defense) or evolution chamber (an alternative
// tech root some creep-colony lines require) must exist or be imminent
// before defense is queued, and any creep colony built but never morphed
// into a sunken/spore needs a one-per-base morph nudge.
type ZergPrereq struct {
	Exists                bool
	Morphing              bool
	FramesToComplete      int
	UnmorphedCreepColonies []int // base IDs with a creep colony awaiting morph
}

// ExecutionInputs bundles everything Execute needs beyond the Plan itself.
type ExecutionInputs struct {
	FrontLoc   placement.MacroLocation
	OuterBases []BaseState
	InnerBases []BaseState

	IsZerg      bool
	DroneCount  int
	EnemyIsZerg bool
	Prereq      ZergPrereq

	GroundDefenseType gameapi.UnitType
	AirDefenseType    gameapi.UnitType
}

// Execute implements the Execution step: it turns a Plan into
// production.Queue insertions. Front-base ground defense is urgently
// enqueued, replacing any previously queued excess; outer/inner bases are
// topped up one structure at a time, gated by worker-to-defense parity so
// a freshly-taken base doesn't outpace its own economy; zerg additionally
// gates the whole pass on its tech prerequisite (unless it's imminent),
// morphs any stranded creep colonies, and prepends a drone if defense
// spending would cut into the drone-safety floor.
func Execute(
	q *production.Queue,
	plan Plan,
	in ExecutionInputs,
	groundDefenseAct func(placement.MacroLocation) production.MacroAct,
	airDefenseAct func(placement.MacroLocation) production.MacroAct,
	droneAct production.MacroAct,
	prereqAct production.MacroAct,
	morphCreepColony func(baseID int),
) {
	isGroundDefense := func(it production.Item) bool {
		return it.Act.Kind == production.ActUnit && it.Act.UnitType == in.GroundDefenseType
	}

	if in.IsZerg && !in.Prereq.Exists {
		if !in.Prereq.Morphing {
			q.PushBack(production.Item{Act: prereqAct})
			return
		}
		if in.Prereq.FramesToComplete > creepColonyBuildFrames {
			return // morphing but not imminent: don't block the queue waiting
		}
		// imminent enough: fall through and plan defense anyway
	}

	if in.IsZerg {
		for _, id := range in.Prereq.UnmorphedCreepColonies {
			morphCreepColony(id)
		}
	}

	q.RemoveByMatch(func(it production.Item) bool {
		return isGroundDefense(it) && it.Act.HasLoc && it.Act.MacroLoc == in.FrontLoc
	})
	for i := 0; i < plan.AtFront; i++ {
		q.PushBack(production.Item{Act: groundDefenseAct(in.FrontLoc)})
	}

	enqueueOneAtATime(q, in.OuterBases, plan.AtOuterBases, groundDefenseAct)
	enqueueOneAtATime(q, in.InnerBases, plan.AtInnerBases, groundDefenseAct)

	if !plan.AirIsPerBase && plan.AntiAir > 0 {
		q.PushBack(production.Item{Act: airDefenseAct(in.FrontLoc)})
	} else if plan.AirIsPerBase {
		for _, b := range append(append([]BaseState{}, in.OuterBases...), in.InnerBases...) {
			for i := 0; i < plan.AntiAir; i++ {
				q.PushBack(production.Item{Act: airDefenseAct(b.Loc)})
			}
		}
	}

	if in.IsZerg && in.DroneCount <= MinDroneLimit(in.EnemyIsZerg) {
		// PushBack, not PushFront: back is highest priority, and the drone
		// must come out of the queue (and so be produced) before the
		// defense items just enqueued above.
		q.PushBack(production.Item{Act: droneAct})
	}
}

// enqueueOneAtATime implements the outer/inner "at most one at a time,
// only if workers have caught up to existing defenses" gate.
func enqueueOneAtATime(q *production.Queue, bases []BaseState, want int, act func(placement.MacroLocation) production.MacroAct) {
	for _, b := range bases {
		if b.ExistingDefenses >= want {
			continue
		}
		if b.Workers < b.ExistingDefenses {
			continue
		}
		q.PushBack(production.Item{Act: act(b.Loc)})
		return
	}
}

// AirDefenseBaseChoice implements the base-choice rule when
// AirIsPerBase is false: for terran vs protoss, prefer the natural first;
// otherwise prefer main unless a distinctly closer natural exists.
func AirDefenseBaseChoice(vsProtoss bool, naturalCloserThanMain bool) string {
	if vsProtoss {
		return "natural"
	}
	if naturalCloserThanMain {
		return "natural"
	}
	return "main"
}
