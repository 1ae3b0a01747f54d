package defense_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1siamBot/bwmacro/internal/defense"
	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/placement"
	"github.com/1siamBot/bwmacro/internal/production"
)

func TestMinDroneLimitByEnemyRace(t *testing.T) {
	assert.Equal(t, 9, defense.MinDroneLimit(true))
	assert.Equal(t, 18, defense.MinDroneLimit(false))
}

func TestZergPlanClampedByDroneCount(t *testing.T) {
	s := defense.ZergStrength{
		MyLurkers:             0,
		MyOtherSupplyWeighted: 0,
		EnemySupplyWeighted:   1000,
		DroneCount:            9,
	}
	plan := defense.ZergPlan(s, 0)
	assert.LessOrEqual(t, plan.AtFront, 3, "ground count must be clamped by affordable drone count")
}

func TestZergPlanAirIsPerBaseForMassAir(t *testing.T) {
	plan := defense.ZergPlan(defense.ZergStrength{DroneCount: 30}, 6)
	assert.True(t, plan.AirIsPerBase)
}

func TestAirDefenseBaseChoicePrefersNaturalVsProtoss(t *testing.T) {
	choice := defense.AirDefenseBaseChoice(true, false)
	assert.Equal(t, "natural", choice)
}

const (
	fakeGroundDefense gameapi.UnitType = 100
	fakeAirDefense    gameapi.UnitType = 101
)

func groundAct(loc placement.MacroLocation) production.MacroAct {
	return production.MacroAct{Kind: production.ActUnit, UnitType: fakeGroundDefense, MacroLoc: loc, HasLoc: true}
}

func airAct(loc placement.MacroLocation) production.MacroAct {
	return production.MacroAct{Kind: production.ActUnit, UnitType: fakeAirDefense, MacroLoc: loc, HasLoc: true}
}

func TestExecuteEnqueuesFrontDefenseReplacingExcess(t *testing.T) {
	q := production.NewQueue()
	q.PushBack(production.Item{Act: groundAct(placement.LocFront)})
	q.PushBack(production.Item{Act: groundAct(placement.LocFront)})
	q.PushBack(production.Item{Act: groundAct(placement.LocFront)})

	defense.Execute(q, defense.Plan{AtFront: 1}, defense.ExecutionInputs{
		FrontLoc:          placement.LocFront,
		GroundDefenseType: fakeGroundDefense,
		AirDefenseType:    fakeAirDefense,
	}, groundAct, airAct, production.MacroAct{}, production.MacroAct{}, nil)

	count := 0
	for _, it := range q.Items() {
		if it.Act.Kind == production.ActUnit && it.Act.UnitType == fakeGroundDefense && it.Act.MacroLoc == placement.LocFront {
			count++
		}
	}
	assert.Equal(t, 1, count, "front defense excess must be replaced, not accumulated")
}

func TestExecuteOuterBaseGatedByWorkerParity(t *testing.T) {
	q := production.NewQueue()
	in := defense.ExecutionInputs{
		FrontLoc:          placement.LocFront,
		GroundDefenseType: fakeGroundDefense,
		AirDefenseType:    fakeAirDefense,
		OuterBases: []defense.BaseState{
			// already has one defense structure but no workers of its own yet:
			// a second structure must wait until the economy catches up.
			{ID: 1, Loc: placement.LocExpo, Workers: 0, ExistingDefenses: 1},
		},
	}
	defense.Execute(q, defense.Plan{AtOuterBases: 2}, in, groundAct, airAct, production.MacroAct{}, production.MacroAct{}, nil)
	assert.Equal(t, 0, q.Len(), "a base whose workers haven't caught up to its existing defenses must not be over-built")

	in.OuterBases[0].Workers = 1
	defense.Execute(q, defense.Plan{AtOuterBases: 2}, in, groundAct, airAct, production.MacroAct{}, production.MacroAct{}, nil)
	assert.Equal(t, 1, q.Len())
}

func TestExecuteZergGatesOnMissingPrereq(t *testing.T) {
	q := production.NewQueue()
	prereq := production.MacroAct{Kind: production.ActUnit, UnitType: 200}
	defense.Execute(q, defense.Plan{AtFront: 1}, defense.ExecutionInputs{
		IsZerg:            true,
		GroundDefenseType: fakeGroundDefense,
		AirDefenseType:    fakeAirDefense,
		Prereq:            defense.ZergPrereq{Exists: false, Morphing: false},
	}, groundAct, airAct, production.MacroAct{}, prereq, nil)

	assert.Equal(t, 1, q.Len())
	it, _ := q.PeekBack()
	assert.Equal(t, prereq.UnitType, it.Act.UnitType, "missing prereq must be queued before any defense")
}

func TestExecuteZergPrependsDroneBelowSafetyLimit(t *testing.T) {
	q := production.NewQueue()
	drone := production.MacroAct{Kind: production.ActUnit, UnitType: 300}
	defense.Execute(q, defense.Plan{AtFront: 1}, defense.ExecutionInputs{
		IsZerg:            true,
		DroneCount:        5,
		EnemyIsZerg:       true,
		GroundDefenseType: fakeGroundDefense,
		AirDefenseType:    fakeAirDefense,
		Prereq:            defense.ZergPrereq{Exists: true},
	}, groundAct, airAct, drone, production.MacroAct{}, nil)

	first, _ := q.PopBack()
	assert.Equal(t, drone.UnitType, first.Act.UnitType, "drone must outrank (be produced before) the defense it was queued alongside, when below MinDroneLimit")
	rest, _ := q.PopBack()
	assert.Equal(t, fakeGroundDefense, rest.Act.UnitType)
}
