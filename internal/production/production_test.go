package production_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/production"
)

func TestQueuePushPopOrder(t *testing.T) {
	q := production.NewQueue()
	q.PushBack(production.Item{Act: production.MacroAct{UnitType: 1}})
	q.PushBack(production.Item{Act: production.MacroAct{UnitType: 2}})

	it, ok := q.PopBack()
	require.True(t, ok)
	assert.Equal(t, production.MacroAct{UnitType: 2}.UnitType, it.Act.UnitType)
}

func TestPushFrontIsLowestPriority(t *testing.T) {
	q := production.NewQueue()
	q.PushBack(production.Item{Act: production.MacroAct{UnitType: 1}})
	q.PushFront(production.Item{Act: production.MacroAct{UnitType: 2}})

	items := q.Items()
	require.Len(t, items, 2)
	assert.EqualValues(t, 2, items[0].Act.UnitType)
	assert.EqualValues(t, 1, items[1].Act.UnitType)
}

func TestPullToTopMovesEntryToBack(t *testing.T) {
	q := production.NewQueue()
	q.PushBack(production.Item{Act: production.MacroAct{UnitType: 1}})
	q.PushBack(production.Item{Act: production.MacroAct{UnitType: 2}})
	q.PushBack(production.Item{Act: production.MacroAct{UnitType: 3}})

	q.PullToTop(0) // the oldest/lowest-priority item moves to back
	back, ok := q.PeekBack()
	require.True(t, ok)
	assert.EqualValues(t, 1, back.Act.UnitType)
}

func TestConsumeModifiedLatch(t *testing.T) {
	q := production.NewQueue()
	assert.False(t, q.ConsumeModified())
	q.PushBack(production.Item{})
	assert.True(t, q.ConsumeModified())
	assert.False(t, q.ConsumeModified(), "latch must clear after consumption")
}

func TestReorderCase1PullsZeroGasUnitWhenFrontIsGasStarved(t *testing.T) {
	q := production.NewQueue()
	q.PushBack(production.Item{Act: production.MacroAct{Kind: production.ActUnit, UnitType: 100, MineralCost: 50, GasCost: 0, SupplyCost: 1}})
	q.PushBack(production.Item{Act: production.MacroAct{Kind: production.ActUnit, UnitType: 200, MineralCost: 150, GasCost: 100, SupplyCost: 2}})

	s := production.NewScheduler(q, 360)
	moved := s.ReorderCase1(200)
	assert.True(t, moved)
	back, _ := q.PeekBack()
	assert.EqualValues(t, 100, back.Act.UnitType)
}

func TestExtractorTrickAdvancesThroughStates(t *testing.T) {
	trick := &production.ExtractorTrick{}
	trick.Start(production.MacroAct{UnitType: 99})
	assert.Equal(t, production.ExtractorStart, trick.State)

	queued := false
	morphed := false
	trick.Advance(150, true,
		func() bool { return false },
		func() bool { return queued },
		func() bool { return morphed },
		func() { queued = true },
		func() {},
		func() {},
	)
	assert.Equal(t, production.ExtractorOrdered, trick.State)

	trick.Advance(150, true,
		func() bool { return false },
		func() bool { return queued },
		func() bool { return morphed },
		func() {},
		func() {},
		func() { morphed = true },
	)
	assert.Equal(t, production.ExtractorUnitOrdered, trick.State)
}

func TestCheckJamClearsQueueAfterTimeout(t *testing.T) {
	q := production.NewQueue()
	q.PushBack(production.Item{})
	s := production.NewScheduler(q, 10)

	s.CheckJam(5, true, false, false)
	assert.Equal(t, 1, q.Len(), "jam must not trigger before the timeout")

	s.CheckJam(20, true, false, false)
	assert.Equal(t, 0, q.Len())
	assert.True(t, s.OutOfBook)
}

func TestCheckSupplyBlockPushesProviderOnlyOncePerSecond(t *testing.T) {
	q := production.NewQueue()
	s := production.NewScheduler(q, 360)
	providerCalls := 0
	provider := func() production.MacroAct {
		providerCalls++
		return production.MacroAct{UnitType: 9}
	}

	s.CheckSupplyBlock(1, 2, 1, false, provider)
	assert.Equal(t, 0, q.Len(), "off-cadence frame must not check at all")

	s.CheckSupplyBlock(24, 2, 1, false, provider)
	require.Equal(t, 1, q.Len())
	assert.Equal(t, 1, providerCalls)

	s.CheckSupplyBlock(48, 1, 2, false, provider)
	assert.Equal(t, 1, q.Len(), "supply not actually blocked, no push")

	s.CheckSupplyBlock(72, 2, 1, true, provider)
	assert.Equal(t, 1, q.Len(), "zerg overlord already morphing suppresses the push")
}

func TestShouldQueueGatewayHardCap(t *testing.T) {
	assert.True(t, production.ShouldQueueGateway(9))
	assert.False(t, production.ShouldQueueGateway(10))
}

func TestFilterGatewayCapDropsExcess(t *testing.T) {
	items := []production.Item{
		{Act: production.MacroAct{UnitType: 1}}, // gateway
		{Act: production.MacroAct{UnitType: 1}}, // gateway
		{Act: production.MacroAct{UnitType: 2}}, // not a gateway
	}
	isGateway := func(a production.MacroAct) bool { return a.UnitType == 1 }

	out := production.FilterGatewayCap(items, 9, isGateway)
	require.Len(t, out, 2, "only one more gateway fits under the cap of 10, plus the non-gateway item")
	assert.EqualValues(t, 1, out[0].Act.UnitType)
	assert.EqualValues(t, 2, out[1].Act.UnitType)
}

func TestUpdateGoalsDropsFailedAcquiresParentAndExecutes(t *testing.T) {
	q := production.NewQueue()
	s := production.NewScheduler(q, 360)
	s.Goals = []*production.Goal{
		{Act: production.MacroAct{TechType: 1}},
		{Act: production.MacroAct{TechType: 2}},
	}

	executed := 0
	s.UpdateGoals(
		func(g *production.Goal) bool { return false },
		func(g *production.Goal) bool { return g.Act.TechType == 2 },
		func(g *production.Goal) (gameapi.UnitID, bool) { return 42, true },
		func(g *production.Goal) bool { executed++; return true },
	)

	require.Len(t, s.Goals, 1, "the failed goal must be dropped")
	assert.EqualValues(t, 1, s.Goals[0].Act.TechType)
	assert.Equal(t, gameapi.UnitID(42), s.Goals[0].Parent)
	assert.True(t, s.Goals[0].HasParent)
	assert.True(t, s.Goals[0].Attempted)
	assert.Equal(t, 1, executed)
}

func TestSelectLarvaPrefersLeastSaturatedForWorkers(t *testing.T) {
	candidates := []production.LarvaCandidate{
		{Larva: 1, Saturation: 2.5},
		{Larva: 2, Saturation: 1.0},
	}
	id, ok := production.SelectLarva(candidates, true)
	require.True(t, ok)
	assert.EqualValues(t, 2, id)
}

func TestSelectLarvaCapsCombatUnitsPerHatchery(t *testing.T) {
	candidates := []production.LarvaCandidate{
		{Larva: 1, UsedThisPass: 3},
		{Larva: 2, UsedThisPass: 1},
	}
	id, ok := production.SelectLarva(candidates, false)
	require.True(t, ok)
	assert.EqualValues(t, 2, id, "hatchery at the per-pass cap must be skipped")
}

func TestSelectWorkerProducerDepotPrefersFarthest(t *testing.T) {
	candidates := []production.DepotCandidate{
		{Depot: 1, DistanceFromMain: 10},
		{Depot: 2, DistanceFromMain: 200},
	}
	id, ok := production.SelectWorkerProducerDepot(candidates)
	require.True(t, ok)
	assert.EqualValues(t, 2, id)
}

func TestSelectLairMorphHatcheryRequiresMainZone(t *testing.T) {
	candidates := []production.HatcheryCandidate{
		{Hatchery: 1, InMainZone: false, DistanceFromEnemies: 9999},
		{Hatchery: 2, InMainZone: true, DistanceFromEnemies: 50},
	}
	id, ok := production.SelectLairMorphHatchery(candidates)
	require.True(t, ok)
	assert.EqualValues(t, 2, id, "out-of-zone hatchery is farther but must be excluded")
}
