package building_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/bwmacro/internal/building"
	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/geometry"
	"github.com/1siamBot/bwmacro/internal/placement"
)

func newPlacer() *placement.Placer {
	fake := gameapi.NewFake()
	fake.Width, fake.Height = 64, 64
	return placement.NewPlacer(fake, &gameapi.FakeMapAnalysis{}, 1, 3)
}

func TestCreateReservesResources(t *testing.T) {
	reg := building.NewRegistry(newPlacer())
	reg.Create(1, geometry.Tile{}, placement.LocMain, false, 150, 0, 4, 3)
	assert.Equal(t, 150, reg.ReservedMinerals())
}

func TestAdvanceUnassignedToAssignedReservesFootprint(t *testing.T) {
	placer := newPlacer()
	reg := building.NewRegistry(placer)
	p := reg.Create(1, geometry.Tile{}, placement.LocMain, false, 150, 0, 4, 3)

	tile := geometry.Tile{X: 5, Y: 5}
	reg.AdvanceUnassigned(p,
		func(*building.Planned) (geometry.Tile, bool) { return tile, true },
		func(*building.Planned, geometry.Tile) (gameapi.UnitID, bool) { return 42, true },
	)

	assert.Equal(t, building.StatusAssigned, p.Status)
	assert.Equal(t, tile, p.FinalTile)
	assert.True(t, placer.IsReserved(tile))
}

func TestAdvanceAssignedTransitionsToUnderConstructionOnCompletion(t *testing.T) {
	placer := newPlacer()
	reg := building.NewRegistry(placer)
	p := reg.Create(1, geometry.Tile{}, placement.LocMain, false, 150, 0, 4, 3)
	p.FinalTile = geometry.Tile{X: 2, Y: 2}
	p.HasWorker = true
	p.Worker = 7
	p.Status = building.StatusAssigned
	placer.Reserve(p.FinalTile, 4, 3)

	reg.AdvanceAssigned(p,
		func(*building.Planned) bool { return true },
		func(*building.Planned) bool { return false },
		func(*building.Planned) {},
		func(*building.Planned) {},
		func(*building.Planned) (gameapi.UnitID, bool) { return 999, true },
		nil,
	)

	assert.Equal(t, building.StatusUnderConstruction, p.Status)
	assert.False(t, placer.IsReserved(p.FinalTile))
	assert.Equal(t, gameapi.UnitID(999), p.Building)
}

func TestCancelUnassignedRefunds(t *testing.T) {
	placer := newPlacer()
	reg := building.NewRegistry(placer)
	p := reg.Create(1, geometry.Tile{}, placement.LocMain, false, 150, 50, 4, 3)

	reg.Cancel(p, func(*building.Planned) {}, func(gameapi.UnitID) {}, nil)
	assert.Equal(t, 0, reg.ReservedMinerals())
	assert.Equal(t, 0, reg.ReservedGas())
	assert.Empty(t, reg.All())
}

func TestGasStealReleaseFiresOnCancelAndComplete(t *testing.T) {
	placer := newPlacer()
	reg := building.NewRegistry(placer)
	p := reg.Create(1, geometry.Tile{}, placement.LocGasSteal, true, 50, 0, 4, 3)

	released := 0
	scout := releaseCounter(func() { released++ })

	reg.Cancel(p, func(*building.Planned) {}, func(gameapi.UnitID) {}, scout)
	require.Equal(t, 1, released)

	p2 := reg.Create(1, geometry.Tile{}, placement.LocGasSteal, true, 50, 0, 4, 3)
	p2.FinalTile = geometry.Tile{X: 9, Y: 9}
	p2.Status = building.StatusAssigned
	p2.HasWorker = true
	reg.AdvanceAssigned(p2,
		func(*building.Planned) bool { return true },
		func(*building.Planned) bool { return false },
		func(*building.Planned) {},
		func(*building.Planned) {},
		func(*building.Planned) (gameapi.UnitID, bool) { return 1, true },
		scout,
	)
	assert.Equal(t, 2, released, "the non-cancel path (construction starting) must also release the scout")
}

type releaseCounter func()

func (r releaseCounter) ReleaseScoutWorker() { r() }
