package resource_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/geometry"
	"github.com/1siamBot/bwmacro/internal/resource"
)

func TestObserveMarksMineralDestroyedAtZero(t *testing.T) {
	tr := resource.NewTracker()
	r := tr.Add(gameapi.Unit{ID: 1, Tile: geometry.Tile{X: 1, Y: 1}}, resource.KindMineral)

	tr.Observe(100, map[gameapi.UnitID]bool{1: true}, map[gameapi.UnitID]int{1: 0})
	assert.True(t, r.Destroyed)
	assert.Equal(t, 100, r.LastSeenFrame)
}

func TestObserveSkipsInvisibleResources(t *testing.T) {
	tr := resource.NewTracker()
	r := tr.Add(gameapi.Unit{ID: 2}, resource.KindGeyser)
	tr.Observe(50, map[gameapi.UnitID]bool{}, map[gameapi.UnitID]int{2: 0})
	assert.Equal(t, 0, r.LastSeenFrame)
}

func TestGeyserTakenState(t *testing.T) {
	tr := resource.NewTracker()
	r := tr.Add(gameapi.Unit{ID: 3}, resource.KindGeyser)
	assert.False(t, r.Taken())
	r.MarkTaken(7)
	assert.True(t, r.Taken())
	r.MarkFree()
	assert.False(t, r.Taken())
}
