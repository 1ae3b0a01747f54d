package base_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/bwmacro/internal/base"
	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/geometry"
	"github.com/1siamBot/bwmacro/internal/resource"
)

func tileDist(a, b geometry.Tile) float64 {
	return a.TileDist(b) * geometry.TileSize
}

func TestDiscoverAssignsStableSortedIDs(t *testing.T) {
	tracker := resource.NewTracker()
	m1 := tracker.Add(gameapi.Unit{ID: 1, Tile: geometry.Tile{X: 12, Y: 12}}, resource.KindMineral)
	m1.LastAmount = 1000
	m2 := tracker.Add(gameapi.Unit{ID: 2, Tile: geometry.Tile{X: 60, Y: 2}}, resource.KindMineral)
	m2.LastAmount = 1500

	starts := []geometry.Tile{{X: 10, Y: 10}, {X: 58, Y: 0}}

	buildableNear := func(center geometry.Tile) []geometry.Tile {
		return []geometry.Tile{center}
	}

	reg := base.Discover(tracker.All(), starts, buildableNear, tileDist, base.DefaultConfig())

	all := reg.All()
	require.Len(t, all, 2)
	// Sorted by (tile-y, tile-x): the base near y=0 comes first.
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, 2, all[1].ID)
	assert.True(t, all[0].Tile.Y <= all[1].Tile.Y)
}

func TestDiscoverDiscardsObserverSlot(t *testing.T) {
	tracker := resource.NewTracker()
	g := tracker.Add(gameapi.Unit{ID: 1, Tile: geometry.Tile{X: 5, Y: 5}}, resource.KindGeyser)
	g.LastAmount = 5000

	starts := []geometry.Tile{{X: 5, Y: 5}}
	buildableNear := func(center geometry.Tile) []geometry.Tile { return []geometry.Tile{center} }

	reg := base.Discover(tracker.All(), starts, buildableNear, tileDist, base.DefaultConfig())

	// The start location is discarded; its 5000-gas geyser returns to the
	// pool and, supplying at least 500 gas, forms an ordinary base.
	all := reg.All()
	require.Len(t, all, 1)
	assert.False(t, all[0].IsStartLocation, "a starting location with only gas and no minerals must be discarded")
}

func TestUpdateMainPromotesFarthestOwnedBase(t *testing.T) {
	tracker := resource.NewTracker()
	m1 := tracker.Add(gameapi.Unit{ID: 1, Tile: geometry.Tile{X: 1, Y: 1}}, resource.KindMineral)
	m1.LastAmount = 1000
	m2 := tracker.Add(gameapi.Unit{ID: 2, Tile: geometry.Tile{X: 80, Y: 80}}, resource.KindMineral)
	m2.LastAmount = 1000

	starts := []geometry.Tile{{X: 0, Y: 0}, {X: 79, Y: 79}}
	buildableNear := func(center geometry.Tile) []geometry.Tile { return []geometry.Tile{center} }

	reg := base.Discover(tracker.All(), starts, buildableNear, tileDist, base.DefaultConfig())
	all := reg.All()
	require.Len(t, all, 2)

	main := reg.Main
	require.NotNil(t, main)
	main.Owner = base.OwnerEnemy
	var other *base.Base
	for _, b := range all {
		if b != main {
			other = b
		}
	}
	other.Owner = base.OwnerSelf

	reg.UpdateMain()
	assert.Equal(t, other, reg.Main)
}

func TestInferEnemyStartFromOverlordSingleCandidateCommitsImmediately(t *testing.T) {
	cand := &base.Base{ID: 1, Tile: geometry.Tile{X: 10, Y: 10}}
	got, ok := base.InferEnemyStartFromOverlord(base.OverlordSighting{Pos: geometry.Pixel{X: 0, Y: 0}, Frame: 0}, 10, []*base.Base{cand}, 1.0)
	require.True(t, ok)
	assert.Equal(t, cand, got)
}

func TestInferEnemyStartFromOverlordAmbiguousSightingResolvesNothing(t *testing.T) {
	near := &base.Base{ID: 1, Tile: geometry.Tile{X: 0, Y: 0}}
	far := &base.Base{ID: 2, Tile: geometry.Tile{X: 0, Y: 0}}
	// Both candidates sit at the same tile, so every offset matches both:
	// the sighting can't disambiguate them.
	_, ok := base.InferEnemyStartFromOverlord(base.OverlordSighting{Pos: geometry.Pixel{X: 99, Y: 65}, Frame: 0}, 100, []*base.Base{near, far}, 10.0)
	assert.False(t, ok)
}

func TestInferEnemyStartFromOverlordOutOfRangeCandidateExcluded(t *testing.T) {
	reachable := &base.Base{ID: 1, Tile: geometry.Tile{X: 0, Y: 0}}
	tooFar := &base.Base{ID: 2, Tile: geometry.Tile{X: 100000, Y: 100000}}
	got, ok := base.InferEnemyStartFromOverlord(base.OverlordSighting{Pos: geometry.Pixel{X: 99, Y: 65}, Frame: 0}, 1, []*base.Base{reachable, tooFar}, 1.0)
	require.True(t, ok)
	assert.Equal(t, reachable, got)
}

func TestInferEnemyStartFromBuildingCommitsSightedZone(t *testing.T) {
	zone := &base.Base{ID: 3}
	got, ok := base.InferEnemyStartFromBuilding(zone)
	require.True(t, ok)
	assert.Equal(t, zone, got)

	_, ok = base.InferEnemyStartFromBuilding(nil)
	assert.False(t, ok)
}

func TestInferEnemyStartByEliminationRequiresExactlyOneLeft(t *testing.T) {
	a := &base.Base{ID: 1}
	b := &base.Base{ID: 2}

	_, ok := base.InferEnemyStartByElimination([]*base.Base{a, b})
	assert.False(t, ok, "two remaining candidates can't be resolved by elimination")

	got, ok := base.InferEnemyStartByElimination([]*base.Base{a})
	require.True(t, ok)
	assert.Equal(t, a, got)
}

func TestInferEnemyStartPrefersBuildingSightingOverElimination(t *testing.T) {
	tracker := resource.NewTracker()
	m1 := tracker.Add(gameapi.Unit{ID: 1, Tile: geometry.Tile{X: 1, Y: 1}}, resource.KindMineral)
	m1.LastAmount = 1000
	m2 := tracker.Add(gameapi.Unit{ID: 2, Tile: geometry.Tile{X: 80, Y: 80}}, resource.KindMineral)
	m2.LastAmount = 1000

	starts := []geometry.Tile{{X: 0, Y: 0}, {X: 79, Y: 79}}
	buildableNear := func(center geometry.Tile) []geometry.Tile { return []geometry.Tile{center} }
	reg := base.Discover(tracker.All(), starts, buildableNear, tileDist, base.DefaultConfig())

	all := reg.All()
	require.Len(t, all, 2)
	explored := func(*base.Base) bool { return false }

	resolved := reg.InferEnemyStart(explored, all[1], nil, 0, 0)
	assert.True(t, resolved)
	got, ok := reg.EnemyStart()
	require.True(t, ok)
	assert.Equal(t, all[1], got)
}

func TestInferEnemyStartIsIdempotentOnceKnown(t *testing.T) {
	tracker := resource.NewTracker()
	m1 := tracker.Add(gameapi.Unit{ID: 1, Tile: geometry.Tile{X: 1, Y: 1}}, resource.KindMineral)
	m1.LastAmount = 1000
	starts := []geometry.Tile{{X: 0, Y: 0}}
	buildableNear := func(center geometry.Tile) []geometry.Tile { return []geometry.Tile{center} }
	reg := base.Discover(tracker.All(), starts, buildableNear, tileDist, base.DefaultConfig())

	explored := func(*base.Base) bool { return true }
	assert.False(t, reg.InferEnemyStart(explored, nil, nil, 0, 0), "no candidates left unexplored, nothing to commit")

	other := &base.Base{ID: 99}
	reg.SetEnemyStart(other)
	assert.True(t, reg.InferEnemyStart(explored, nil, nil, 0, 0), "already known must short-circuit")
	got, _ := reg.EnemyStart()
	assert.Equal(t, other, got, "an already-committed enemy start must not be overwritten by a later call")
}

func TestFailedPlacementsWarnsAtThresholdWithoutChangingCategory(t *testing.T) {
	b := &base.Base{ID: 1}
	for i := 0; i < 8; i++ {
		b.RecordFailedPlacement()
	}
	assert.Equal(t, 8, b.FailedPlacements())
	assert.Equal(t, base.OwnerNeutral, b.Owner, "failure counting must never mutate ownership")
}
