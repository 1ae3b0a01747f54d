package placement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1siamBot/bwmacro/internal/geometry"
	"github.com/1siamBot/bwmacro/internal/placement"
)

func TestFindTileReturnsFirstFeasible(t *testing.T) {
	candidates := []geometry.Tile{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	tile, ok := placement.FindTile(candidates, func(t geometry.Tile) bool { return t.X == 1 })
	assert.True(t, ok)
	assert.Equal(t, geometry.Tile{X: 1, Y: 0}, tile)
}

func TestFindTileNoneFeasible(t *testing.T) {
	_, ok := placement.FindTile(nil, func(geometry.Tile) bool { return true })
	assert.False(t, ok)
}

func TestSortByGroundDistanceOrdersAscending(t *testing.T) {
	hint := geometry.Tile{X: 0, Y: 0}
	tiles := []geometry.Tile{{X: 10, Y: 0}, {X: 1, Y: 0}, {X: 5, Y: 0}}
	sorted := placement.SortByGroundDistance(tiles, hint, nil)
	assert.Equal(t, []geometry.Tile{{X: 1, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}}, sorted)
}

func TestExpansionScoreHiddenVsVisible(t *testing.T) {
	hidden := placement.ExpansionCandidate{DistFromEnemy: 100, DistFromSelf: 50, Hidden: true}
	visible := placement.ExpansionCandidate{DistFromEnemy: 100, DistFromSelf: 50, Hidden: false}
	assert.Greater(t, hidden.Score(false), visible.Score(false))
}

func TestBestExpansionPicksHighestScore(t *testing.T) {
	low := placement.ExpansionCandidate{BaseID: 1, DistFromEnemy: 10}
	high := placement.ExpansionCandidate{BaseID: 2, DistFromEnemy: 1000}
	best, ok := placement.BestExpansion([]placement.ExpansionCandidate{low, high}, false)
	assert.True(t, ok)
	assert.Equal(t, 2, best.BaseID)
}
