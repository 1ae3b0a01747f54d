package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1siamBot/bwmacro/internal/geometry"
)

func TestRectFromTiles(t *testing.T) {
	tiles := []geometry.Tile{{X: 2, Y: 3}, {X: 5, Y: 1}, {X: 0, Y: 4}}
	r := geometry.RectFromTiles(tiles)
	assert.Equal(t, geometry.Rect{Left: 0, Top: 1, Right: 6, Bottom: 5}, r)
}

func TestEdgeDistanceInsideFootprintIsZero(t *testing.T) {
	d := geometry.EdgeDistance(geometry.Tile{X: 1, Y: 1}, geometry.Tile{X: 0, Y: 0}, 4, 3)
	assert.Zero(t, d)
}

func TestEdgeDistanceOutsideFootprint(t *testing.T) {
	d := geometry.EdgeDistance(geometry.Tile{X: 10, Y: 0}, geometry.Tile{X: 0, Y: 0}, 4, 3)
	assert.Equal(t, 6.0, d)
}

func TestEffectiveDistancePrefersGround(t *testing.T) {
	ground := func(a, b geometry.Tile) float64 { return 42 }
	d := geometry.EffectiveDistance(geometry.Tile{}, geometry.Tile{X: 1}, ground, nil)
	assert.Equal(t, 42.0, d)
}

func TestEffectiveDistanceFallsBackToPartition(t *testing.T) {
	unreachable := func(a, b geometry.Tile) float64 { return -1 }
	samePartition := func(a, b geometry.Tile) bool { return true }
	a := geometry.Tile{X: 0, Y: 0}
	b := geometry.Tile{X: 3, Y: 4}
	d := geometry.EffectiveDistance(a, b, unreachable, samePartition)
	assert.Equal(t, 5.0*geometry.TileSize, d)
}

func TestEffectiveDistanceUnreachable(t *testing.T) {
	unreachable := func(a, b geometry.Tile) float64 { return -1 }
	differentPartition := func(a, b geometry.Tile) bool { return false }
	d := geometry.EffectiveDistance(geometry.Tile{}, geometry.Tile{X: 1}, unreachable, differentPartition)
	assert.Equal(t, -1.0, d)
}
