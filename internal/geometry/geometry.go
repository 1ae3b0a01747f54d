// Package geometry holds the small position/rectangle value types shared by
// every component, plus the seam through which ground-distance and
// walkability queries (computed by the external map-analysis service) are
// consumed as read-only functions rather than reimplemented here.
package geometry

import "math"

// Pixel is a position in pixel space (BWAPI's native unit).
type Pixel struct {
	X, Y int
}

// Dist returns the Euclidean pixel distance between two points.
func (p Pixel) Dist(o Pixel) float64 {
	dx := float64(p.X - o.X)
	dy := float64(p.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Tile is a position on the 32x32 build grid.
type Tile struct {
	X, Y int
}

// TileSize is the pixel width/height of one build tile.
const TileSize = 32

// ToPixel returns the top-left pixel corner of this tile.
func (t Tile) ToPixel() Pixel {
	return Pixel{X: t.X * TileSize, Y: t.Y * TileSize}
}

// TileDist returns tile-grid Euclidean distance (not ground distance —
// callers needing ground distance must go through GroundDistanceFunc).
func (t Tile) TileDist(o Tile) float64 {
	dx := float64(t.X - o.X)
	dy := float64(t.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns t shifted by (dx, dy).
func (t Tile) Add(dx, dy int) Tile {
	return Tile{X: t.X + dx, Y: t.Y + dy}
}

// Rect is an axis-aligned tile rectangle, top-left inclusive, exclusive of
// Right/Bottom (i.e. width = Right-Left).
type Rect struct {
	Left, Top, Right, Bottom int
}

// RectFromTiles returns the bounding box of a set of tiles.
func RectFromTiles(tiles []Tile) Rect {
	if len(tiles) == 0 {
		return Rect{}
	}
	r := Rect{Left: tiles[0].X, Right: tiles[0].X + 1, Top: tiles[0].Y, Bottom: tiles[0].Y + 1}
	for _, t := range tiles[1:] {
		if t.X < r.Left {
			r.Left = t.X
		}
		if t.X+1 > r.Right {
			r.Right = t.X + 1
		}
		if t.Y < r.Top {
			r.Top = t.Y
		}
		if t.Y+1 > r.Bottom {
			r.Bottom = t.Y + 1
		}
	}
	return r
}

// Center returns the fractional-tile center of the rectangle.
func (r Rect) Center() (x, y float64) {
	return float64(r.Left+r.Right) / 2, float64(r.Top+r.Bottom) / 2
}

// Contains reports whether t lies within the rectangle.
func (r Rect) Contains(t Tile) bool {
	return t.X >= r.Left && t.X < r.Right && t.Y >= r.Top && t.Y < r.Bottom
}

// Overlaps reports whether a W x H footprint placed at (topLeft) overlaps r.
func (r Rect) Overlaps(topLeft Tile, w, h int) bool {
	other := Rect{Left: topLeft.X, Top: topLeft.Y, Right: topLeft.X + w, Bottom: topLeft.Y + h}
	return r.Left < other.Right && other.Left < r.Right && r.Top < other.Bottom && other.Top < r.Bottom
}

// EdgeDistance returns the tile-grid distance from point p to the nearest
// edge of footprint placed at topLeft with size w x h ("edge-to-edge tile
// distance", the scoring).
func EdgeDistance(p Tile, topLeft Tile, w, h int) float64 {
	dx := 0
	if p.X < topLeft.X {
		dx = topLeft.X - p.X
	} else if p.X >= topLeft.X+w {
		dx = p.X - (topLeft.X + w)
	}
	dy := 0
	if p.Y < topLeft.Y {
		dy = topLeft.Y - p.Y
	} else if p.Y >= topLeft.Y+h {
		dy = p.Y - (topLeft.Y + h)
	}
	return math.Sqrt(float64(dx*dx + dy*dy))
}

// GroundDistanceFunc computes ground (walking) distance in pixels between
// two tiles, or -1 if no ground path exists. This is the map-analysis
// service's "ground-tile-distance query" — a read-only
// collaborator this module never implements, only calls.
type GroundDistanceFunc func(a, b Tile) float64

// SamePartitionFunc reports whether two tiles belong to the same walkable
// partition — used as the "narrow-choke workaround" fallback in expansion
// scoring, when ground distance is unavailable (-1) but air distance
// should still count.
type SamePartitionFunc func(a, b Tile) bool

// EffectiveDistance applies the fallback rule: use ground distance
// when available, else air distance if a and b share a walkability
// partition, else treat as unreachable (returns -1).
func EffectiveDistance(a, b Tile, ground GroundDistanceFunc, samePartition SamePartitionFunc) float64 {
	if ground != nil {
		if d := ground(a, b); d >= 0 {
			return d
		}
	}
	if samePartition != nil && samePartition(a, b) {
		return a.TileDist(b) * TileSize
	}
	return -1
}
