// Package placement answers "can X be built at tile T?" and "where should X
// be built near location L?", and owns the reservation grid that keeps
// concurrent building requests from claiming the same tiles.
package placement

import (
	"sort"

	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/geometry"
)

// MacroLocation is a symbolic placement hint resolved to a concrete tile
// by Placer.Resolve.
type MacroLocation int

const (
	LocMain MacroLocation = iota
	LocNatural
	LocFront
	LocExpo
	LocMinOnly
	LocGasOnly
	LocHidden
	LocCenter
	LocProxy
	LocEnemyMain
	LocEnemyNatural
	LocGasSteal
	LocTile
	LocAnywhere
)

// Placer owns the boolean reservation grid and answers placement queries.
type Placer struct {
	width, height int
	reserved      map[geometry.Tile]bool
	game          gameapi.Game
	mapAnalysis   gameapi.MapAnalysis
	spacing       int
	pylonSpacing  int
}

// NewPlacer builds an empty reservation grid sized to the map.
func NewPlacer(game gameapi.Game, mapAnalysis gameapi.MapAnalysis, spacing, pylonSpacing int) *Placer {
	return &Placer{
		width:        game.MapWidthTiles(),
		height:       game.MapHeightTiles(),
		reserved:     make(map[geometry.Tile]bool),
		game:         game,
		mapAnalysis:  mapAnalysis,
		spacing:      spacing,
		pylonSpacing: pylonSpacing,
	}
}

// ReserveMiningLanes reserves the tiles between each resource and the
// nearest depot-center tile so buildings never wall off mining. lane is
// supplied by the caller (base discovery knows which tiles lie between a
// patch and its depot).
func (p *Placer) ReserveMiningLanes(lanes [][]geometry.Tile) {
	for _, lane := range lanes {
		for _, t := range lane {
			p.reserved[t] = true
		}
	}
}

// Reserve marks every tile of a W x H footprint at topLeft as occupied.
func (p *Placer) Reserve(topLeft geometry.Tile, w, h int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			p.reserved[topLeft.Add(dx, dy)] = true
		}
	}
}

// Unreserve clears a previously reserved footprint.
func (p *Placer) Unreserve(topLeft geometry.Tile, w, h int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			delete(p.reserved, topLeft.Add(dx, dy))
		}
	}
}

// IsReserved reports whether t is held by an in-progress or built building.
func (p *Placer) IsReserved(t geometry.Tile) bool { return p.reserved[t] }

// isFree implements the "free" tile test: engine-buildable, not
// reserved, and (terran only) not within 3 tiles left of an addon-capable
// building. addonBlockers is precomputed per frame by the caller since it
// requires scanning buildings, which this package doesn't own.
func (p *Placer) isFree(t geometry.Tile, addonBlockers map[geometry.Tile]bool) bool {
	if !p.game.IsBuildable(t) {
		return false
	}
	if p.reserved[t] {
		return false
	}
	if addonBlockers != nil && addonBlockers[t] {
		return false
	}
	return true
}

// CanPlace implements the buildability decision for a W x H
// building at t, expanding the checked area by extraSpace tiles on every
// side (BuildingSpacing/PylonSpacing from macroconfig), excluding overlap
// with reserved base footprints unless exemptBaseOverlap is set (enemy-base
// macro locations are exempt).
func (p *Placer) CanPlace(t geometry.Tile, w, h, extraSpace int, addonBlockers map[geometry.Tile]bool, baseFootprints []geometry.Rect, exemptBaseOverlap bool, threatened func(geometry.Tile) bool, groundReachable func(geometry.Tile) bool) bool {
	if threatened != nil && threatened(t) {
		return false
	}
	if groundReachable != nil && !groundReachable(t) {
		return false
	}
	if !exemptBaseOverlap {
		for _, r := range baseFootprints {
			if r.Overlaps(t, w, h) {
				return false
			}
		}
	}
	for dy := -extraSpace; dy < h+extraSpace; dy++ {
		for dx := -extraSpace; dx < w+extraSpace; dx++ {
			if !p.isFree(t.Add(dx, dy), addonBlockers) {
				return false
			}
		}
	}
	return true
}

// FindTile implements the placement search: the first tile (from
// candidates, already sorted by the caller in increasing ground distance
// from hint) that passes the given feasibility predicate. Returns the
// no-tile sentinel (false) if none qualify — callers are expected to delay
// retry rather than thrash every frame.
func FindTile(candidates []geometry.Tile, feasible func(geometry.Tile) bool) (geometry.Tile, bool) {
	for _, t := range candidates {
		if feasible(t) {
			return t, true
		}
	}
	return geometry.Tile{}, false
}

// SortByGroundDistance orders tiles by increasing ground distance from hint,
// falling back to tile distance when ground distance is unavailable.
func SortByGroundDistance(tiles []geometry.Tile, hint geometry.Tile, ground geometry.GroundDistanceFunc) []geometry.Tile {
	out := make([]geometry.Tile, len(tiles))
	copy(out, tiles)
	dist := func(t geometry.Tile) float64 {
		if ground != nil {
			if d := ground(hint, t); d >= 0 {
				return d
			}
		}
		return hint.TileDist(t) * geometry.TileSize
	}
	sort.Slice(out, func(i, j int) bool { return dist(out[i]) < dist(out[j]) })
	return out
}

// ResolveInputs bundles the concrete tiles and lookups every MacroLocation
// variant resolves against. A Has* flag left false or a lookup left nil
// (e.g. no enemy base inferred yet) makes that variant resolve to "not
// found"; the plain tile fields (MainTile, FrontTile, CenterTile,
// RequestedTile) always resolve, even at their zero value.
type ResolveInputs struct {
	MainTile    geometry.Tile
	NaturalTile geometry.Tile
	HasNatural  bool
	FrontTile   geometry.Tile
	CenterTile  geometry.Tile

	EnemyMainTile    geometry.Tile
	HasEnemyMain     bool
	EnemyNaturalTile geometry.Tile
	HasEnemyNatural  bool

	RequestedTile geometry.Tile // LocTile's caller-supplied hint

	// NextExpansion resolves Expo (wantGas=true) / MinOnly (wantGas=false)
	// to the next scored expansion base.
	NextExpansion func(wantGas bool) (geometry.Tile, bool)
	// NextGasExpansion resolves GasOnly to the next gas-bearing expansion
	// (gas is required here, unlike Expo where it's merely preferred).
	NextGasExpansion func() (geometry.Tile, bool)
	// NextHiddenExpansion resolves Hidden to the expansion farthest from
	// both players.
	NextHiddenExpansion func() (geometry.Tile, bool)
	// ProxyTile resolves Proxy to a tile hidden inside the enemy main.
	ProxyTile func() (geometry.Tile, bool)
	// GasStealTile resolves GasSteal to the enemy's natural geyser.
	GasStealTile func() (geometry.Tile, bool)
}

// Resolve implements the MacroLocation resolution table, turning a
// symbolic hint into a concrete tile. The second return is false if the
// location cannot currently be resolved (e.g. Natural before one's taken,
// or Proxy before the enemy base is known) — callers should leave the
// requesting PlannedBuilding Unassigned and retry next frame.
func (p *Placer) Resolve(loc MacroLocation, in ResolveInputs) (geometry.Tile, bool) {
	switch loc {
	case LocMain, LocAnywhere:
		return in.MainTile, true
	case LocNatural:
		return in.NaturalTile, in.HasNatural
	case LocFront:
		return in.FrontTile, true
	case LocExpo:
		if in.NextExpansion == nil {
			return geometry.Tile{}, false
		}
		return in.NextExpansion(true)
	case LocMinOnly:
		if in.NextExpansion == nil {
			return geometry.Tile{}, false
		}
		return in.NextExpansion(false)
	case LocGasOnly:
		if in.NextGasExpansion == nil {
			return geometry.Tile{}, false
		}
		return in.NextGasExpansion()
	case LocHidden:
		if in.NextHiddenExpansion == nil {
			return geometry.Tile{}, false
		}
		return in.NextHiddenExpansion()
	case LocCenter:
		return in.CenterTile, true
	case LocProxy:
		if in.ProxyTile == nil {
			return geometry.Tile{}, false
		}
		return in.ProxyTile()
	case LocEnemyMain:
		return in.EnemyMainTile, in.HasEnemyMain
	case LocEnemyNatural:
		return in.EnemyNaturalTile, in.HasEnemyNatural
	case LocGasSteal:
		if in.GasStealTile == nil {
			return geometry.Tile{}, false
		}
		return in.GasStealTile()
	case LocTile:
		return in.RequestedTile, true
	}
	return geometry.Tile{}, false
}

// ExpansionCandidate is one scored neutral-base option for the next
// expansion.
type ExpansionCandidate struct {
	BaseID               int
	Tile                 geometry.Tile
	DistFromEnemy        float64
	DistFromSelf         float64
	EdgeDistanceAdjusted float64
	MineralPatches       int
	MineralAmount        int
	GeyserPatches        int
	GasAmount            int
	Hidden               bool
}

// Score implements the expansion scoring formula.
func (c ExpansionCandidate) Score(wantGas bool) float64 {
	var base float64
	if c.Hidden {
		base = c.DistFromEnemy + c.DistFromSelf/2
	} else {
		base = c.DistFromEnemy/2 - c.DistFromSelf
	}
	score := base - 15*c.EdgeDistanceAdjusted +
		5*float64(c.MineralPatches) + 0.005*float64(c.MineralAmount)
	if wantGas {
		score += 20*float64(c.GeyserPatches) + 0.01*float64(c.GasAmount)
	} else {
		score += 5*float64(c.GeyserPatches) + 0.0025*float64(c.GasAmount)
	}
	return score
}

// BestExpansion returns the highest-scoring candidate, or false if none.
func BestExpansion(candidates []ExpansionCandidate, wantGas bool) (ExpansionCandidate, bool) {
	var best ExpansionCandidate
	bestScore := 0.0
	found := false
	for _, c := range candidates {
		s := c.Score(wantGas)
		if !found || s > bestScore {
			best, bestScore, found = c, s, true
		}
	}
	return best, found
}
