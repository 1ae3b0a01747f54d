// Package base discovers resource clusters at game start, places candidate
// depot tiles, and tracks per-base ownership and the main/natural/front
// designations every frame.
package base

import (
	"sort"

	"github.com/1siamBot/bwmacro/internal/botlog"
	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/geometry"
	"github.com/1siamBot/bwmacro/internal/resource"
)

// Owner identifies who currently holds a base.
type Owner int

const (
	OwnerNeutral Owner = iota
	OwnerSelf
	OwnerEnemy
)

// DepotFootprint is a placeholder marker, not a size. The tile size of a
// resource depot (command center / nexus / hatchery), fixed at 4x3 for
// every race, is DepotW x DepotH.
const DepotFootprint = 1 // placeholder width marker; see DepotW/DepotH

const (
	DepotW = 4
	DepotH = 3
)

// minGroupValue is the minimum mineral or gas total a group of resources
// must supply to become a base; smallMineralMax is the largest initial
// amount at which a patch is treated as a path-blocking "small mineral"
// rather than a real mineral field.
const (
	minGroupValue       = 500
	smallMineralMax     = 64
	clusterRadiusTiles  = 22
	placementSearchTiles = 15
	failedPlacementWarnThreshold = 8
)

// Base is a candidate resource-depot location.
type Base struct {
	ID       int
	Tile     geometry.Tile
	Minerals []*resource.Resource
	Geysers  []*resource.Resource
	Blockers []gameapi.UnitID

	Owner        Owner
	Depot        gameapi.UnitID
	HasDepot     bool
	IsStartLocation bool

	Natural *Base
	Main    *Base

	failedPlacements int
	lastKnownOwned   bool
}

// FailedPlacements returns the consecutive placement-failure count recorded
// against this base — an observability aid, never consulted by the
// promotion rule directly beyond the count comparison it already does.
func (b *Base) FailedPlacements() int { return b.failedPlacements }

// RecordFailedPlacement increments the failure counter and logs a warning
// once it crosses failedPlacementWarnThreshold, so operators can see that a
// base's buildable area is likely exhausted without it changing any
// category set.
func (b *Base) RecordFailedPlacement() {
	b.failedPlacements++
	if b.failedPlacements == failedPlacementWarnThreshold {
		botlog.Warn("base buildable area likely exhausted",
			botlog.F("base", b.ID), botlog.F("failedPlacements", b.failedPlacements))
	}
}

// ResetFailedPlacements clears the counter, e.g. after this base is
// promoted to main and a fresh placement attempt succeeds.
func (b *Base) ResetFailedPlacements() { b.failedPlacements = 0 }

// MineralTotal sums the last-known amount of every owned mineral patch.
func (b *Base) MineralTotal() int {
	total := 0
	for _, m := range b.Minerals {
		total += m.LastAmount
	}
	return total
}

// GasTotal sums the last-known amount of every owned geyser.
func (b *Base) GasTotal() int {
	total := 0
	for _, g := range b.Geysers {
		total += g.LastAmount
	}
	return total
}

// Registry owns every Base discovered at game start and the main/front
// designation derived from ownership each frame.
type Registry struct {
	bases []*Base
	byID  map[int]*Base

	Main  *Base
	Front *Base

	enemyStart      *Base
	enemyStartKnown bool

	islandStart bool
	islandBases bool

	cfg Config
}

// Config carries the tuning constants used by discovery and scoring, kept
// separate from macroconfig.Config so this package has no import on it
// (discovery constants are structural, not a user-facing tunable table).
type Config struct {
	ClusterRadiusTiles   int
	PlacementSearchTiles int
}

// DefaultConfig returns the literal constants the names.
func DefaultConfig() Config {
	return Config{ClusterRadiusTiles: clusterRadiusTiles, PlacementSearchTiles: placementSearchTiles}
}

// groundDistFn and candidateDepotFn let Discover be unit-tested without a
// real map-analysis backend; production callers pass closures backed by
// gameapi.MapAnalysis and gameapi.Game.
type groundDistFn func(a, b geometry.Tile) float64

// Discover runs the startup resource-clustering pass. res
// lists every static mineral patch (LastAmount already populated with its
// initial amount) and geyser discovered at game start; starts lists every
// starting location; buildableDepotTiles returns, for a bounding box
// center, candidate 4x3-buildable tiles within PlacementSearchTiles of it
// (already filtered for buildability by the caller's map-analysis
// collaborator, since tile buildability is read-only external state this
// package never computes). ground computes ground tile distance, or -1 if
// unreachable.
func Discover(
	res []*resource.Resource,
	starts []geometry.Tile,
	buildableDepotTiles func(center geometry.Tile) []geometry.Tile,
	ground groundDistFn,
	cfg Config,
) *Registry {
	pool := make(map[*resource.Resource]bool)
	for _, r := range res {
		if r.Kind == resource.KindMineral && r.LastAmount <= smallMineralMax {
			continue // small mineral: a path blocker, not base fodder
		}
		pool[r] = true
	}

	var candidates []*Base

	takeGroup := func(seed *resource.Resource) []*resource.Resource {
		var group []*resource.Resource
		for r := range pool {
			if ground(geometry.Tile{X: seed.Tile[0], Y: seed.Tile[1]}, geometry.Tile{X: r.Tile[0], Y: r.Tile[1]}) <= float64(cfg.ClusterRadiusTiles)*geometry.TileSize {
				group = append(group, r)
			}
		}
		return group
	}

	placeBase := func(group []*resource.Resource) *Base {
		tiles := make([]geometry.Tile, 0, len(group))
		for _, r := range group {
			tiles = append(tiles, geometry.Tile{X: r.Tile[0], Y: r.Tile[1]})
		}
		bbox := geometry.RectFromTiles(tiles)
		cx, cy := bbox.Center()
		center := geometry.Tile{X: int(cx), Y: int(cy)}

		best := geometry.Tile{}
		bestScore := -1.0
		found := false
		for _, t := range buildableDepotTiles(center) {
			score := 0.0
			for _, r := range group {
				score += geometry.EdgeDistance(geometry.Tile{X: r.Tile[0], Y: r.Tile[1]}, t, DepotW, DepotH)
			}
			if !found || score < bestScore {
				best, bestScore, found = t, score, true
			}
		}
		if !found {
			return nil
		}

		b := &Base{Tile: best}
		for _, r := range group {
			if r.Kind == resource.KindMineral {
				b.Minerals = append(b.Minerals, r)
			} else {
				b.Geysers = append(b.Geysers, r)
			}
		}
		return b
	}

	// Starting locations get first claim on nearby resources.
	for _, s := range starts {
		var group []*resource.Resource
		for r := range pool {
			if ground(s, geometry.Tile{X: r.Tile[0], Y: r.Tile[1]}) <= float64(cfg.ClusterRadiusTiles)*geometry.TileSize {
				group = append(group, r)
			}
		}
		hasMinerals := false
		for _, r := range group {
			if r.Kind == resource.KindMineral {
				hasMinerals = true
				break
			}
		}
		if !hasMinerals {
			continue // observer slot, no minerals to claim
		}
		b := placeBase(group)
		if b == nil {
			continue
		}
		b.IsStartLocation = true
		candidates = append(candidates, b)
		for _, r := range group {
			delete(pool, r)
		}
	}

	// Remaining resource pool: repeatedly cluster and claim.
	for len(pool) > 0 {
		var seed *resource.Resource
		for r := range pool {
			seed = r
			break
		}
		group := takeGroup(seed)
		mineralVal, gasVal := 0, 0
		for _, r := range group {
			if r.Kind == resource.KindMineral {
				mineralVal += r.LastAmount
			} else {
				gasVal += r.LastAmount
			}
		}
		for _, r := range group {
			delete(pool, r)
		}
		if mineralVal < minGroupValue && gasVal < minGroupValue {
			continue // too few resources, discarded
		}
		b := placeBase(group)
		if b != nil {
			candidates = append(candidates, b)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Tile.Y != candidates[j].Tile.Y {
			return candidates[i].Tile.Y < candidates[j].Tile.Y
		}
		return candidates[i].Tile.X < candidates[j].Tile.X
	})

	reg := &Registry{byID: make(map[int]*Base)}
	for i, b := range candidates {
		b.ID = i + 1
		reg.bases = append(reg.bases, b)
		reg.byID[b.ID] = b
	}

	reg.islandStart = computeIslandStart(starts, ground)
	reg.islandBases = computeIslandBases(reg.bases, starts, ground)

	if len(reg.bases) > 0 {
		reg.Main = reg.bases[0]
		for _, b := range reg.bases {
			if b.IsStartLocation {
				reg.Main = b
				break
			}
		}
	}
	reg.linkNaturals(ground)

	return reg
}

func computeIslandStart(starts []geometry.Tile, ground groundDistFn) bool {
	if len(starts) < 2 {
		return false
	}
	for i := 1; i < len(starts); i++ {
		if ground(starts[0], starts[i]) >= 0 {
			return false
		}
	}
	return true
}

func computeIslandBases(bases []*Base, starts []geometry.Tile, ground groundDistFn) bool {
	if len(starts) == 0 {
		return false
	}
	for _, b := range bases {
		if ground(starts[0], b.Tile) < 0 {
			return true
		}
	}
	return false
}

// linkNaturals assigns each base's Natural/Main pointers: for every
// starting-location base, the nearest other base by ground distance becomes
// its natural, and that natural's Main points back.
func (r *Registry) linkNaturals(ground groundDistFn) {
	for _, main := range r.bases {
		if !main.IsStartLocation {
			continue
		}
		var best *Base
		bestDist := -1.0
		for _, cand := range r.bases {
			if cand == main {
				continue
			}
			d := ground(main.Tile, cand.Tile)
			if d < 0 {
				continue
			}
			if best == nil || d < bestDist {
				best, bestDist = cand, d
			}
		}
		if best != nil {
			main.Natural = best
			best.Main = main
		}
	}
}

// All returns every discovered base, in stable ID order.
func (r *Registry) All() []*Base {
	out := make([]*Base, len(r.bases))
	copy(out, r.bases)
	return out
}

// ByID looks up a base by its stable discovery ID.
func (r *Registry) ByID(id int) (*Base, bool) {
	b, ok := r.byID[id]
	return b, ok
}

// IslandStart reports whether no other starting location is reachable from
// ours by ground.
func (r *Registry) IslandStart() bool { return r.islandStart }

// IslandBases reports whether any discovered base is unreachable by ground
// from our start.
func (r *Registry) IslandBases() bool { return r.islandBases }

// depotOccupant reports the owner (if any) of a 4x3 footprint at base tile
// t, by scanning the engine's units-on-tile for a non-lifted resource depot.
// Deciding which unit types count as depots is left to the implementation.
type depotOccupant func(footprint []geometry.Tile) (owner gameapi.PlayerID, occupied bool)

// UpdateOwnership implements the per-frame ownership pass. visible
// reports whether a base's depot footprint tile is currently visible, and
// occupant resolves what (if anything) occupies that footprint.
func (r *Registry) UpdateOwnership(self, enemy gameapi.PlayerID, visible func(geometry.Tile) bool, occupant depotOccupant) {
	for _, b := range r.bases {
		footprint := footprintTiles(b.Tile)
		anyVisible := false
		for _, t := range footprint {
			if visible(t) {
				anyVisible = true
				break
			}
		}
		if !anyVisible {
			if b.Owner == OwnerSelf && !b.lastKnownOwned {
				b.Owner = OwnerNeutral
			}
			continue
		}
		owner, occupied := occupant(footprint)
		switch {
		case !occupied:
			b.Owner = OwnerNeutral
			b.HasDepot = false
		case owner == self:
			b.Owner = OwnerSelf
			b.HasDepot = true
			b.lastKnownOwned = true
		case owner == enemy:
			b.Owner = OwnerEnemy
			b.HasDepot = true
		default:
			b.Owner = OwnerNeutral
			b.HasDepot = true
		}
	}
}

func footprintTiles(topLeft geometry.Tile) []geometry.Tile {
	tiles := make([]geometry.Tile, 0, DepotW*DepotH)
	for dy := 0; dy < DepotH; dy++ {
		for dx := 0; dx < DepotW; dx++ {
			tiles = append(tiles, topLeft.Add(dx, dy))
		}
	}
	return tiles
}

// UpdateMain implements the main-base reassignment rule: if the
// current main is no longer ours, promote the owned base farthest (by
// tile distance) from the old main; keep the old main if we own nothing.
func (r *Registry) UpdateMain() {
	if r.Main == nil || r.Main.Owner == OwnerSelf {
		return
	}
	old := r.Main
	var best *Base
	bestDist := -1.0
	for _, b := range r.bases {
		if b.Owner != OwnerSelf {
			continue
		}
		d := old.Tile.TileDist(b.Tile)
		if best == nil || d > bestDist {
			best, bestDist = b, d
		}
	}
	if best != nil {
		r.Main = best
	}
}

// PromoteIfBetter implements the failure/retry promotion rule: if
// candidate has fewer failed placements than the current main and is
// race-ready (readiness is the caller's race-specific predicate — e.g.
// "has a completed pylon/hatchery here"), promote it.
func (r *Registry) PromoteIfBetter(candidate *Base, ready bool) {
	if r.Main == nil || candidate == r.Main {
		return
	}
	if ready && candidate.failedPlacements < r.Main.failedPlacements {
		r.Main = candidate
		candidate.ResetFailedPlacements()
	}
}

// UpdateFront implements the front-base selection priority order.
// zerg requires the candidate base to be completed (HasDepot); other races
// accept an uncompleted depot.
func (r *Registry) UpdateFront(requireCompleted bool) {
	natural := r.Main.ownedNatural()
	if n := r.enemyNaturalIfOurs(); n != nil && (!requireCompleted || n.HasDepot) {
		r.Front = n
		return
	}
	candidates := []*Base{natural, r.Main}
	for _, b := range candidates {
		if b != nil && b.Owner == OwnerSelf && (!requireCompleted || b.HasDepot) {
			r.Front = b
			return
		}
	}
	for _, b := range r.bases {
		if b.Owner == OwnerSelf && (!requireCompleted || b.HasDepot) {
			r.Front = b
			return
		}
	}
}

func (b *Base) ownedNatural() *Base {
	if b == nil || b.Natural == nil || b.Natural.Owner != OwnerSelf {
		return nil
	}
	return b.Natural
}

func (r *Registry) enemyNaturalIfOurs() *Base {
	if r.enemyStart == nil || r.enemyStart.Natural == nil {
		return nil
	}
	if r.enemyStart.Natural.Owner == OwnerSelf {
		return r.enemyStart.Natural
	}
	return nil
}

// EnemyStart returns the inferred enemy starting base, if known.
func (r *Registry) EnemyStart() (*Base, bool) {
	return r.enemyStart, r.enemyStartKnown
}

// SetEnemyStart commits the enemy starting base directly — used by
// InferEnemyStart once one of its rules resolves, or by a caller that has
// already resolved the enemy start some other way (e.g. a replay with
// known starting positions).
func (r *Registry) SetEnemyStart(b *Base) {
	r.enemyStart = b
	r.enemyStartKnown = true
}

// UnexploredStartCandidates returns every starting-location base not yet
// ruled out as the enemy start, for use by the process-of-elimination rule.
func (r *Registry) UnexploredStartCandidates(explored func(*Base) bool) []*Base {
	var out []*Base
	for _, b := range r.bases {
		if b.IsStartLocation && !explored(b) {
			out = append(out, b)
		}
	}
	return out
}

// OverlordSighting is one observed overlord position, used by the
// quadrant-offset enemy-start inference below.
type OverlordSighting struct {
	Pos   geometry.Pixel
	Frame int
}

// overlordOffsetMajor/Minor are the pixel offsets an overlord is assumed to
// have drifted from its hatchery along one of the four diagonals, in either
// axis order.
const (
	overlordOffsetMajor = 99
	overlordOffsetMinor = 65
)

// overlordDriftOffsets enumerates every quadrant-offset combination the
// sighting is checked against.
func overlordDriftOffsets() []geometry.Pixel {
	offsets := make([]geometry.Pixel, 0, 8)
	for _, major := range []int{overlordOffsetMajor, -overlordOffsetMajor} {
		for _, minor := range []int{overlordOffsetMinor, -overlordOffsetMinor} {
			offsets = append(offsets, geometry.Pixel{X: major, Y: minor}, geometry.Pixel{X: minor, Y: major})
		}
	}
	return offsets
}

// InferEnemyStartFromOverlord implements the overlord-sighting
// quadrant-offset rule: a sighted overlord is assumed to sit near one of
// the eight diagonal offsets from its hatchery. Of the unexplored starting
// candidates, the one whose offset position is reachable from the sighting
// within the elapsed travel time (at overlordSpeed pixels/frame) commits —
// but only if exactly one candidate is consistent; an ambiguous sighting
// resolves nothing. On a 2-player map there is only ever one candidate, so
// any sighting immediately commits it.
func InferEnemyStartFromOverlord(sighting OverlordSighting, frame int, candidates []*Base, overlordSpeed float64) (*Base, bool) {
	if len(candidates) == 0 {
		return nil, false
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	elapsed := float64(frame - sighting.Frame)
	if elapsed < 0 {
		elapsed = 0
	}
	maxTravel := elapsed * overlordSpeed

	var match *Base
	matches := 0
	for _, cand := range candidates {
		candPixel := cand.Tile.ToPixel()
		for _, off := range overlordDriftOffsets() {
			predicted := geometry.Pixel{X: candPixel.X + off.X, Y: candPixel.Y + off.Y}
			if predicted.Dist(sighting.Pos) <= maxTravel {
				match = cand
				matches++
				break
			}
		}
	}
	if matches == 1 {
		return match, true
	}
	return nil, false
}

// InferEnemyStartFromBuilding implements the enemy-building-in-zone rule:
// an enemy building sighted within a starting base's footprint commits that
// base as the enemy start immediately, no further inference needed.
func InferEnemyStartFromBuilding(sightedZone *Base) (*Base, bool) {
	if sightedZone == nil {
		return nil, false
	}
	return sightedZone, true
}

// InferEnemyStartByElimination implements the process-of-elimination rule:
// once every starting location but one has been explored and ruled out, the
// one remaining is the enemy start.
func InferEnemyStartByElimination(candidates []*Base) (*Base, bool) {
	if len(candidates) == 1 {
		return candidates[0], true
	}
	return nil, false
}

// InferEnemyStart runs the enemy-start inference rules in priority order —
// a directly sighted enemy building in a starting zone, an overlord-sighting
// quadrant-offset match, then process-of-elimination — against the
// currently unexplored starting candidates, and commits the first rule that
// resolves. overlord and sightedBuildingZone may be nil when that frame's
// observation doesn't apply. Returns whether the enemy start is now known
// (either just committed, or already committed on an earlier call).
func (r *Registry) InferEnemyStart(explored func(*Base) bool, sightedBuildingZone *Base, overlord *OverlordSighting, frame int, overlordSpeed float64) bool {
	if r.enemyStartKnown {
		return true
	}
	candidates := r.UnexploredStartCandidates(explored)
	if len(candidates) == 0 {
		return false
	}
	if b, ok := InferEnemyStartFromBuilding(sightedBuildingZone); ok {
		r.SetEnemyStart(b)
		return true
	}
	if overlord != nil {
		if b, ok := InferEnemyStartFromOverlord(*overlord, frame, candidates, overlordSpeed); ok {
			r.SetEnemyStart(b)
			return true
		}
	}
	if b, ok := InferEnemyStartByElimination(candidates); ok {
		r.SetEnemyStart(b)
		return true
	}
	return false
}
