// Package building tracks each planned/in-progress building through its
// 4-state lifecycle and the worker builder assigned to it.
package building

import (
	"github.com/1siamBot/bwmacro/internal/botlog"
	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/geometry"
	"github.com/1siamBot/bwmacro/internal/placement"
)

// Status is a PlannedBuilding's position in its lifecycle.
type Status int

const (
	StatusUnassigned Status = iota
	StatusAssigned
	StatusUnderConstruction
)

// Planned is one building request in flight.
type Planned struct {
	ID           int
	Type         gameapi.UnitType
	DesiredTile  geometry.Tile
	FinalTile    geometry.Tile
	Worker       gameapi.UnitID
	HasWorker    bool
	Building     gameapi.UnitID
	HasBuilding  bool
	MacroLoc     placement.MacroLocation
	IsGasSteal   bool
	Status       Status
	MineralCost  int
	GasCost      int
	Width        int
	Height       int
	commandGiven bool
}

// Registry owns every in-flight Planned building and the resources
// reserved on their behalf.
type Registry struct {
	entries        map[int]*Planned
	nextID         int
	reservedMin    int
	reservedGas    int
	placer         *placement.Placer
}

// NewRegistry returns an empty Registry.
func NewRegistry(placer *placement.Placer) *Registry {
	return &Registry{entries: make(map[int]*Planned), placer: placer}
}

// ReservedMinerals and ReservedGas report resources committed to in-flight
// buildings but not yet spent, so other subsystems can compute "available =
// current - reserved".
func (r *Registry) ReservedMinerals() int { return r.reservedMin }
func (r *Registry) ReservedGas() int      { return r.reservedGas }

// Create registers a new Unassigned PlannedBuilding and reserves its cost.
func (r *Registry) Create(t gameapi.UnitType, desired geometry.Tile, loc placement.MacroLocation, gasSteal bool, mineralCost, gasCost, w, h int) *Planned {
	r.nextID++
	p := &Planned{
		ID: r.nextID, Type: t, DesiredTile: desired, MacroLoc: loc,
		IsGasSteal: gasSteal, Status: StatusUnassigned,
		MineralCost: mineralCost, GasCost: gasCost, Width: w, Height: h,
	}
	r.entries[p.ID] = p
	r.reservedMin += mineralCost
	r.reservedGas += gasCost
	return p
}

// All returns every in-flight entry.
func (r *Registry) All() []*Planned {
	out := make([]*Planned, 0, len(r.entries))
	for _, p := range r.entries {
		out = append(out, p)
	}
	return out
}

// ScoutReleaser is the ScoutController collaborator used to return a
// gas-steal scout to normal duty once its refinery resolves.
type ScoutReleaser interface {
	ReleaseScoutWorker()
}

// releaseGasSteal releases a gas-steal building's scout worker. It is called
// on the cancel path and when construction starts (AdvanceAssigned's
// transition to UnderConstruction). It keeps no record of an earlier
// release: cancelling an entry that is already under construction calls
// ReleaseScoutWorker a second time.
func (p *Planned) releaseGasSteal(scout ScoutReleaser) {
	if !p.IsGasSteal || scout == nil {
		return
	}
	scout.ReleaseScoutWorker()
}

// AdvanceUnassigned implements the step 1: ask the placer for a tile
// and the worker source for a builder; on success, reserve the footprint
// and transition to Assigned.
func (r *Registry) AdvanceUnassigned(p *Planned, findTile func(*Planned) (geometry.Tile, bool), findBuilder func(*Planned, geometry.Tile) (gameapi.UnitID, bool)) {
	if p.Status != StatusUnassigned {
		return
	}
	tile, ok := findTile(p)
	if !ok {
		return
	}
	worker, ok := findBuilder(p, tile)
	if !ok {
		return
	}
	r.placer.Reserve(tile, p.Width, p.Height)
	p.FinalTile = tile
	p.Worker = worker
	p.HasWorker = true
	p.Status = StatusAssigned
}

// AdvanceAssigned implements the step 2. move issues a move-to-tile
// command; arrived reports whether the worker has reached the tile;
// obstructed reports whether a transient unit blocks the footprint; build
// issues the actual build command; builtHere reports whether the engine now
// shows a matching building at FinalTile.
func (r *Registry) AdvanceAssigned(p *Planned, arrived, obstructed func(*Planned) bool, move, build func(*Planned), builtHere func(*Planned) (gameapi.UnitID, bool), scout ScoutReleaser) {
	if p.Status != StatusAssigned {
		return
	}
	if building, ok := builtHere(p); ok {
		r.placer.Unreserve(p.FinalTile, p.Width, p.Height)
		p.Building = building
		p.HasBuilding = true
		p.Status = StatusUnderConstruction
		r.reservedMin -= p.MineralCost
		r.reservedGas -= p.GasCost
		p.releaseGasSteal(scout)
		return
	}
	if !arrived(p) {
		move(p)
		return
	}
	if obstructed(p) {
		r.placer.Unreserve(p.FinalTile, p.Width, p.Height)
		p.HasWorker = false
		p.Status = StatusUnassigned
		return
	}
	if !p.commandGiven {
		build(p)
		p.commandGiven = true
	}
}

// AdvanceUnderConstruction implements the step 3. complete reports
// whether the building finished; returnWorker hands the assigned worker
// back to WorkerRegistry whenever the entry still holds one, for every
// race — AdvanceAssigned does not release the worker when construction
// starts, so no race gets its builder back before completion here;
// replaceBuilder is invoked every frame the building is not yet complete.
func (r *Registry) AdvanceUnderConstruction(p *Planned, complete func(*Planned) bool, returnWorker func(gameapi.UnitID), replaceBuilder func(*Planned)) (done bool) {
	if p.Status != StatusUnderConstruction {
		return false
	}
	if complete(p) {
		if p.HasWorker {
			returnWorker(p.Worker)
		}
		delete(r.entries, p.ID)
		return true
	}
	if replaceBuilder != nil {
		replaceBuilder(p)
	}
	return false
}

// DropInvalid removes UnderConstruction entries whose building unit is gone,
// dead, or no longer a building type.
func (r *Registry) DropInvalid(gone func(*Planned) bool) {
	for id, p := range r.entries {
		if p.Status == StatusUnderConstruction && gone(p) {
			delete(r.entries, id)
		}
	}
}

// Cancel implements the per-state cancellation rule.
func (r *Registry) Cancel(p *Planned, cancelInGame func(*Planned), releaseWorker func(gameapi.UnitID), scout ScoutReleaser) {
	switch p.Status {
	case StatusUnassigned:
		r.refund(p)
	case StatusAssigned:
		r.refund(p)
		r.placer.Unreserve(p.FinalTile, p.Width, p.Height)
		if p.HasWorker {
			releaseWorker(p.Worker)
		}
	case StatusUnderConstruction:
		cancelInGame(p)
		r.placer.Unreserve(p.FinalTile, p.Width, p.Height)
	}
	p.releaseGasSteal(scout)
	delete(r.entries, p.ID)
	botlog.Info("building cancelled", botlog.F("id", p.ID), botlog.F("status", int(p.Status)))
}

func (r *Registry) refund(p *Planned) {
	r.reservedMin -= p.MineralCost
	r.reservedGas -= p.GasCost
}
