// Package worker maintains each worker's job-assignment state machine and
// rebalances jobs every frame: mineral saturation, gas quotas, repair,
// returning cargo, self-defense, posted duties, and unblocking.
package worker

import (
	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/geometry"
	"github.com/1siamBot/bwmacro/internal/placement"
)

// Job is the job a worker currently holds.
type Job int

const (
	JobDefault Job = iota
	JobIdle
	JobMinerals
	JobGas
	JobBuild
	JobCombat
	JobRepair
	JobScout
	JobReturnCargo
	JobUnblock
	JobPosted
	JobPostedBuild
)

// Worker is one tracked worker unit and its job-specific binding.
type Worker struct {
	ID  gameapi.UnitID
	Job Job

	Depot         gameapi.UnitID
	Patch         gameapi.UnitID
	Refinery      gameapi.UnitID
	RepairTarget  gameapi.UnitID
	UnblockTile   geometry.Tile
	PostLocation  placement.MacroLocation
	PostedPos     geometry.Pixel

	BusyThisFrame bool
}

// Registry owns every tracked worker plus the reverse indices the job
// rebalance needs: per-depot mineral-worker count, per-refinery gas-worker
// count, per-patch miner count.
type Registry struct {
	workers map[gameapi.UnitID]*Worker

	mineralCountByDepot map[gameapi.UnitID]int
	gasCountByRefinery  map[gameapi.UnitID]int
	minerCountByPatch   map[gameapi.UnitID]int

	burrowedForSafety map[gameapi.UnitID]int // worker -> frame burrowed
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		workers:             make(map[gameapi.UnitID]*Worker),
		mineralCountByDepot: make(map[gameapi.UnitID]int),
		gasCountByRefinery:  make(map[gameapi.UnitID]int),
		minerCountByPatch:   make(map[gameapi.UnitID]int),
		burrowedForSafety:   make(map[gameapi.UnitID]int),
	}
}

// Add registers a newly produced worker as Idle.
func (r *Registry) Add(id gameapi.UnitID) *Worker {
	w := &Worker{ID: id, Job: JobIdle}
	r.workers[id] = w
	return w
}

// Remove drops a worker that died or was reassigned away from tracking
// (e.g. morphed into a building for zerg's builder-becomes-building rule).
func (r *Registry) Remove(id gameapi.UnitID) {
	if w, ok := r.workers[id]; ok {
		r.clearJobIndices(w)
		delete(r.workers, id)
	}
}

// All returns every tracked worker.
func (r *Registry) All() []*Worker {
	out := make([]*Worker, 0, len(r.workers))
	for _, w := range r.workers {
		out = append(out, w)
	}
	return out
}

// Get looks up a worker by unit ID.
func (r *Registry) Get(id gameapi.UnitID) (*Worker, bool) {
	w, ok := r.workers[id]
	return w, ok
}

func (r *Registry) clearJobIndices(w *Worker) {
	switch w.Job {
	case JobMinerals:
		r.mineralCountByDepot[w.Depot]--
		r.minerCountByPatch[w.Patch]--
	case JobGas:
		r.gasCountByRefinery[w.Refinery]--
	}
}

// SetIdle resets a worker's job to Idle and clears its bindings — the
// correction path every "misassignment" reset in the step 1 funnels
// through this.
func (r *Registry) SetIdle(w *Worker) {
	r.clearJobIndices(w)
	w.Job = JobIdle
	w.Depot, w.Patch, w.Refinery, w.RepairTarget = 0, 0, 0, 0
}

// PatchMinerCount returns how many workers are currently mining patch id.
func (r *Registry) PatchMinerCount(patch gameapi.UnitID) int { return r.minerCountByPatch[patch] }

// DepotMineralCount returns how many workers currently mine for depot id.
func (r *Registry) DepotMineralCount(depot gameapi.UnitID) int { return r.mineralCountByDepot[depot] }

// RefineryGasCount returns how many workers currently gas for refinery id.
func (r *Registry) RefineryGasCount(refinery gameapi.UnitID) int { return r.gasCountByRefinery[refinery] }

// AssignMinerals implements the patch-assignment ("mineral
// locking"): of the candidate patches near depot, pick the one with the
// fewest current miners, tie-broken by proximity to the depot.
func (r *Registry) AssignMinerals(w *Worker, depot gameapi.UnitID, candidates []gameapi.UnitID, patchPos map[gameapi.UnitID]geometry.Pixel, depotPos geometry.Pixel) {
	var best gameapi.UnitID
	bestCount := -1
	bestDist := 0.0
	found := false
	for _, patch := range candidates {
		c := r.minerCountByPatch[patch]
		d := depotPos.Dist(patchPos[patch])
		if !found || c < bestCount || (c == bestCount && d < bestDist) {
			best, bestCount, bestDist, found = patch, c, d, true
		}
	}
	if !found {
		return
	}
	r.clearJobIndices(w)
	w.Job = JobMinerals
	w.Depot = depot
	w.Patch = best
	r.mineralCountByDepot[depot]++
	r.minerCountByPatch[best]++
}

// AssignGas implements the step 3's gas-worker top-up, one worker at
// a time.
func (r *Registry) AssignGas(w *Worker, refinery gameapi.UnitID) {
	r.clearJobIndices(w)
	w.Job = JobGas
	w.Refinery = refinery
	r.gasCountByRefinery[refinery]++
}

// MaxWorkers implements the cap formula:
// min(AbsoluteMaxWorkers, round(WorkersPerPatch*patches + WorkersPerRefinery*refineries) + 1).
func MaxWorkers(absoluteMax int, workersPerPatch float64, patches int, workersPerRefinery, refineries int) int {
	computed := int(workersPerPatch*float64(patches)+0.5) + workersPerRefinery*refineries + 1
	if computed > absoluteMax {
		return absoluteMax
	}
	return computed
}

// InDanger implements the danger test: the nearest enemy unit whose
// weapon range plus margin reaches pos, and is within sight. Since weapon
// range tables live with the (out-of-scope) combat subsystem, the caller
// supplies nearestThreatRange, the attack range (already +margin) of the
// nearest qualifying enemy, or -1 if none.
func InDanger(pos geometry.Pixel, nearestThreatPos geometry.Pixel, nearestThreatRange float64, hasThreat bool) bool {
	if !hasThreat {
		return false
	}
	return pos.Dist(nearestThreatPos) <= nearestThreatRange
}

// BurrowForSafety implements the danger-response burrow branch,
// recording the frame a worker burrowed so the unburrow sweep can check
// elapsed safe time.
func (r *Registry) BurrowForSafety(id gameapi.UnitID, frame int) {
	r.burrowedForSafety[id] = frame
}

// ConsiderUnburrow implements the ~29-frame unburrow sweep: drop
// entries for dead/gone/force-unburrowed workers, and unburrow any worker
// safe for at least safeFrames and not irradiated.
func (r *Registry) ConsiderUnburrow(frame, safeFrames int, gone, forcedUnburrow, stillInDanger, irradiated func(gameapi.UnitID) bool, unburrow func(gameapi.UnitID)) {
	for id, since := range r.burrowedForSafety {
		if gone(id) || forcedUnburrow(id) {
			delete(r.burrowedForSafety, id)
			continue
		}
		if stillInDanger(id) {
			r.burrowedForSafety[id] = frame
			continue
		}
		if frame-since >= safeFrames && !irradiated(id) {
			unburrow(id)
			delete(r.burrowedForSafety, id)
		}
	}
}

// BuilderCandidate implements the builder-selection priority order used
// when a building advances from Unassigned to Assigned. Returns
// (worker, wait, found):
// wait=true means a posted/encumbered worker will free up next frame and
// the caller should retry rather than pick a distant substitute.
func BuilderCandidate(isGasSteal bool, scoutWorker gameapi.UnitID, hasScout bool, postedNearBusy bool, near []Candidate, anywhere []Candidate, sameBaseRadius float64, allowCarryingProtoss bool) (gameapi.UnitID, bool, bool) {
	if isGasSteal && hasScout {
		return scoutWorker, false, true
	}
	if postedNearBusy {
		return 0, true, false
	}
	for _, c := range near {
		if c.Dist <= sameBaseRadius && (!c.Carrying || allowCarryingProtoss) {
			return c.ID, false, true
		}
	}
	for _, c := range near {
		if c.Dist <= sameBaseRadius && c.Carrying {
			return 0, true, false
		}
	}
	if len(anywhere) > 0 {
		return anywhere[0].ID, false, true
	}
	return 0, false, false
}

// Candidate is a builder option: its distance to the target tile and
// whether it is currently carrying cargo.
type Candidate struct {
	ID       gameapi.UnitID
	Dist     float64
	Carrying bool
}

// NewCandidate constructs a builder candidate.
func NewCandidate(id gameapi.UnitID, dist float64, carrying bool) Candidate {
	return Candidate{ID: id, Dist: dist, Carrying: carrying}
}

// Tunables for the per-frame rebalance cycle below. Kept as named constants
// rather than macroconfig fields since they're fixed engine-derived
// thresholds, not values a bot author would want to retune per race.
const (
	blockingMineralsCheckPeriod = 49
	blockingMineralsMinWorkers  = 18
	blockingMineralsMinBases    = 2

	selfDefenseMiningRadius = 200.0
	selfDefenseMeleeRadius  = 64.0

	returnCargoRadius = 600.0

	postedMoveBackTiles = 8

	repairDivisor = 6
)

// RebalanceInputs bundles the live per-frame observations the rebalance
// cycle needs but this package doesn't own: positions, nearby threats,
// damaged structures, and the command primitives (attack/flee/move/repair).
// Every field is independently optional — a step whose closures are nil is
// skipped rather than panicking, the same partial-bridge tolerance Hooks
// uses elsewhere.
type RebalanceInputs struct {
	// Pos returns a unit's current position.
	Pos func(gameapi.UnitID) (geometry.Pixel, bool)

	// NearestThreat returns the nearest enemy combat unit within
	// searchRadius of pos, if any.
	NearestThreat func(pos geometry.Pixel, searchRadius float64) (threatPos geometry.Pixel, ok bool)
	// NearestMeleeAttacker returns a melee-range enemy unit within
	// searchRadius of pos and whether it is currently moving.
	NearestMeleeAttacker func(pos geometry.Pixel, searchRadius float64) (target gameapi.UnitID, targetPos geometry.Pixel, moving bool, ok bool)
	Attack               func(worker, target gameapi.UnitID)
	Flee                 func(worker gameapi.UnitID, awayFrom geometry.Pixel)

	// BlockingMinerals lists mineral patches currently sitting on a planned
	// building's footprint and needing one worker each to mine out.
	BlockingMinerals func() []gameapi.UnitID
	FreeForUnblock   func(near geometry.Pixel) (gameapi.UnitID, bool)
	Unblock          func(worker, patch gameapi.UnitID)

	DepotPos    func(depot gameapi.UnitID) (geometry.Pixel, bool)
	ReturnCargo func(worker gameapi.UnitID)

	DamagedBunkers func() []gameapi.UnitID
	DamagedTurrets func() []gameapi.UnitID
	DamagedOther   func() []gameapi.UnitID
	BelowHalfHP    func(gameapi.UnitID) bool
	Repair         func(worker, target gameapi.UnitID)

	PostPos func(w *Worker) (geometry.Pixel, bool)
	MoveTo  func(worker gameapi.UnitID, to geometry.Pixel)

	TotalSCVs func() int
	BaseCount func() int
	AssignIdle func(w *Worker) bool
}

// ShouldCheckBlockingMinerals implements the step-2 cadence gate: the scan
// only runs once every blockingMineralsCheckPeriod frames, and only once the
// economy is big enough (>= 18 workers across >= 2 bases) that pulling one
// off mining to unblock a footprint won't starve production.
func ShouldCheckBlockingMinerals(frame, totalWorkers, baseCount int) bool {
	return frame%blockingMineralsCheckPeriod == 0 &&
		totalWorkers >= blockingMineralsMinWorkers &&
		baseCount >= blockingMineralsMinBases
}

// ShouldAttackInsteadOfFlee implements the self-defense override: a mining
// worker attacks rather than flees when it is still close to its patch and
// the threat is a stationary melee unit already in range — fleeing would
// just eat a hit on the way out.
func ShouldAttackInsteadOfFlee(distToPatch, distToTarget float64, targetMoving bool) bool {
	return distToPatch <= selfDefenseMiningRadius && distToTarget <= selfDefenseMeleeRadius && !targetMoving
}

// ShouldReturnCargoNow implements the step-5 return-cargo distance check: a
// carrying worker only gets an explicit ReturnCargo re-issue once it is
// close enough to its depot that the order will stick without wandering.
func ShouldReturnCargoNow(distToDepot float64) bool {
	return distToDepot <= returnCargoRadius
}

// RepairerCap implements the step-6 repair-party size limit:
// floor(totalSCVs/6)+1 workers may be off mining on repair duty at once.
func RepairerCap(totalSCVs int) int {
	return totalSCVs/repairDivisor + 1
}

// NeedsPostedMoveBack implements the step-7 posted-worker drift check: a
// worker holding a post (e.g. a gas-steal sentry or scouted choke watcher)
// gets walked back once it has drifted more than postedMoveBackTiles tiles
// from its assigned spot.
func NeedsPostedMoveBack(distFromPost float64) bool {
	return distFromPost > postedMoveBackTiles*geometry.TileSize
}

// Schedule runs the per-frame rebalance cycle: reset this frame's busy
// latch, free a worker to clear a mineral patch blocking a building
// footprint, let idle workers claim a job, bring cargo-carriers home,
// dispatch repairs, defend against a stationary melee attacker instead of
// fleeing it, and walk posted workers back onto their post. Each sub-step
// degrades to a no-op when its RebalanceInputs closures are nil.
func (r *Registry) Schedule(frame int, in RebalanceInputs) {
	for _, w := range r.workers {
		w.BusyThisFrame = false
	}

	r.scheduleBlockingMinerals(frame, in)
	r.scheduleIdle(in)
	r.scheduleReturnCargo(in)
	r.scheduleRepairs(in)
	r.scheduleSelfDefense(in)
	r.schedulePostedMoveBack(in)
}

func (r *Registry) scheduleBlockingMinerals(frame int, in RebalanceInputs) {
	if in.BlockingMinerals == nil || in.FreeForUnblock == nil || in.Unblock == nil || in.Pos == nil {
		return
	}
	total, bases := 0, 0
	if in.TotalSCVs != nil {
		total = in.TotalSCVs()
	}
	if in.BaseCount != nil {
		bases = in.BaseCount()
	}
	if !ShouldCheckBlockingMinerals(frame, total, bases) {
		return
	}
	for _, patch := range in.BlockingMinerals() {
		pos, ok := in.Pos(patch)
		if !ok {
			continue
		}
		id, ok := in.FreeForUnblock(pos)
		if !ok {
			continue
		}
		w, ok := r.workers[id]
		if !ok || w.BusyThisFrame {
			continue
		}
		r.clearJobIndices(w)
		w.Job = JobUnblock
		w.UnblockTile = geometry.Tile{X: pos.X / geometry.TileSize, Y: pos.Y / geometry.TileSize}
		w.BusyThisFrame = true
		in.Unblock(id, patch)
	}
}

func (r *Registry) scheduleIdle(in RebalanceInputs) {
	if in.AssignIdle == nil {
		return
	}
	for _, w := range r.workers {
		if w.BusyThisFrame || w.Job != JobIdle {
			continue
		}
		if in.AssignIdle(w) {
			w.BusyThisFrame = true
		}
	}
}

func (r *Registry) scheduleReturnCargo(in RebalanceInputs) {
	if in.Pos == nil || in.DepotPos == nil || in.ReturnCargo == nil {
		return
	}
	for _, w := range r.workers {
		if w.BusyThisFrame || w.Job != JobReturnCargo {
			continue
		}
		pos, ok := in.Pos(w.ID)
		if !ok {
			continue
		}
		depotPos, ok := in.DepotPos(w.Depot)
		if !ok {
			continue
		}
		if ShouldReturnCargoNow(pos.Dist(depotPos)) {
			in.ReturnCargo(w.ID)
			w.BusyThisFrame = true
		}
	}
}

func (r *Registry) scheduleRepairs(in RebalanceInputs) {
	if in.Repair == nil {
		return
	}
	total := 0
	if in.TotalSCVs != nil {
		total = in.TotalSCVs()
	}
	repairCap := RepairerCap(total)

	assigned := 0
	for _, w := range r.workers {
		if w.Job == JobRepair {
			assigned++
		}
	}

	assign := func(targets []gameapi.UnitID) {
		for _, target := range targets {
			if assigned >= repairCap {
				return
			}
			var repairer *Worker
			for _, w := range r.workers {
				if w.BusyThisFrame || w.Job == JobRepair {
					continue
				}
				if w.Job != JobMinerals && w.Job != JobIdle {
					continue
				}
				repairer = w
				break
			}
			if repairer == nil {
				return
			}
			r.clearJobIndices(repairer)
			repairer.Job = JobRepair
			repairer.RepairTarget = target
			repairer.BusyThisFrame = true
			in.Repair(repairer.ID, target)
			assigned++
		}
	}

	if in.DamagedBunkers != nil {
		assign(in.DamagedBunkers())
	}
	if in.DamagedTurrets != nil {
		assign(in.DamagedTurrets())
	}
	if in.DamagedOther != nil && in.BelowHalfHP != nil {
		var below []gameapi.UnitID
		for _, id := range in.DamagedOther() {
			if in.BelowHalfHP(id) {
				below = append(below, id)
			}
		}
		assign(below)
	}
}

func (r *Registry) scheduleSelfDefense(in RebalanceInputs) {
	if in.Pos == nil || in.NearestThreat == nil {
		return
	}
	for _, w := range r.workers {
		if w.BusyThisFrame || w.Job != JobMinerals && w.Job != JobGas {
			continue
		}
		pos, ok := in.Pos(w.ID)
		if !ok {
			continue
		}
		threatPos, inRange := in.NearestThreat(pos, selfDefenseMiningRadius)
		if !inRange {
			continue
		}
		if in.NearestMeleeAttacker != nil && in.Attack != nil {
			target, targetPos, moving, found := in.NearestMeleeAttacker(pos, selfDefenseMeleeRadius)
			patchPos, hasPatch := in.Pos(w.Patch)
			if found && w.Job == JobMinerals && hasPatch && ShouldAttackInsteadOfFlee(pos.Dist(patchPos), pos.Dist(targetPos), moving) {
				in.Attack(w.ID, target)
				w.BusyThisFrame = true
				continue
			}
		}
		if in.Flee != nil {
			in.Flee(w.ID, threatPos)
			w.BusyThisFrame = true
		}
	}
}

func (r *Registry) schedulePostedMoveBack(in RebalanceInputs) {
	if in.Pos == nil || in.PostPos == nil || in.MoveTo == nil {
		return
	}
	for _, w := range r.workers {
		if w.BusyThisFrame || w.Job != JobPosted && w.Job != JobPostedBuild {
			continue
		}
		pos, ok := in.Pos(w.ID)
		if !ok {
			continue
		}
		postPos, ok := in.PostPos(w)
		if !ok {
			continue
		}
		if NeedsPostedMoveBack(pos.Dist(postPos)) {
			in.MoveTo(w.ID, postPos)
			w.BusyThisFrame = true
		}
	}
}
