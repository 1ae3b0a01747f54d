// Package production implements the priority-ordered production deque, the
// tagged-union MacroAct production item, and the per-frame scheduler that
// selects producers, reserves resources, detects jams, and recognizes
// supply blocks.
package production

import (
	"github.com/1siamBot/bwmacro/internal/botlog"
	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/placement"
)

// ActKind discriminates the tagged union MacroAct is built from.
type ActKind int

const (
	ActUnit ActKind = iota
	ActTech
	ActUpgrade
	ActCommand
)

// MacroAct is a unified production item. Exactly one of UnitType/TechType/
// UpgradeType/Command is meaningful, selected by Kind — a discriminant
// field plus a switch, not a type-check per field.
type MacroAct struct {
	Kind      ActKind
	UnitType  gameapi.UnitType
	TechType  int
	UpgradeType int
	Command   string
	CommandArg any

	MacroLoc    placement.MacroLocation
	HasLoc      bool
	MineralCost int
	GasCost     int
	SupplyCost  int
	Producer    gameapi.UnitType
}

// PrereqsMet reports whether the act's producer type exists, per the
// predicate supplied by the caller — production doesn't own the tech tree,
// so the lookup is injected. Other prerequisite buildings are not checked.
func (m MacroAct) PrereqsMet(has func(gameapi.UnitType) bool) bool {
	return has(m.Producer)
}

// Item is one entry in the priority deque: a MacroAct plus its gas-steal
// flag.
type Item struct {
	Act      MacroAct
	GasSteal bool
}

// Goal is a long-running item that can take multiple attempts — research,
// upgrades, addons.
type Goal struct {
	Act        MacroAct
	Parent     gameapi.UnitID
	HasParent  bool
	Attempted  bool
}

// Queue is the back-is-highest-priority deque the describes.
type Queue struct {
	items    []Item
	modified bool
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue { return &Queue{} }

// PushBack queues act as the new highest priority.
func (q *Queue) PushBack(it Item) {
	q.items = append(q.items, it)
	q.modified = true
}

// PushFront queues act as the new lowest priority.
func (q *Queue) PushFront(it Item) {
	q.items = append([]Item{it}, q.items...)
	q.modified = true
}

// PopBack removes and returns the highest-priority item.
func (q *Queue) PopBack() (Item, bool) {
	if len(q.items) == 0 {
		return Item{}, false
	}
	it := q.items[len(q.items)-1]
	q.items = q.items[:len(q.items)-1]
	q.modified = true
	return it, true
}

// PeekBack returns the highest-priority item without removing it.
func (q *Queue) PeekBack() (Item, bool) {
	if len(q.items) == 0 {
		return Item{}, false
	}
	return q.items[len(q.items)-1], true
}

// RemoveByMatch removes every item for which match returns true.
func (q *Queue) RemoveByMatch(match func(Item) bool) {
	kept := q.items[:0]
	removed := false
	for _, it := range q.items {
		if match(it) {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	q.items = kept
	if removed {
		q.modified = true
	}
}

// PullToTop moves the item at index i (0 = lowest priority) to the back.
func (q *Queue) PullToTop(i int) {
	if i < 0 || i >= len(q.items) {
		return
	}
	it := q.items[i]
	q.items = append(q.items[:i], q.items[i+1:]...)
	q.items = append(q.items, it)
	q.modified = true
}

// Clear empties the queue.
func (q *Queue) Clear() {
	if len(q.items) > 0 {
		q.modified = true
	}
	q.items = nil
}

// Len reports the number of queued items.
func (q *Queue) Len() int { return len(q.items) }

// Items returns the queue contents from lowest to highest priority.
func (q *Queue) Items() []Item { return q.items }

// ConsumeModified reports and clears the modified latch, used by the
// scheduler to detect that a reorder or strategy injection happened mid-
// decision (the "modified" latch).
func (q *Queue) ConsumeModified() bool {
	m := q.modified
	q.modified = false
	return m
}

// ExtractorTrickState is the four-state zerg-only coroutine for dodging a
// supply block at max supply.
type ExtractorTrickState int

const (
	ExtractorNone ExtractorTrickState = iota
	ExtractorStart
	ExtractorOrdered
	ExtractorUnitOrdered
)

// ExtractorTrick drives the coroutine one frame at a time.
type ExtractorTrick struct {
	State    ExtractorTrickState
	Target   MacroAct
	bypassed bool
}

// Advance implements the four-state transition table.
// minerals/freeDrone/supplyOpen/extractorQueued/unitMorphed are frame
// snapshots the caller (zerg StrategyCoordinator) computes.
func (e *ExtractorTrick) Advance(minerals int, freeDrone bool, supplyOpenedElsewhere, extractorQueued, unitMorphed func() bool, queueExtractor, cancelExtractor, morphUnit func()) {
	switch e.State {
	case ExtractorStart:
		if minerals >= 100 && freeDrone {
			queueExtractor()
			e.State = ExtractorOrdered
		}
	case ExtractorOrdered:
		if supplyOpenedElsewhere() {
			// Bypass: supply opened via an unrelated event (e.g. an overlord
			// morph completing mid-flight). Collapse back to None without
			// double-refunding.
			if !e.bypassed {
				e.bypassed = true
				e.State = ExtractorNone
			}
			return
		}
		if extractorQueued() {
			morphUnit()
			e.State = ExtractorUnitOrdered
		}
	case ExtractorUnitOrdered:
		if unitMorphed() {
			cancelExtractor()
			e.State = ExtractorNone
			e.bypassed = false
		}
	}
}

// Start begins the coroutine for the given target unit, idempotently (a
// second Start call while already running is a no-op).
func (e *ExtractorTrick) Start(target MacroAct) {
	if e.State != ExtractorNone {
		return
	}
	e.Target = target
	e.State = ExtractorStart
	e.bypassed = false
}

// DetectSupplyBlock implements the once-per-second check: if the
// next item's supply cost exceeds available supply (after accounting for
// workers consumed by queued buildings), a supply provider must be queued
// as highest priority. zergOverlordMorphing suppresses the block for zerg
// while an overlord is already on the way.
func DetectSupplyBlock(nextSupplyCost, available int, zergOverlordMorphing bool) bool {
	if zergOverlordMorphing {
		return false
	}
	return nextSupplyCost > available
}

// Scheduler drives the Queue each frame per the ordered steps.
type Scheduler struct {
	Queue           *Queue
	Goals           []*Goal
	JamFrameLimit   int
	lastActionFrame int
	OutOfBook       bool
}

// NewScheduler returns a Scheduler bound to q with the given jam timeout
// (macroconfig.Config.ProductionJamFrameLimit).
func NewScheduler(q *Queue, jamFrameLimit int) *Scheduler {
	return &Scheduler{Queue: q, JamFrameLimit: jamFrameLimit}
}

// ReorderCase1 implements the gas-starved reorder: search up to
// lookback earlier items for a zero-gas unit whose mineral cost plus the
// front's fits free minerals and whose supply is no greater than front's;
// pull it to the back. Any front item with a gas cost is treated as
// gas-starved; free gas is not consulted.
func (s *Scheduler) ReorderCase1(freeMinerals int) bool {
	items := s.Queue.Items()
	if len(items) < 2 {
		return false
	}
	front := items[len(items)-1]
	if front.Act.Kind == ActCommand || front.Act.GasCost == 0 {
		return false
	}
	lookback := len(items) - 1
	if lookback > 5 {
		lookback = 5
	}
	for i := len(items) - 2; i >= len(items)-1-lookback && i >= 0; i-- {
		cand := items[i]
		if cand.Act.Kind != ActUnit || cand.Act.GasCost != 0 {
			continue
		}
		if cand.Act.MineralCost+front.Act.MineralCost > freeMinerals {
			continue
		}
		if cand.Act.SupplyCost > front.Act.SupplyCost {
			continue
		}
		s.Queue.PullToTop(i)
		return true
	}
	return false
}

// ReorderCase2 implements the "front blocked, later item ready"
// reorder.
func (s *Scheduler) ReorderCase2(freeMinerals, freeGas int, producerReady func(MacroAct) bool) bool {
	items := s.Queue.Items()
	if len(items) < 2 {
		return false
	}
	front := items[len(items)-1]
	lookback := len(items) - 1
	if lookback > 5 {
		lookback = 5
	}
	for i := len(items) - 2; i >= len(items)-1-lookback && i >= 0; i-- {
		cand := items[i]
		if cand.Act.MineralCost+front.Act.MineralCost > freeMinerals {
			continue
		}
		if cand.Act.GasCost+front.Act.GasCost > freeGas {
			continue
		}
		if !producerReady(cand.Act) {
			continue
		}
		s.Queue.PullToTop(i)
		return true
	}
	return false
}

// CheckJam implements the step 6g: if nothing has been produced for
// JamFrameLimit frames while resources are available, not supply-maxed, and
// not intentionally saving for a near-complete prerequisite, clear the
// queue and flag out-of-book.
func (s *Scheduler) CheckJam(frame int, resourcesAvailable, supplyMaxed, savingForTech bool) {
	if resourcesAvailable && !supplyMaxed && !savingForTech && frame-s.lastActionFrame > s.JamFrameLimit {
		botlog.Warn("production jam detected, clearing queue", botlog.F("frame", frame))
		s.Queue.Clear()
		s.OutOfBook = true
		s.lastActionFrame = frame
	}
}

// NoteAction resets the jam timer after the scheduler successfully issues a
// command.
func (s *Scheduler) NoteAction(frame int) { s.lastActionFrame = frame }

const supplyBlockCheckPeriod = 24 // roughly once per second at 24 logical frames/sec

// CheckSupplyBlock wraps DetectSupplyBlock with the once-per-second cadence
// gate and, when a block is predicted, pushes supplyProviderAct as the new
// highest-priority item.
func (s *Scheduler) CheckSupplyBlock(frame, nextSupplyCost, available int, zergOverlordMorphing bool, supplyProviderAct func() MacroAct) {
	if frame%supplyBlockCheckPeriod != 0 {
		return
	}
	if DetectSupplyBlock(nextSupplyCost, available, zergOverlordMorphing) {
		s.Queue.PushBack(Item{Act: supplyProviderAct()})
	}
}

const (
	gatewayHardCap = 10
)

// ShouldQueueGateway implements the production building hard cap: once
// existingGateways reaches gatewayHardCap, no more are queued regardless of
// how far behind the goal solver thinks the economy is.
func ShouldQueueGateway(existingGateways int) bool {
	return existingGateways < gatewayHardCap
}

// FilterGatewayCap drops any gateway act once existingGateways plus the
// gateways already accepted from this batch reaches gatewayHardCap,
// applied to a freshly solved plan before it's pushed onto the queue.
func FilterGatewayCap(items []Item, existingGateways int, isGateway func(MacroAct) bool) []Item {
	out := make([]Item, 0, len(items))
	count := existingGateways
	for _, it := range items {
		if isGateway(it.Act) {
			if !ShouldQueueGateway(count) {
				continue
			}
			count++
		}
		out = append(out, it)
	}
	return out
}

// AddonGoal converts a completed building's addon requirement into a
// trackable Goal, the same attempt/retry bookkeeping research and upgrades
// get.
func AddonGoal(parent gameapi.UnitID, addonAct MacroAct) *Goal {
	return &Goal{Act: addonAct, Parent: parent, HasParent: true}
}

// UpdateGoals implements the ProductionGoals maintenance pass: drop goals
// the caller reports as completed or failed, acquire or refresh a parent
// producer for goals still missing one, and attempt execution of every goal
// whose parent is ready. acquireParent and execute are injected since
// "which unit can serve as a parent" and "how to issue this goal" both
// require reading live unit state this package doesn't hold.
func (s *Scheduler) UpdateGoals(completed, failed func(*Goal) bool, acquireParent func(*Goal) (gameapi.UnitID, bool), execute func(*Goal) bool) {
	kept := s.Goals[:0]
	for _, g := range s.Goals {
		if completed(g) || failed(g) {
			continue
		}
		if !g.HasParent {
			if parent, ok := acquireParent(g); ok {
				g.Parent, g.HasParent = parent, true
			}
		}
		if g.HasParent && !g.Attempted {
			if execute(g) {
				g.Attempted = true
			}
		}
		kept = append(kept, g)
	}
	s.Goals = kept
}

// LarvaCandidate bundles one hatchery's larva-production inputs for
// SelectLarva's saturation/cap comparisons.
type LarvaCandidate struct {
	Larva       gameapi.UnitID
	Hatchery    gameapi.UnitID
	Saturation  float64 // workers-per-patch at this hatchery's base, lower = more in need
	UsedThisPass int    // how many larvas from this hatchery have already been spent this pass
}

// maxUnitsPerHatcheryPerPass caps how many combat units a single hatchery's
// larvas may produce in one scheduling pass, so production doesn't pile
// onto whichever base happens to be first in the candidate list.
const maxUnitsPerHatcheryPerPass = 3

// SelectLarva implements the producer-selection rule for zerg: worker
// production picks the larva at the least-saturated base (the base needing
// workers most); combat-unit production picks the larva whose hatchery has
// spent the fewest larvas this pass, skipping hatcheries that have reached
// maxUnitsPerHatcheryPerPass. How many larvas a hatchery currently holds is
// not consulted.
func SelectLarva(candidates []LarvaCandidate, forWorker bool) (gameapi.UnitID, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	if forWorker {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.Saturation < best.Saturation {
				best = c
			}
		}
		return best.Larva, true
	}
	var best *LarvaCandidate
	for i := range candidates {
		c := &candidates[i]
		if c.UsedThisPass >= maxUnitsPerHatcheryPerPass {
			continue
		}
		if best == nil || c.UsedThisPass < best.UsedThisPass {
			best = c
		}
	}
	if best == nil {
		return 0, false
	}
	return best.Larva, true
}

// DepotCandidate bundles one resource depot's distance-from-main for
// SelectWorkerProducerDepot's farthest-first preference.
type DepotCandidate struct {
	Depot             gameapi.UnitID
	DistanceFromMain  float64
}

// SelectWorkerProducerDepot implements the terran/protoss worker-producer
// preference: the depot farthest from the main, so new workers walk toward
// (rather than away from) expansions that need them.
func SelectWorkerProducerDepot(candidates []DepotCandidate) (gameapi.UnitID, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.DistanceFromMain > best.DistanceFromMain {
			best = c
		}
	}
	return best.Depot, true
}

// HatcheryCandidate bundles one hatchery's main-zone membership and
// distance from visible enemies for SelectLairMorphHatchery.
type HatcheryCandidate struct {
	Hatchery            gameapi.UnitID
	InMainZone          bool
	DistanceFromEnemies float64
}

// SelectLairMorphHatchery implements the lair-morph base choice: among
// hatcheries in the main zone, prefer the one farthest from visible
// enemies, so the lair (and the tech it unlocks) isn't put at risk by a
// forward hatchery.
func SelectLairMorphHatchery(candidates []HatcheryCandidate) (gameapi.UnitID, bool) {
	var best *HatcheryCandidate
	for i := range candidates {
		c := &candidates[i]
		if !c.InMainZone {
			continue
		}
		if best == nil || c.DistanceFromEnemies > best.DistanceFromEnemies {
			best = c
		}
	}
	if best == nil {
		return 0, false
	}
	return best.Hatchery, true
}
