// Package core constructs every macro-core subsystem once per game and
// sequences their entry points in this data-flow order:
// observation -> InformationTracker -> BaseRegistry ownership ->
// OpponentPlanRecognizer -> StrategyCoordinator + StaticDefensePlanner ->
// ProductionScheduler -> BuildingRegistry -> WorkerScheduler -> outgoing
// commands. World is a "world context" value constructed once per game,
// the cleaner re-expression of this wiring.
//
// Anything that requires interpreting a gameapi.UnitType's meaning (which
// building is a depot, which unit signals a proxy, which bullet is a storm)
// is out of this package's scope — gameapi.UnitType is deliberately opaque
// (see gameapi.go) — so World takes those as Hooks, supplied by whatever
// bridges this core to a running match or a replay.
package core

import (
	"github.com/1siamBot/bwmacro/internal/base"
	"github.com/1siamBot/bwmacro/internal/building"
	"github.com/1siamBot/bwmacro/internal/defense"
	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/geometry"
	"github.com/1siamBot/bwmacro/internal/intel"
	"github.com/1siamBot/bwmacro/internal/macroconfig"
	"github.com/1siamBot/bwmacro/internal/opponent"
	"github.com/1siamBot/bwmacro/internal/placement"
	"github.com/1siamBot/bwmacro/internal/production"
	"github.com/1siamBot/bwmacro/internal/resource"
	"github.com/1siamBot/bwmacro/internal/strategy"
	"github.com/1siamBot/bwmacro/internal/worker"
)

// Hooks bundles every closure World needs that depends on knowledge this
// module treats as external: concrete unit-type meaning, build-order
// pattern recognition, and search heuristics owned by other (out-of-scope)
// subsystems. A hook left nil degrades its stage to a no-op rather than
// panicking, so a partial bridge (e.g. in tests) can wire only what it
// exercises.
type Hooks struct {
	// IsDepot classifies a unit type as any race's resource-depot building,
	// for BaseRegistry's per-frame ownership scan.
	IsDepot func(gameapi.UnitType) bool

	// ObserveResources reports, for this frame, which tracked resources are
	// visible and their current amount — data gameapi.Unit doesn't carry.
	ObserveResources func(frame int) (visible map[gameapi.UnitID]bool, amount map[gameapi.UnitID]int)

	// Enemy capability predicates, one per intel.Latches field.
	HasCombatUnit, HasStaticAA, HasAA, HasAirTech, HasCloakTech, CloakedSeen,
	HasMobileCloak, HasAirCloak, HasOverlordHunter, HasStaticDet, HasMobileDet,
	HasSiege, HasStorm func(gameapi.UnitType) bool
	IsStormBullet func(gameapi.UnitType) bool
	IsLurker      func(gameapi.UnitType) bool

	// Explored/SightedBuildingZone/OverlordSighted feed the enemy-start
	// inference: Explored reports whether a starting base has been ruled
	// out, SightedBuildingZone returns a starting base with a sighted enemy
	// building in it (if any this frame), OverlordSighted returns the
	// latest overlord sighting (if any) and the engine's overlord speed in
	// pixels/frame.
	Explored            func(*base.Base) bool
	SightedBuildingZone func() *base.Base
	OverlordSighted     func() (base.OverlordSighting, float64, bool)

	// ClassifyOpening turns this frame's enemy observations into
	// opponent.Observations — proxy/contain recognition and
	// rush-timing windows are build-order knowledge, not this module's.
	ClassifyOpening func(frame int) opponent.Observations

	// UrgentInputs supplies this frame's race-agnostic urgent-injection
	// checks (missing supply, starved workers, a worker emergency, an
	// impending block, reactive defense); Urgent layers any additional
	// race-specific emergency injection on top (e.g. a zerg-only
	// extractor-trick nudge) that the race-agnostic pass doesn't cover.
	UrgentInputs func(frame int) strategy.UrgentInputs
	Urgent func(q *production.Queue, race strategy.Race, group strategy.OpeningGroup)
	// ZergPlan/GoalSolverPlan supply a fresh plan once the queue empties;
	// their search/heuristics belong to the tactical brain and
	// goal solver, out of this module's scope.
	ZergPlan       func() []production.Item
	GoalSolverPlan func(group strategy.OpeningGroup) []production.Item
	GasInputs      func() strategy.GasToggleInputs
	OutOfBook      func() bool
	CurrentPlan    func() opponent.Plan

	// PlanDefense computes this frame's StaticDefensePlan and Execution
	// inputs; base categorization and combat-strength scoring
	// live with the (out-of-scope) threat-assessment subsystem.
	PlanDefense      func() (defense.Plan, defense.ExecutionInputs)
	GroundDefenseAct func(placement.MacroLocation) production.MacroAct
	AirDefenseAct    func(placement.MacroLocation) production.MacroAct
	DroneAct         func() production.MacroAct
	PrereqAct        func() production.MacroAct
	MorphCreepColony func(baseID int)
	CancelAllDefense func()

	// Production dispatch: IsBuildingType routes a MacroAct to
	// the placement/construction pipeline rather than a direct Make command;
	// ProducerReady reports whether the act's producer prerequisite exists.
	// ProducerFor resolves the producing unit ID for Tech/Upgrade/Command
	// acts, since those need a unit ID to issue against that the queue item
	// itself doesn't carry. IssueCommand dispatches ActCommand acts (e.g. a
	// zerg morph), whose string+arg payload has no matching gameapi.Game
	// method of its own.
	IsBuildingType func(gameapi.UnitType) bool
	ProducerReady  func(production.MacroAct) bool
	ProducerFor    func(production.MacroAct) (gameapi.UnitID, bool)
	IssueCommand   func(producer gameapi.UnitID, command string, arg any)
	FreeMinerals   func() int
	FreeGas        func() int
	ResourcesAvailable func() bool
	SupplyMaxed        func() bool
	SavingForTech      func() bool

	// NextSupplyCost/AvailableSupply/ZergOverlordMorphing/SupplyProviderAct
	// feed the once-per-second supply-block check; SupplyProviderAct builds
	// the overlord/pylon/depot act to push once a block is predicted.
	NextSupplyCost       func() int
	AvailableSupply      func() int
	ZergOverlordMorphing func() bool
	SupplyProviderAct    func() production.MacroAct

	// ProductionGoals maintenance: GoalCompleted/GoalFailed report terminal
	// states, AcquireGoalParent resolves a producer for a goal that doesn't
	// have one yet, ExecuteGoal issues the goal's action once its parent is
	// ready.
	GoalCompleted     func(*production.Goal) bool
	GoalFailed        func(*production.Goal) bool
	AcquireGoalParent func(*production.Goal) (gameapi.UnitID, bool)
	ExecuteGoal       func(*production.Goal) bool

	// ExistingGateways/IsGatewayAct enforce the protoss gateway hard cap on
	// any freshly solved plan before it reaches the queue.
	ExistingGateways func() int
	IsGatewayAct     func(production.MacroAct) bool

	// WantsAddon/AddonAct convert a just-completed building's addon
	// requirement into a tracked Goal once it finishes construction.
	WantsAddon func(*building.Planned) bool
	AddonAct   func(*building.Planned) production.MacroAct

	// Building placement/construction collaborators.
	ResolveLoc      func(placement.MacroLocation) (geometry.Tile, bool)
	CandidateTiles  func(hint geometry.Tile, p *building.Planned) []geometry.Tile
	AddonBlockers   func() map[geometry.Tile]bool
	BaseFootprints  func() []geometry.Rect
	Threatened      func(geometry.Tile) bool
	GroundReachable func(geometry.Tile) bool
	FindBuilder     func(*building.Planned, geometry.Tile) (gameapi.UnitID, bool)
	Arrived         func(*building.Planned) bool
	Obstructed      func(*building.Planned) bool
	MoveBuilder     func(*building.Planned)
	IssueBuild      func(*building.Planned)
	BuiltHere       func(*building.Planned) (gameapi.UnitID, bool)
	Complete        func(*building.Planned) bool
	ReplaceBuilder  func(*building.Planned)
	BuildingGone    func(*building.Planned) bool

	// WorkerEnv supplies the live positions, threats, damaged structures,
	// and command primitives worker.Schedule's rebalance cycle needs but
	// this package has no map/combat view of. Built fresh each frame since
	// its closures close over frame-local unit snapshots.
	WorkerEnv func(frame int) worker.RebalanceInputs
}

// World holds every subsystem constructed once per game, plus the external
// collaborators they were built against.
type World struct {
	Game        gameapi.Game
	MapAnalysis gameapi.MapAnalysis
	Scout       gameapi.ScoutController
	Combat      gameapi.CombatController
	History     gameapi.OpponentHistory
	Config      macroconfig.Config
	Race        strategy.Race
	EnemyIsZerg bool
	Hooks       Hooks

	Resources  *resource.Tracker
	Bases      *base.Registry
	Placer     *placement.Placer
	Buildings  *building.Registry
	Workers    *worker.Registry
	Queue      *production.Queue
	Scheduler  *production.Scheduler
	Intel      *intel.Tracker
	Recognizer *opponent.Recognizer
	Strategy   *strategy.Coordinator
	Extractor  production.ExtractorTrick
}

// NewWorld constructs every subsystem that doesn't depend on the map's
// resource layout. Bases and Placer are left nil until Bootstrap runs the
// startup discovery pass.
func NewWorld(game gameapi.Game, mapAnalysis gameapi.MapAnalysis, scout gameapi.ScoutController, combat gameapi.CombatController, history gameapi.OpponentHistory, cfg macroconfig.Config, race strategy.Race, enemyIsZerg bool, hooks Hooks) *World {
	w := &World{
		Game: game, MapAnalysis: mapAnalysis, Scout: scout, Combat: combat, History: history,
		Config: cfg, Race: race, EnemyIsZerg: enemyIsZerg, Hooks: hooks,
		Resources:  resource.NewTracker(),
		Workers:    worker.NewRegistry(),
		Queue:      production.NewQueue(),
		Intel:      intel.NewTracker(enemyIsZerg),
		Recognizer: opponent.NewRecognizer(),
		Strategy:   strategy.NewCoordinator(),
	}
	w.Scheduler = production.NewScheduler(w.Queue, cfg.ProductionJamFrameLimit)
	return w
}

func depotBuildable(game gameapi.Game, t geometry.Tile) bool {
	for dy := 0; dy < base.DepotH; dy++ {
		for dx := 0; dx < base.DepotW; dx++ {
			if !game.IsBuildable(t.Add(dx, dy)) {
				return false
			}
		}
	}
	return true
}

// Bootstrap runs the startup discovery pass: registers every
// mineral patch and geyser (with its starting amount, supplied by
// initialAmounts since gameapi.Unit carries no resource amount field), then
// clusters them into bases and builds the placement grid. Call once before
// the first Tick.
func (w *World) Bootstrap(initialAmounts map[gameapi.UnitID]int) {
	for _, u := range w.Game.Minerals() {
		r := w.Resources.Add(u, resource.KindMineral)
		r.LastAmount = initialAmounts[u.ID]
	}
	for _, u := range w.Game.Geysers() {
		r := w.Resources.Add(u, resource.KindGeyser)
		r.LastAmount = initialAmounts[u.ID]
	}

	ground := w.MapAnalysis.GroundDistance
	buildableDepotTiles := func(center geometry.Tile) []geometry.Tile {
		cfg := base.DefaultConfig()
		var out []geometry.Tile
		for dy := -cfg.PlacementSearchTiles; dy <= cfg.PlacementSearchTiles; dy++ {
			for dx := -cfg.PlacementSearchTiles; dx <= cfg.PlacementSearchTiles; dx++ {
				t := center.Add(dx, dy)
				if depotBuildable(w.Game, t) {
					out = append(out, t)
				}
			}
		}
		return out
	}

	w.Bases = base.Discover(w.Resources.All(), w.Game.StartingLocations(), buildableDepotTiles, ground, base.DefaultConfig())
	w.Placer = placement.NewPlacer(w.Game, w.MapAnalysis, w.Config.BuildingSpacing, w.Config.PylonSpacing)
	w.Buildings = building.NewRegistry(w.Placer)
}

// StageObserve implements the observation step: resource amounts, enemy
// unit records, derived capability latches, and base ownership.
func (w *World) StageObserve(frame int) error {
	if w.Hooks.ObserveResources != nil {
		visible, amount := w.Hooks.ObserveResources(frame)
		w.Resources.Observe(frame, visible, amount)
	}

	self, enemy := w.Game.Self(), w.Game.Enemy()
	for _, u := range w.Game.UnitsOf(enemy) {
		w.Intel.Observe(u, frame)
	}
	if w.Hooks.HasCombatUnit != nil {
		w.Intel.UpdateLatches(
			w.Hooks.HasCombatUnit, w.Hooks.HasStaticAA, w.Hooks.HasAA, w.Hooks.HasAirTech,
			w.Hooks.HasCloakTech, w.Hooks.CloakedSeen, w.Hooks.HasMobileCloak, w.Hooks.HasAirCloak,
			w.Hooks.HasOverlordHunter, w.Hooks.HasStaticDet, w.Hooks.HasMobileDet,
			w.Hooks.HasSiege, w.Hooks.HasStorm,
		)
	}
	if w.Hooks.IsStormBullet != nil {
		w.Intel.ObserveBullets(w.Game.Bullets(), w.Hooks.IsStormBullet)
	}

	if w.Hooks.IsDepot != nil {
		visible := func(t geometry.Tile) bool { return w.Game.IsVisible(t) }
		occupant := func(footprint []geometry.Tile) (gameapi.PlayerID, bool) {
			for _, t := range footprint {
				for _, u := range w.Game.UnitsOnTile(t) {
					if w.Hooks.IsDepot(u.Type) && !u.IsLifted {
						return u.Owner, true
					}
				}
			}
			return gameapi.NeutralPlayer, false
		}
		w.Bases.UpdateOwnership(self, enemy, visible, occupant)
		w.Bases.UpdateMain()
		w.Bases.UpdateFront(w.Race == strategy.RaceZerg)
	}
	if w.Hooks.Explored != nil {
		var zone *base.Base
		if w.Hooks.SightedBuildingZone != nil {
			zone = w.Hooks.SightedBuildingZone()
		}
		var sighting *base.OverlordSighting
		speed := 0.0
		if w.Hooks.OverlordSighted != nil {
			if s, spd, ok := w.Hooks.OverlordSighted(); ok {
				sighting, speed = &s, spd
			}
		}
		w.Bases.InferEnemyStart(w.Hooks.Explored, zone, sighting, frame, speed)
	}
	return nil
}

// StageRecognize implements opponent plan classification.
func (w *World) StageRecognize(frame int) error {
	if w.Hooks.ClassifyOpening == nil {
		return nil
	}
	w.Recognizer.Classify(w.Hooks.ClassifyOpening(frame))
	return nil
}

// StageStrategy cancels now-unnecessary static defense, runs the urgent
// injection pass (race-agnostic checks plus any race-specific layer),
// retoggles gas, and requests a fresh plan once the queue runs dry.
func (w *World) StageStrategy(frame int) error {
	var gas strategy.GasToggleInputs
	if w.Hooks.GasInputs != nil {
		gas = w.Hooks.GasInputs()
	}
	outOfBook := w.Scheduler.OutOfBook
	if w.Hooks.OutOfBook != nil {
		outOfBook = w.Hooks.OutOfBook()
	}
	plan := w.Recognizer.Current()
	if w.Hooks.CurrentPlan != nil {
		plan = w.Hooks.CurrentPlan()
	}
	cancelAll := w.Hooks.CancelAllDefense
	if cancelAll == nil {
		cancelAll = func() {}
	}
	goalSolverPlan := w.Hooks.GoalSolverPlan
	if goalSolverPlan != nil && w.Hooks.ExistingGateways != nil && w.Hooks.IsGatewayAct != nil {
		inner := goalSolverPlan
		goalSolverPlan = func(group strategy.OpeningGroup) []production.Item {
			return production.FilterGatewayCap(inner(group), w.Hooks.ExistingGateways(), w.Hooks.IsGatewayAct)
		}
	}
	var urgentIn strategy.UrgentInputs
	if w.Hooks.UrgentInputs != nil {
		urgentIn = w.Hooks.UrgentInputs(frame)
	}
	w.Strategy.Tick(w.Queue, strategy.TickInputs{
		OutOfBook: outOfBook,
		Plan:      plan,
		Gas:       gas,
		Race:      w.Race,
		Urgent:    urgentIn,
	}, cancelAll, w.Hooks.Urgent, w.Hooks.ZergPlan, goalSolverPlan)
	return nil
}

// StageDefense computes the StaticDefensePlan and enqueues its Execution
// step into the production queue.
func (w *World) StageDefense(frame int) error {
	if w.Hooks.PlanDefense == nil {
		return nil
	}
	plan, in := w.Hooks.PlanDefense()
	var droneAct, prereqAct production.MacroAct
	if w.Hooks.DroneAct != nil {
		droneAct = w.Hooks.DroneAct()
	}
	if w.Hooks.PrereqAct != nil {
		prereqAct = w.Hooks.PrereqAct()
	}
	defense.Execute(w.Queue, plan, in, w.Hooks.GroundDefenseAct, w.Hooks.AirDefenseAct, droneAct, prereqAct, w.Hooks.MorphCreepColony)
	return nil
}

// StageProduction implements the scheduler pass: reorder around a
// stuck front item, detect a production jam, detect an impending supply
// block and inject a provider, maintain the ProductionGoals list, and
// dispatch the front item once its producer is ready — either into the
// building pipeline (for buildings) or as a direct command
// (units/tech/upgrades/commands).
func (w *World) StageProduction(frame int) error {
	freeMin, freeGas := 0, 0
	if w.Hooks.FreeMinerals != nil {
		freeMin = w.Hooks.FreeMinerals()
	}
	if w.Hooks.FreeGas != nil {
		freeGas = w.Hooks.FreeGas()
	}
	w.Scheduler.ReorderCase1(freeMin)
	if w.Hooks.ProducerReady != nil {
		w.Scheduler.ReorderCase2(freeMin, freeGas, w.Hooks.ProducerReady)
	}
	if w.Hooks.ResourcesAvailable != nil && w.Hooks.SupplyMaxed != nil && w.Hooks.SavingForTech != nil {
		w.Scheduler.CheckJam(frame, w.Hooks.ResourcesAvailable(), w.Hooks.SupplyMaxed(), w.Hooks.SavingForTech())
	}
	if w.Hooks.NextSupplyCost != nil && w.Hooks.AvailableSupply != nil && w.Hooks.ZergOverlordMorphing != nil && w.Hooks.SupplyProviderAct != nil {
		w.Scheduler.CheckSupplyBlock(frame, w.Hooks.NextSupplyCost(), w.Hooks.AvailableSupply(), w.Hooks.ZergOverlordMorphing(), w.Hooks.SupplyProviderAct)
	}
	if w.Hooks.GoalCompleted != nil && w.Hooks.GoalFailed != nil && w.Hooks.AcquireGoalParent != nil && w.Hooks.ExecuteGoal != nil {
		w.Scheduler.UpdateGoals(w.Hooks.GoalCompleted, w.Hooks.GoalFailed, w.Hooks.AcquireGoalParent, w.Hooks.ExecuteGoal)
	}

	front, ok := w.Queue.PeekBack()
	if !ok || w.Hooks.ProducerReady == nil || !w.Hooks.ProducerReady(front.Act) {
		return nil
	}
	w.Queue.PopBack()
	w.Scheduler.NoteAction(frame)

	if w.Hooks.IsBuildingType != nil && w.Hooks.IsBuildingType(front.Act.UnitType) {
		w.Buildings.Create(front.Act.UnitType, geometry.Tile{}, front.Act.MacroLoc, front.GasSteal,
			front.Act.MineralCost, front.Act.GasCost, base.DepotW, base.DepotH)
		return nil
	}
	switch front.Act.Kind {
	case production.ActUnit:
		w.Game.Make(front.Act.UnitType)
	case production.ActTech:
		if w.Hooks.ProducerFor != nil {
			if producer, ok := w.Hooks.ProducerFor(front.Act); ok {
				w.Game.Research(producer, front.Act.TechType)
			}
		}
	case production.ActUpgrade:
		if w.Hooks.ProducerFor != nil {
			if producer, ok := w.Hooks.ProducerFor(front.Act); ok {
				w.Game.Upgrade(producer, front.Act.UpgradeType)
			}
		}
	case production.ActCommand:
		if w.Hooks.ProducerFor != nil && w.Hooks.IssueCommand != nil {
			if producer, ok := w.Hooks.ProducerFor(front.Act); ok {
				w.Hooks.IssueCommand(producer, front.Act.Command, front.Act.CommandArg)
			}
		}
	}
	return nil
}

// StageBuildings implements the 4-state lifecycle advance for every
// in-flight PlannedBuilding.
func (w *World) StageBuildings(frame int) error {
	if w.Hooks.ResolveLoc == nil {
		return nil
	}
	findTile := func(p *building.Planned) (geometry.Tile, bool) {
		hint, ok := w.Hooks.ResolveLoc(p.MacroLoc)
		if !ok || w.Hooks.CandidateTiles == nil {
			return geometry.Tile{}, false
		}
		candidates := w.Hooks.CandidateTiles(hint, p)
		sorted := placement.SortByGroundDistance(candidates, hint, w.MapAnalysis.GroundDistance)
		exempt := p.MacroLoc == placement.LocEnemyMain || p.MacroLoc == placement.LocEnemyNatural
		var addonBlockers map[geometry.Tile]bool
		var footprints []geometry.Rect
		if w.Hooks.AddonBlockers != nil {
			addonBlockers = w.Hooks.AddonBlockers()
		}
		if w.Hooks.BaseFootprints != nil {
			footprints = w.Hooks.BaseFootprints()
		}
		return placement.FindTile(sorted, func(t geometry.Tile) bool {
			return w.Placer.CanPlace(t, p.Width, p.Height, w.Config.BuildingSpacing, addonBlockers, footprints, exempt, w.Hooks.Threatened, w.Hooks.GroundReachable)
		})
	}

	var scout building.ScoutReleaser
	if w.Scout != nil {
		scout = w.Scout
	}
	for _, p := range w.Buildings.All() {
		switch p.Status {
		case building.StatusUnassigned:
			if w.Hooks.FindBuilder != nil {
				w.Buildings.AdvanceUnassigned(p, findTile, w.Hooks.FindBuilder)
			}
		case building.StatusAssigned:
			if w.Hooks.Arrived != nil && w.Hooks.Obstructed != nil && w.Hooks.MoveBuilder != nil && w.Hooks.IssueBuild != nil && w.Hooks.BuiltHere != nil {
				w.Buildings.AdvanceAssigned(p, w.Hooks.Arrived, w.Hooks.Obstructed, w.Hooks.MoveBuilder, w.Hooks.IssueBuild, w.Hooks.BuiltHere, scout)
			}
		case building.StatusUnderConstruction:
			if w.Hooks.Complete != nil {
				done := w.Buildings.AdvanceUnderConstruction(p, w.Hooks.Complete, func(id gameapi.UnitID) {
					if wk, ok := w.Workers.Get(id); ok {
						w.Workers.SetIdle(wk)
					}
				}, w.Hooks.ReplaceBuilder)
				if done && w.Hooks.WantsAddon != nil && w.Hooks.WantsAddon(p) && w.Hooks.AddonAct != nil {
					w.Scheduler.Goals = append(w.Scheduler.Goals, production.AddonGoal(p.Building, w.Hooks.AddonAct(p)))
				}
			}
		}
	}
	if w.Hooks.BuildingGone != nil {
		w.Buildings.DropInvalid(w.Hooks.BuildingGone)
	}
	return nil
}

// StageWorkers implements the per-frame job rebalance cycle: blocking-
// minerals clearance, idle reassignment, return-cargo, repairs, self-
// defense, and posted-worker drift correction. The orchestration itself
// lives in worker.Registry.Schedule; this stage only supplies the frame's
// live observations, since positions, threats, and damage are read from a
// gameapi.Game this package has no handle on.
func (w *World) StageWorkers(frame int) error {
	var in worker.RebalanceInputs
	if w.Hooks.WorkerEnv != nil {
		in = w.Hooks.WorkerEnv(frame)
	}
	w.Workers.Schedule(frame, in)
	return nil
}
