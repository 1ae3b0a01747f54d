// Package gameapi declares the external collaborators the macro core
// consumes but never implements: the game engine bridge, the map-analysis
// service, the opponent model, and the scout/combat controllers.
// Every domain package takes these as constructor arguments so the core
// stays testable without a real game connection — see Fake below.
package gameapi

import "github.com/1siamBot/bwmacro/internal/geometry"

// PlayerID identifies a player slot. Owner values below reuse it with two
// reserved constants for neutral and "no owner yet".
type PlayerID int

const (
	NeutralPlayer PlayerID = -1
	NoPlayer      PlayerID = -2
)

// UnitID identifies one in-game unit for the lifetime of the game.
type UnitID int

// UnitType is an opaque identifier the engine assigns per unit kind
// (building, worker, combat unit, addon...). The macro core never interprets
// its numeric value itself; it only compares it and passes it back to the
// engine or to lookup tables owned by the production package.
type UnitType int

// Unit is a read-only snapshot of one unit's observable state for the
// current frame.
type Unit struct {
	ID                  UnitID
	Type                UnitType
	Owner               PlayerID
	Position            geometry.Pixel
	Tile                geometry.Tile
	HP, Shields         int
	RemainingBuildTime  int
	IsLifted            bool
	IsCloaked           bool
	IsDetected           bool
	IsBurrowed          bool
	IsCarryingMinerals  bool
	IsCarryingGas       bool
	IsTraining          bool
	IsUpgrading         bool
	IsResearching       bool
	IsBeingConstructed  bool
	Addon               UnitType
	LastCommandFrame    int
	OrderTargetPosition geometry.Pixel
}

// PlayerResources is one player's economy snapshot for the current frame.
type PlayerResources struct {
	Minerals    int
	Gas         int
	SupplyUsed  int
	SupplyTotal int
}

// Bullet is a read-only snapshot of an in-flight projectile, exposed for
// components (e.g. danger response) that react to incoming fire rather than
// unit proximity alone.
type Bullet struct {
	Type       UnitType
	Position   geometry.Pixel
	Owner      PlayerID
	Target     UnitID
	AngleDeg   float64
	RemoveTime int
}

// Game is the read/write bridge to the running match: per-frame
// observations plus unit-level command issuance. The macro core
// never blocks on it — every method must return within the frame budget.
type Game interface {
	Self() PlayerID
	Enemy() PlayerID
	Neutral() PlayerID

	Resources(p PlayerID) PlayerResources

	UnitsOf(p PlayerID) []Unit
	AllUnits() []Unit
	Minerals() []Unit
	Geysers() []Unit
	StartingLocations() []geometry.Tile

	MapWidthTiles() int
	MapHeightTiles() int
	IsBuildable(t geometry.Tile) bool
	IsWalkable(wx, wy int) bool
	IsVisible(t geometry.Tile) bool
	IsExplored(t geometry.Tile) bool
	HasCreep(t geometry.Tile) bool

	UnitsOnTile(t geometry.Tile) []Unit
	ClosestUnit(from geometry.Pixel, filter func(Unit) bool) (Unit, bool)
	Bullets() []Bullet

	Move(u UnitID, to geometry.Pixel)
	AttackUnit(u UnitID, target UnitID)
	AttackMove(u UnitID, to geometry.Pixel)
	RightClick(u UnitID, target UnitID)
	Gather(u UnitID, resource UnitID)
	ReturnCargo(u UnitID)
	Build(u UnitID, t UnitType, at geometry.Tile)
	Make(t UnitType)
	CancelConstruction(u UnitID)
	Lift(u UnitID)
	Burrow(u UnitID)
	Unburrow(u UnitID)
	Repair(u UnitID, target UnitID)
	Research(u UnitID, techID int)
	Upgrade(u UnitID, upgradeID int)
	UseTech(u UnitID, techID int, target UnitID)
}

// MapAnalysis is the read-only map-analysis service: walkability
// partitions, zone ids, and distance queries the core consumes but never
// computes itself.
type MapAnalysis interface {
	ZoneID(t geometry.Tile) int
	PartitionID(t geometry.Tile) int
	DistanceToBase(t geometry.Tile, baseID int) float64
	ClosestTilesTo(p geometry.Tile, candidates []geometry.Tile) []geometry.Tile
	GroundDistance(a, b geometry.Tile) float64
}

// MatchupRecord is one historical result against a specific opponent/race
// pairing, as persisted opponent-model data.
type MatchupRecord struct {
	OpponentName string
	Wins, Losses int
}

// OpponentHistory is the opponent-model collaborator consumed (not owned)
// by StrategyCoordinator's opening-book bias.
type OpponentHistory interface {
	Matchup(opponentName string) (MatchupRecord, bool)
	BestGuessPlan(opponentName string) (string, bool)
}

// ScoutController is the bi-directional scout collaborator.
type ScoutController interface {
	SetGasSteal(enabled bool)
	SetScoutCommand(cmd string)
	ReleaseScoutWorker()
	WorkerScout() (UnitID, bool)
	GasStealOver() bool
}

// CombatController is the bi-directional combat collaborator.
type CombatController interface {
	SetAggression(aggressive bool)
	PullWorkers(n int)
	ReleaseWorkers()
	SetGeneralLurkerTactic(tactic int)
}
