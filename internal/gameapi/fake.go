package gameapi

import "github.com/1siamBot/bwmacro/internal/geometry"

// Fake is an in-memory Game implementation for tests. Every field is
// exported and mutated directly by the test setting up a scenario; no
// method does anything beyond reading or recording into these fields.
type Fake struct {
	SelfID, EnemyID PlayerID

	Resource     map[PlayerID]PlayerResources
	UnitsByOwner map[PlayerID][]Unit
	MineralList  []Unit
	GeyserList   []Unit
	StartTiles   []geometry.Tile

	Width, Height int
	Buildable     map[geometry.Tile]bool
	Walkable      map[[2]int]bool
	Visible       map[geometry.Tile]bool
	Explored      map[geometry.Tile]bool
	Creep         map[geometry.Tile]bool
	BulletList    []Bullet

	// Commands records every issued command for assertions, in issue order.
	Commands []string
}

// NewFake returns a Fake with every map initialized and Self/Enemy set to
// 0/1.
func NewFake() *Fake {
	return &Fake{
		SelfID:       0,
		EnemyID:      1,
		Resource:     make(map[PlayerID]PlayerResources),
		UnitsByOwner: make(map[PlayerID][]Unit),
		Buildable:    make(map[geometry.Tile]bool),
		Walkable:     make(map[[2]int]bool),
		Visible:      make(map[geometry.Tile]bool),
		Explored:     make(map[geometry.Tile]bool),
		Creep:        make(map[geometry.Tile]bool),
	}
}

func (f *Fake) Self() PlayerID    { return f.SelfID }
func (f *Fake) Enemy() PlayerID   { return f.EnemyID }
func (f *Fake) Neutral() PlayerID { return NeutralPlayer }

func (f *Fake) Resources(p PlayerID) PlayerResources { return f.Resource[p] }

func (f *Fake) UnitsOf(p PlayerID) []Unit { return f.UnitsByOwner[p] }

func (f *Fake) AllUnits() []Unit {
	var all []Unit
	for _, us := range f.UnitsByOwner {
		all = append(all, us...)
	}
	return all
}

func (f *Fake) Minerals() []Unit              { return f.MineralList }
func (f *Fake) Geysers() []Unit               { return f.GeyserList }
func (f *Fake) StartingLocations() []geometry.Tile { return f.StartTiles }

func (f *Fake) MapWidthTiles() int  { return f.Width }
func (f *Fake) MapHeightTiles() int { return f.Height }

func (f *Fake) IsBuildable(t geometry.Tile) bool { return f.Buildable[t] }
func (f *Fake) IsWalkable(wx, wy int) bool       { return f.Walkable[[2]int{wx, wy}] }
func (f *Fake) IsVisible(t geometry.Tile) bool   { return f.Visible[t] }
func (f *Fake) IsExplored(t geometry.Tile) bool  { return f.Explored[t] }
func (f *Fake) HasCreep(t geometry.Tile) bool    { return f.Creep[t] }

func (f *Fake) UnitsOnTile(t geometry.Tile) []Unit {
	var out []Unit
	for _, u := range f.AllUnits() {
		if u.Tile == t {
			out = append(out, u)
		}
	}
	return out
}

func (f *Fake) ClosestUnit(from geometry.Pixel, filter func(Unit) bool) (Unit, bool) {
	best := Unit{}
	bestDist := -1.0
	found := false
	for _, u := range f.AllUnits() {
		if filter != nil && !filter(u) {
			continue
		}
		d := from.Dist(u.Position)
		if !found || d < bestDist {
			best, bestDist, found = u, d, true
		}
	}
	return best, found
}

func (f *Fake) Bullets() []Bullet { return f.BulletList }

func (f *Fake) Move(u UnitID, to geometry.Pixel)             { f.record("move", u) }
func (f *Fake) AttackUnit(u UnitID, target UnitID)           { f.record("attack-unit", u) }
func (f *Fake) AttackMove(u UnitID, to geometry.Pixel)       { f.record("attack-move", u) }
func (f *Fake) RightClick(u UnitID, target UnitID)           { f.record("right-click", u) }
func (f *Fake) Gather(u UnitID, resource UnitID)             { f.record("gather", u) }
func (f *Fake) ReturnCargo(u UnitID)                         { f.record("return-cargo", u) }
func (f *Fake) Build(u UnitID, t UnitType, at geometry.Tile) { f.record("build", u) }
func (f *Fake) Make(t UnitType)                              { f.Commands = append(f.Commands, "make") }
func (f *Fake) CancelConstruction(u UnitID)                  { f.record("cancel-construction", u) }
func (f *Fake) Lift(u UnitID)                                { f.record("lift", u) }
func (f *Fake) Burrow(u UnitID)                              { f.record("burrow", u) }
func (f *Fake) Unburrow(u UnitID)                            { f.record("unburrow", u) }
func (f *Fake) Repair(u UnitID, target UnitID)               { f.record("repair", u) }
func (f *Fake) Research(u UnitID, techID int)                { f.record("research", u) }
func (f *Fake) Upgrade(u UnitID, upgradeID int)              { f.record("upgrade", u) }
func (f *Fake) UseTech(u UnitID, techID int, target UnitID)  { f.record("use-tech", u) }

func (f *Fake) record(cmd string, u UnitID) {
	f.Commands = append(f.Commands, cmd)
}

// FakeMapAnalysis is a trivial MapAnalysis that treats the whole map as one
// zone/partition and falls back to Euclidean tile distance.
type FakeMapAnalysis struct {
	// Unreachable, if set, marks specific (a,b) pairs as having no ground
	// path, exercising the EffectiveDistance fallback in tests.
	Unreachable map[[2]geometry.Tile]bool
}

func (m *FakeMapAnalysis) ZoneID(t geometry.Tile) int      { return 0 }
func (m *FakeMapAnalysis) PartitionID(t geometry.Tile) int { return 0 }

func (m *FakeMapAnalysis) DistanceToBase(t geometry.Tile, baseID int) float64 {
	return 0
}

func (m *FakeMapAnalysis) ClosestTilesTo(p geometry.Tile, candidates []geometry.Tile) []geometry.Tile {
	out := make([]geometry.Tile, len(candidates))
	copy(out, candidates)
	return out
}

func (m *FakeMapAnalysis) GroundDistance(a, b geometry.Tile) float64 {
	if m.Unreachable[[2]geometry.Tile{a, b}] {
		return -1
	}
	return a.TileDist(b) * geometry.TileSize
}
