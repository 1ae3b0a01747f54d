// Package intel remembers last-known enemy units (including out-of-sight),
// infers tech capability latches, and records timing observations.
package intel

import "github.com/1siamBot/bwmacro/internal/gameapi"

// Record is one enemy unit's last-known state.
type Record struct {
	Type                 gameapi.UnitType
	Position             gameapi.Unit
	HP, Shields          int
	Completed            bool
	PredictedCompleteFrame int
	Burrowed             bool
	Lifted               bool
	GoneFromLastPosition bool
}

// Latches are the capability flags that, once set, never clear within a
// game. Each bool field corresponds 1:1 to a named latch.
type Latches struct {
	EnemyHasCombatUnits      bool
	EnemyHasStaticAntiAir    bool
	EnemyHasAntiAir          bool
	EnemyHasAirTech          bool
	EnemyHasCloakTech        bool
	EnemyCloakedUnitsSeen    bool
	EnemyHasMobileCloakTech  bool
	EnemyHasAirCloakTech     bool
	EnemyHasOverlordHunters  bool
	EnemyHasStaticDetection  bool
	EnemyHasMobileDetection  bool
	EnemyHasSiegeMode        bool
	EnemyHasStorm            bool
}

// Tracker owns every enemy Record and the derived latches.
type Tracker struct {
	records map[gameapi.UnitID]*Record
	Latches Latches

	gasTimingFrame int
	gasTimingSet   bool
}

// NewTracker returns a Tracker with enemyHasMobileDetection pre-set if the
// enemy's race is known to be zerg — zerg always has mobile detection via
// overlords.
func NewTracker(enemyIsZerg bool) *Tracker {
	t := &Tracker{records: make(map[gameapi.UnitID]*Record)}
	t.Latches.EnemyHasMobileDetection = enemyIsZerg
	return t
}

// Observe refreshes (or creates) the record for a visible enemy unit.
func (t *Tracker) Observe(u gameapi.Unit, frame int) *Record {
	r, ok := t.records[u.ID]
	if !ok {
		r = &Record{}
		t.records[u.ID] = r
	}
	r.Type = u.Type
	r.Position = u
	r.HP, r.Shields = u.HP, u.Shields
	r.Completed = !u.IsBeingConstructed
	r.PredictedCompleteFrame = frame + u.RemainingBuildTime
	r.Burrowed = u.IsBurrowed
	r.Lifted = u.IsLifted
	r.GoneFromLastPosition = false
	return r
}

// MarkGone runs the "tile visible, recorded unit not there" sweep for a
// single record. Burrowing units and lurkers are exempt, since they're
// expected to vanish from sight without having actually moved.
func (t *Tracker) MarkGone(id gameapi.UnitID, isLurker bool) {
	r, ok := t.records[id]
	if !ok || r.Burrowed || isLurker {
		return
	}
	r.GoneFromLastPosition = true
}

// Get returns the tracked record for an enemy unit, if any.
func (t *Tracker) Get(id gameapi.UnitID) (*Record, bool) {
	r, ok := t.records[id]
	return r, ok
}

// All returns every tracked record.
func (t *Tracker) All() map[gameapi.UnitID]*Record { return t.records }

// UpdateLatches sweeps every known enemy unit (visible or inferred-present)
// against the capability predicates and sets the corresponding latch once
// any match is found. predicate functions are supplied by the caller
// because the concrete type-to-capability mapping is race/unit-type data
// this package doesn't own.
func (t *Tracker) UpdateLatches(
	hasCombatUnit, hasStaticAA, hasAA, hasAirTech, hasCloakTech, cloakedSeen,
	hasMobileCloak, hasAirCloak, hasOverlordHunter, hasStaticDet, hasMobileDet,
	hasSiege, hasStorm func(gameapi.UnitType) bool,
) {
	for _, r := range t.records {
		ut := r.Type
		l := &t.Latches
		l.EnemyHasCombatUnits = l.EnemyHasCombatUnits || hasCombatUnit(ut)
		l.EnemyHasStaticAntiAir = l.EnemyHasStaticAntiAir || hasStaticAA(ut)
		l.EnemyHasAntiAir = l.EnemyHasAntiAir || hasAA(ut)
		l.EnemyHasAirTech = l.EnemyHasAirTech || hasAirTech(ut)
		l.EnemyHasCloakTech = l.EnemyHasCloakTech || hasCloakTech(ut)
		l.EnemyCloakedUnitsSeen = l.EnemyCloakedUnitsSeen || cloakedSeen(ut)
		l.EnemyHasMobileCloakTech = l.EnemyHasMobileCloakTech || hasMobileCloak(ut)
		l.EnemyHasAirCloakTech = l.EnemyHasAirCloakTech || hasAirCloak(ut)
		l.EnemyHasOverlordHunters = l.EnemyHasOverlordHunters || hasOverlordHunter(ut)
		l.EnemyHasStaticDetection = l.EnemyHasStaticDetection || hasStaticDet(ut)
		l.EnemyHasMobileDetection = l.EnemyHasMobileDetection || hasMobileDet(ut)
		l.EnemyHasSiegeMode = l.EnemyHasSiegeMode || hasSiege(ut)
		l.EnemyHasStorm = l.EnemyHasStorm || hasStorm(ut)
	}
}

// NoteGasCost latches the first frame any enemy unit type with nonzero gas
// cost was observed.
func (t *Tracker) NoteGasCost(frame int) {
	if !t.gasTimingSet {
		t.gasTimingFrame = frame
		t.gasTimingSet = true
	}
}

// GasTimingFrame returns the latched frame, or (-1, false) if unset.
func (t *Tracker) GasTimingFrame() (int, bool) {
	if !t.gasTimingSet {
		return -1, false
	}
	return t.gasTimingFrame, true
}

// ObserveBullets runs the bullet scan, latching EnemyHasStorm when
// a psionic-storm bullet is seen.
func (t *Tracker) ObserveBullets(bullets []gameapi.Bullet, isStormBullet func(gameapi.UnitType) bool) {
	for _, b := range bullets {
		if isStormBullet(b.Type) {
			t.Latches.EnemyHasStorm = true
		}
	}
}
