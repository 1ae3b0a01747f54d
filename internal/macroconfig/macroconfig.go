// Package macroconfig holds the tunables that shape worker allocation,
// building spacing, and production pacing. It is a plain struct with
// defaults, not a file format — reading these values in from disk is an
// external collaborator's job, the same split Steamhammer draws
// between Config::BotInfo (in-memory) and its own config-file reader.
package macroconfig

// Race identifies one of the three playable races, used to key per-race
// overrides.
type Race int

const (
	RaceTerran Race = iota
	RaceProtoss
	RaceZerg
)

// PerRace holds a default value plus optional overrides for specific races,
// mirroring Steamhammer's Config::BotInfo per-race tuning fields (e.g.
// separate worker-per-refinery counts for Zerg vs the other two races).
type PerRace[T any] struct {
	Default T
	byRace  map[Race]T
}

// NewPerRace builds a PerRace with the given default and no overrides.
func NewPerRace[T any](def T) PerRace[T] {
	return PerRace[T]{Default: def}
}

// Override sets a race-specific value, replacing the default for that race.
func (p *PerRace[T]) Override(r Race, v T) {
	if p.byRace == nil {
		p.byRace = make(map[Race]T)
	}
	p.byRace[r] = v
}

// For returns the value for race r: the override if set, else the default.
func (p PerRace[T]) For(r Race) T {
	if v, ok := p.byRace[r]; ok {
		return v
	}
	return p.Default
}

// Config collects every macro-core tunable named in the configuration
// table.
type Config struct {
	// WorkersPerRefinery is the number of workers assigned to saturate one
	// completed refinery/assimilator/extractor.
	WorkersPerRefinery int

	// WorkersPerPatch is the target worker count per mineral patch at a
	// base, used to compute that base's mineral-worker cap.
	WorkersPerPatch float64

	// AbsoluteMaxWorkers caps total worker production regardless of base
	// count or saturation math.
	AbsoluteMaxWorkers int

	// BuildingSpacing is the number of empty tiles left between adjacent
	// non-pylon/non-depot buildings when searching for placement.
	BuildingSpacing int

	// PylonSpacing is the minimum tile gap enforced around pylons/depots
	// acting as power/creep providers, wider than BuildingSpacing to avoid
	// boxing in production buildings.
	PylonSpacing int

	// ProductionJamFrameLimit is how many frames the head of the production
	// queue may stall before the jam-detection diagnostic fires.
	ProductionJamFrameLimit int

	// ScoutsPerGame caps how many workers are ever pulled for scouting duty
	// over the course of a game.
	ScoutsPerGame int

	// GasStealEnabled toggles whether the opening book may schedule a gas
	// steal against the scouted enemy natural.
	GasStealEnabled bool

	// ExtractorTrickEnabled toggles whether WorkerScheduler may use the
	// extractor/overlord trick to dodge a supply block.
	ExtractorTrickEnabled bool
}

// Default returns the macro-core's factory configuration, with every field
// set to its documented default value.
func Default() Config {
	return Config{
		WorkersPerRefinery:      3,
		WorkersPerPatch:         3.0,
		AbsoluteMaxWorkers:      75,
		BuildingSpacing:         1,
		PylonSpacing:            3,
		ProductionJamFrameLimit: 360,
		ScoutsPerGame:           1,
		GasStealEnabled:         true,
		ExtractorTrickEnabled:   true,
	}
}
