// Package resource tracks mineral patches and gas geysers: their
// last-known amount, the frame that amount was observed, and whether a
// patch has mined out.
package resource

import "github.com/1siamBot/bwmacro/internal/gameapi"

// Kind distinguishes a mineral patch from a gas geyser.
type Kind int

const (
	KindMineral Kind = iota
	KindGeyser
)

// Resource is one tracked mineral patch or geyser.
type Resource struct {
	Unit           gameapi.UnitID
	Kind           Kind
	Tile           [2]int
	LastAmount     int
	LastSeenFrame  int
	Destroyed      bool
	TakenByRefinery gameapi.UnitID
	taken           bool
}

// Taken reports whether a geyser is currently covered by a refinery
// building. Always false for mineral patches.
func (r *Resource) Taken() bool { return r.taken }

// MarkTaken records that refinery now covers this geyser.
func (r *Resource) MarkTaken(refinery gameapi.UnitID) {
	r.taken = true
	r.TakenByRefinery = refinery
}

// MarkFree clears the taken state, e.g. when the refinery is destroyed.
func (r *Resource) MarkFree() {
	r.taken = false
	r.TakenByRefinery = 0
}

// Tracker owns every Resource discovered at game start and updates their
// observed state each frame.
type Tracker struct {
	byUnit map[gameapi.UnitID]*Resource
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{byUnit: make(map[gameapi.UnitID]*Resource)}
}

// Add registers a newly discovered resource. Called once per mineral patch
// and geyser during BaseRegistry's startup discovery pass.
func (t *Tracker) Add(u gameapi.Unit, kind Kind) *Resource {
	r := &Resource{
		Unit:          u.ID,
		Kind:          kind,
		Tile:          [2]int{u.Tile.X, u.Tile.Y},
		LastAmount:    0,
		LastSeenFrame: 0,
	}
	t.byUnit[u.ID] = r
	return r
}

// Get looks up a tracked resource by its unit ID.
func (t *Tracker) Get(id gameapi.UnitID) (*Resource, bool) {
	r, ok := t.byUnit[id]
	return r, ok
}

// All returns every tracked resource, in no particular order.
func (t *Tracker) All() []*Resource {
	out := make([]*Resource, 0, len(t.byUnit))
	for _, r := range t.byUnit {
		out = append(out, r)
	}
	return out
}

// Observe updates last-known amount/frame for every resource currently
// visible, and marks a mineral patch destroyed once it is seen with zero
// remaining amount. amountOf and visible are supplied by the caller since
// the amount and visibility of a neutral resource unit aren't part of
// gameapi.Unit's owner-keyed snapshot.
func (t *Tracker) Observe(frame int, visible map[gameapi.UnitID]bool, amountOf map[gameapi.UnitID]int) {
	for id, r := range t.byUnit {
		if !visible[id] {
			continue
		}
		amt := amountOf[id]
		r.LastAmount = amt
		r.LastSeenFrame = frame
		if r.Kind == KindMineral && amt <= 0 {
			r.Destroyed = true
		}
	}
}
