package steps

import (
	"github.com/cucumber/godog"

	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/resource"
)

type resourceContext struct {
	tracker *resource.Tracker
	patch   *resource.Resource
}

// InitializeResourceScenario wires the mineral-patch destruction scenario.
func InitializeResourceScenario(sc *godog.ScenarioContext) {
	ctx := &resourceContext{}

	sc.Given(`^a tracked mineral patch with 0 remaining minerals becomes visible$`, ctx.givenDepletedPatchVisible)
	sc.Then(`^the patch is marked destroyed$`, ctx.thenPatchDestroyed)
}

func (c *resourceContext) givenDepletedPatchVisible() error {
	c.tracker = resource.NewTracker()
	c.patch = c.tracker.Add(gameapi.Unit{ID: 1}, resource.KindMineral)
	c.tracker.Observe(1, map[gameapi.UnitID]bool{1: true}, map[gameapi.UnitID]int{1: 0})
	return nil
}

func (c *resourceContext) thenPatchDestroyed() error {
	if !c.patch.Destroyed {
		return errNotDestroyed
	}
	return nil
}

var errNotDestroyed = godogError("expected the mineral patch to be marked destroyed")

type godogError string

func (e godogError) Error() string { return string(e) }
