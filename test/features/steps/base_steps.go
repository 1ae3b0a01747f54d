package steps

import (
	"github.com/cucumber/godog"

	"github.com/1siamBot/bwmacro/internal/base"
	"github.com/1siamBot/bwmacro/internal/gameapi"
	"github.com/1siamBot/bwmacro/internal/geometry"
	"github.com/1siamBot/bwmacro/internal/resource"
)

type baseContext struct {
	registry *base.Registry
	oldMain  *base.Base
	other    *base.Base
}

// InitializeBaseScenario wires the main-base reassignment scenario.
func InitializeBaseScenario(sc *godog.ScenarioContext) {
	ctx := &baseContext{}

	sc.Given(`^two discovered bases on opposite corners of the map$`, ctx.givenTwoBases)
	sc.Given(`^both bases are owned by us$`, ctx.givenBothOwnedByUs)
	sc.When(`^the current main base's ownership flips to the enemy$`, ctx.whenMainFlipsToEnemy)
	sc.Then(`^the farthest owned base becomes the new main$`, ctx.thenFarthestBecomesMain)
}

func (c *baseContext) givenTwoBases() error {
	tracker := resource.NewTracker()
	m1 := tracker.Add(gameapi.Unit{ID: 1, Tile: geometry.Tile{X: 1, Y: 1}}, resource.KindMineral)
	m1.LastAmount = 1000
	m2 := tracker.Add(gameapi.Unit{ID: 2, Tile: geometry.Tile{X: 90, Y: 90}}, resource.KindMineral)
	m2.LastAmount = 1000

	starts := []geometry.Tile{{X: 0, Y: 0}, {X: 89, Y: 89}}
	buildableNear := func(center geometry.Tile) []geometry.Tile { return []geometry.Tile{center} }
	ground := func(a, b geometry.Tile) float64 { return a.TileDist(b) * geometry.TileSize }

	c.registry = base.Discover(tracker.All(), starts, buildableNear, ground, base.DefaultConfig())
	return nil
}

func (c *baseContext) givenBothOwnedByUs() error {
	for _, b := range c.registry.All() {
		b.Owner = base.OwnerSelf
	}
	c.oldMain = c.registry.Main
	for _, b := range c.registry.All() {
		if b != c.oldMain {
			c.other = b
		}
	}
	return nil
}

func (c *baseContext) whenMainFlipsToEnemy() error {
	c.oldMain.Owner = base.OwnerEnemy
	c.registry.UpdateMain()
	return nil
}

func (c *baseContext) thenFarthestBecomesMain() error {
	if c.registry.Main != c.other {
		return godogError("expected the farthest owned base to be promoted to main")
	}
	return nil
}
