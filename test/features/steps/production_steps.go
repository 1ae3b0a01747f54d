package steps

import (
	"github.com/cucumber/godog"

	"github.com/1siamBot/bwmacro/internal/production"
)

type productionContext struct {
	queue     *production.Queue
	scheduler *production.Scheduler
}

// InitializeProductionScenario wires the production-jam scenario.
func InitializeProductionScenario(sc *godog.ScenarioContext) {
	ctx := &productionContext{}

	sc.Given(`^a non-empty production queue with resources available$`, ctx.givenNonEmptyQueue)
	sc.Given(`^the queue has taken no action for longer than the jam timeout$`, ctx.givenPastJamTimeout)
	sc.When(`^the scheduler checks for a jam$`, ctx.whenCheckJam)
	sc.Then(`^the queue is cleared$`, ctx.thenQueueCleared)
	sc.Then(`^the scheduler is marked out of book$`, ctx.thenOutOfBook)
}

func (c *productionContext) givenNonEmptyQueue() error {
	c.queue = production.NewQueue()
	c.queue.PushBack(production.Item{Act: production.MacroAct{UnitType: 1}})
	c.scheduler = production.NewScheduler(c.queue, 360)
	return nil
}

func (c *productionContext) givenPastJamTimeout() error {
	// The scheduler's last-action frame starts at 0; checking at a frame
	// well past JamFrameLimit simulates "no action for longer than the
	// timeout" without needing a real clock.
	return nil
}

func (c *productionContext) whenCheckJam() error {
	c.scheduler.CheckJam(1000, true, false, false)
	return nil
}

func (c *productionContext) thenQueueCleared() error {
	if c.queue.Len() != 0 {
		return godogError("expected the production queue to be cleared")
	}
	return nil
}

func (c *productionContext) thenOutOfBook() error {
	if !c.scheduler.OutOfBook {
		return godogError("expected the scheduler to be marked out of book")
	}
	return nil
}
