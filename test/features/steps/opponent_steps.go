package steps

import (
	"github.com/cucumber/godog"

	"github.com/1siamBot/bwmacro/internal/opponent"
)

type opponentContext struct {
	recognizer *opponent.Recognizer
	proxySeen  bool
	plan       opponent.Plan
}

// InitializeOpponentScenario wires the proxy-recognition scenario.
func InitializeOpponentScenario(sc *godog.ScenarioContext) {
	ctx := &opponentContext{}

	sc.Given(`^an enemy building appears within range of our main$`, ctx.givenProxyBuildingSeen)
	sc.When(`^the opponent plan recognizer classifies the game$`, ctx.whenClassify)
	sc.Then(`^the recognized plan is Proxy$`, ctx.thenPlanIsProxy)
}

func (c *opponentContext) givenProxyBuildingSeen() error {
	c.recognizer = opponent.NewRecognizer()
	c.proxySeen = true
	return nil
}

func (c *opponentContext) whenClassify() error {
	c.plan = c.recognizer.Classify(opponent.Observations{ProxyBuildingSeen: c.proxySeen})
	return nil
}

func (c *opponentContext) thenPlanIsProxy() error {
	if c.plan != opponent.PlanProxy {
		return godogError("expected the recognized plan to be Proxy")
	}
	return nil
}
