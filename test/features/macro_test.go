package features

import (
	"testing"

	"github.com/cucumber/godog"

	"github.com/1siamBot/bwmacro/test/features/steps"
)

func TestMacroFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"."},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	steps.InitializeResourceScenario(sc)
	steps.InitializeBaseScenario(sc)
	steps.InitializeProductionScenario(sc)
	steps.InitializeOpponentScenario(sc)
}
