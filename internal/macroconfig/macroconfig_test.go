package macroconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1siamBot/bwmacro/internal/macroconfig"
)

func TestDefaultMatchesSpecLiterals(t *testing.T) {
	cfg := macroconfig.Default()
	assert.Equal(t, 3, cfg.WorkersPerRefinery)
	assert.Equal(t, 3.0, cfg.WorkersPerPatch)
	assert.Equal(t, 75, cfg.AbsoluteMaxWorkers)
	assert.Equal(t, 1, cfg.BuildingSpacing)
	assert.Equal(t, 3, cfg.PylonSpacing)
	assert.Equal(t, 360, cfg.ProductionJamFrameLimit)
}

func TestPerRaceFallsBackToDefault(t *testing.T) {
	p := macroconfig.NewPerRace(3)
	assert.Equal(t, 3, p.For(macroconfig.RaceZerg))

	p.Override(macroconfig.RaceZerg, 1)
	assert.Equal(t, 1, p.For(macroconfig.RaceZerg))
	assert.Equal(t, 3, p.For(macroconfig.RaceTerran))
}
