package oppmodel_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/bwmacro/internal/oppmodel"
)

func TestParseLineSplitsNameAndData(t *testing.T) {
	rec, err := oppmodel.ParseLine("matchup: foo 3 1")
	require.NoError(t, err)
	assert.Equal(t, "matchup", rec.Name)
	assert.Equal(t, "foo 3 1", rec.Data)
}

func TestParseLineRejectsMissingColon(t *testing.T) {
	_, err := oppmodel.ParseLine("not a record")
	assert.Error(t, err)
}

func TestReadSkipsMalformedLinesButKeepsGoodOnes(t *testing.T) {
	input := "matchup: bob 2 0\nthis is garbage\nskillA: somedata\n"
	records, err := oppmodel.Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "matchup", records[0].Name)
	assert.Equal(t, "skillA", records[1].Name)
}

func TestModelRoundTrip(t *testing.T) {
	m := oppmodel.NewModel()
	m.RecordResult("bob", true)
	m.RecordResult("bob", false)
	m.Skills["gassteal"] = "17 used"

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))

	loaded, err := oppmodel.LoadModel(&buf)
	require.NoError(t, err)

	mu, ok := loaded.Matchups["bob"]
	require.True(t, ok)
	assert.Equal(t, 1, mu.Wins)
	assert.Equal(t, 1, mu.Losses)
	assert.Equal(t, "17 used", loaded.Skills["gassteal"])
}

func TestMatchupSatisfiesOpponentHistoryShape(t *testing.T) {
	m := oppmodel.NewModel()
	m.RecordResult("alice", true)

	rec, ok := m.Matchup("alice")
	require.True(t, ok)
	assert.Equal(t, "alice", rec.OpponentName)
	assert.Equal(t, 1, rec.Wins)
}

func TestRunIDIsUnique(t *testing.T) {
	a := oppmodel.RunID()
	b := oppmodel.RunID()
	assert.NotEqual(t, a, b)
}
