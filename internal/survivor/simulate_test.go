package survivor

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurvived(t *testing.T) {
	for _, s := range []string{"W", "w", " win ", "WON", "true", "T", "1", "yes", "Y\n"} {
		assert.True(t, Survived(s), "%q", s)
	}
	for _, s := range []string{"L", "LOSS", "0", "false", "", "NAN", "tie", "WW", "1.0"} {
		assert.False(t, Survived(s), "%q", s)
	}
}

func TestSimulate_TwoWeekLookahead(t *testing.T) {
	season := Season{
		1: {row("A", 70, 1, "W"), row("B", 90, 1, "L")},
		2: {row("B", 95, 1, "W")},
	}
	history, state := Simulate(season)

	require.Len(t, history, 2)
	assert.Equal(t, PickRecord{Week: 1, Team: "A", WinProbability: 70, Survived: true}, history[0])
	assert.Equal(t, PickRecord{Week: 2, Team: "B", WinProbability: 95, Survived: true}, history[1])
	assert.Equal(t, SurvivedAll, state)
}

func TestSimulate_Elimination(t *testing.T) {
	season := Season{1: {row("T", 80, 1, "L")}}
	history, state := Simulate(season)

	assert.Equal(t, History{{Week: 1, Team: "T", WinProbability: 80, Survived: false}}, history)
	assert.Equal(t, Eliminated, state)
}

func TestSimulate_StopsAtElimination(t *testing.T) {
	season := Season{
		1: {row("A", 90, 1, "W")},
		2: {row("B", 90, 1, "L")},
		3: {row("C", 90, 1, "W")},
	}
	history, state := Simulate(season)

	assert.Equal(t, TeamList{"A", "B"}, history.Teams())
	assert.Equal(t, Eliminated, state)
}

func TestSimulate_EmptySeason(t *testing.T) {
	for _, season := range []Season{nil, {}} {
		history, state := Simulate(season)
		assert.Empty(t, history)
		assert.Equal(t, SurvivedAll, state)
	}
}

func TestSimulate_Stalled(t *testing.T) {
	season := Season{
		1: {row("A", 90, 1, "W"), row("B", 10, 1, "W")},
		2: {row("B", 90, 1, "W"), row("A", 10, 1, "W")},
		3: {row("A", 50, 1, "W"), row("B", 50, 1, "W")},
	}
	history, state := Simulate(season)

	assert.Len(t, history, 2)
	assert.Equal(t, StalledNoPick, state)
}

func TestSimulate_WeekGaps(t *testing.T) {
	season := Season{
		9: {row("C", 60, 1, "W")},
		2: {row("A", 60, 1, "W"), row("C", 80, 1, "W")},
		5: {row("B", 60, 1, "W")},
	}
	history, state := Simulate(season)

	require.Len(t, history, 3)
	assert.Equal(t, []int{2, 5, 9}, []int{history[0].Week, history[1].Week, history[2].Week})
	// C is discounted in week 2 by its week 9 appearance: 80/1.6 = 50 < 60.
	assert.Equal(t, TeamList{"A", "B", "C"}, history.Teams())
	assert.Equal(t, SurvivedAll, state)
}

func TestSimulate_MissingOutcomeEliminates(t *testing.T) {
	season := Season{1: {row("A", 99, 1, "")}, 2: {row("B", 99, 1, "W")}}
	history, state := Simulate(season)

	require.Len(t, history, 1)
	assert.False(t, history[0].Survived)
	assert.Equal(t, Eliminated, state)
}

func TestSimulate_MissingWinProbability(t *testing.T) {
	season := Season{1: {NewRow("A"), NewRow("B")}}
	season[1][0].Outcome = "W"
	history, state := Simulate(season)

	require.Len(t, history, 1)
	assert.Equal(t, Team("A"), history[0].Team)
	assert.True(t, math.IsNaN(history[0].WinProbability))
	assert.Equal(t, SurvivedAll, state)
}

// randomSeason builds a deterministic pseudo-random season for invariant checks.
func randomSeason(seed, nWeeks, nTeams int) Season {
	x := uint64(seed)*2654435761 + 1
	next := func() uint64 {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		return x
	}
	season := make(Season)
	for w := 1; w <= nWeeks; w++ {
		if next()%7 == 0 {
			continue
		}
		slate := make(Slate, 0, nTeams)
		for i := 0; i < nTeams; i++ {
			if next()%3 == 0 {
				continue
			}
			outcome := "W"
			if next()%10 == 0 {
				outcome = "L"
			}
			slate = append(slate, row(fmt.Sprintf("T%02d", i), float64(next()%100), float64(next()%20)/10, outcome))
		}
		season[w] = slate
	}
	return season
}

func TestSimulate_Invariants(t *testing.T) {
	for seed := 0; seed < 200; seed++ {
		season := randomSeason(seed, 18, 12)
		history, state := Simulate(season)

		require.LessOrEqual(t, len(history), season.NumWeeks())

		seen := make(map[Team]bool)
		for i, p := range history {
			require.False(t, seen[p.Team], "seed %d: team %s reused", seed, p.Team)
			seen[p.Team] = true
			if i < len(history)-1 {
				require.True(t, p.Survived, "seed %d: loss before last record", seed)
			}
			if i > 0 {
				require.Greater(t, p.Week, history[i-1].Week)
			}
		}

		switch state {
		case Eliminated:
			require.NotEmpty(t, history)
			require.False(t, history[len(history)-1].Survived)
		case SurvivedAll:
			require.Len(t, history, season.NumWeeks())
		case StalledNoPick:
			require.Less(t, len(history), season.NumWeeks())
		default:
			t.Fatalf("seed %d: unexpected terminal state %v", seed, state)
		}
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "stalled_no_pick", StalledNoPick.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "State(42)", State(42).String())
	b, err := Eliminated.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "eliminated", string(b))
}
