package sqlitestore

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/reallyasi9/survivor-pool/internal/survivor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "slates.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	b := survivor.NewRow("B")
	b.Outcome = "L"
	season := survivor.Season{
		1: {{Team: "Z", WinProbability: 70, FutureVal: 1, Outcome: "W"}, b},
		4: {{Team: "B", WinProbability: 95, FutureVal: math.NaN(), Outcome: ""}},
	}
	require.NoError(t, s.PutSeason(ctx, 2020, season))

	got, err := s.Season(ctx, 2020)
	require.NoError(t, err)
	require.Equal(t, []int{1, 4}, got.Weeks())

	assert.Equal(t, survivor.TeamList{"Z", "B"}, got[1].Teams())
	assert.Equal(t, 70., got[1][0].WinProbability)
	assert.True(t, math.IsNaN(got[1][1].WinProbability))
	assert.Equal(t, "L", got[1][1].Outcome)
	assert.True(t, math.IsNaN(got[4][0].FutureVal))
	assert.Equal(t, "", got[4][0].Outcome)
	assert.Equal(t, season.Fingerprint(), got.Fingerprint())
}

func TestStore_PutSeasonReplaces(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.PutSeason(ctx, 2020, survivor.Season{1: {{Team: "A", WinProbability: 1, FutureVal: 1}}}))
	require.NoError(t, s.PutSeason(ctx, 2021, survivor.Season{1: {{Team: "C", WinProbability: 1, FutureVal: 1}}}))
	require.NoError(t, s.PutSeason(ctx, 2020, survivor.Season{2: {{Team: "B", WinProbability: 1, FutureVal: 1}}}))

	got, err := s.Season(ctx, 2020)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, got.Weeks())

	other, err := s.Season(ctx, 2021)
	require.NoError(t, err)
	assert.Equal(t, survivor.TeamList{"C"}, other[1].Teams())
}

func TestStore_PutSeasonRejectsDuplicates(t *testing.T) {
	s := openStore(t)
	dup := survivor.Season{1: {survivor.NewRow("A"), survivor.NewRow("A")}}
	err := s.PutSeason(context.Background(), 2020, dup)
	assert.ErrorIs(t, err, survivor.ErrDuplicateTeam)
}

func TestStore_EmptyYear(t *testing.T) {
	s := openStore(t)
	got, err := s.Season(context.Background(), 1999)
	require.NoError(t, err)
	assert.Equal(t, 0, got.NumWeeks())
}

func TestStore_Simulate(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.PutSeason(ctx, 2010, survivor.Season{
		1: {{Team: "A", WinProbability: 70, FutureVal: 1, Outcome: "W"}, {Team: "B", WinProbability: 90, FutureVal: 1, Outcome: "L"}},
		2: {{Team: "B", WinProbability: 95, FutureVal: 1, Outcome: "W"}},
	}))

	results, err := survivor.Run(ctx, s, survivor.YearRange{First: 2009, Last: 2010}, survivor.RunOptions{})
	require.NoError(t, err)
	assert.Empty(t, results[2009].History)
	assert.Equal(t, survivor.TeamList{"A", "B"}, results[2010].History.Teams())
}

func TestStore_MigrateError(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.db.Close())

	err := s.migrate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 0")
}

func TestNullFloat(t *testing.T) {
	assert.False(t, nullFloat(math.NaN()).Valid)
	assert.False(t, nullFloat(math.Inf(-1)).Valid)
	assert.Equal(t, sql.NullFloat64{Float64: 0, Valid: true}, nullFloat(0))
}
