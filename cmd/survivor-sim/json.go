package main

import (
	"sort"

	"github.com/reallyasi9/survivor-pool/internal/survivor"
)

// Pick is one week of a season's simulated picks.
type Pick struct {
	// Week is the week of the season
	Week int `json:"week"`
	// Team is the team picked to win
	Team survivor.Team `json:"team"`
	// WinProbability is the win probability recorded for the team, null if unknown
	WinProbability *float64 `json:"win_probability"`
	// Survived is whether the pick won
	Survived bool `json:"survived"`
}

// Luck compares the run to what the win probabilities predicted.
type Luck struct {
	Expected   float64 `json:"expected_weeks"`
	StdDev     float64 `json:"std_dev"`
	Percentile float64 `json:"percentile"`
}

// SeasonResult is the simulated outcome of one season
type SeasonResult struct {
	// Year is the season year
	Year int `json:"year"`
	// Fingerprint identifies the input data the season was simulated from
	Fingerprint string `json:"fingerprint,omitempty"`
	// State is how the simulation ended
	State survivor.State `json:"state"`
	// WeeksInSeason is the number of weeks with data
	WeeksInSeason int `json:"weeks_in_season"`
	// WeeksSurvived is the number of winning picks
	WeeksSurvived int `json:"weeks_survived"`
	// History lists the picks in week order
	History []Pick `json:"history"`
	// Luck summarizes the run against its predicted length
	Luck *Luck `json:"luck,omitempty"`
	// Error is set if the season could not be loaded
	Error string `json:"error,omitempty"`
}

// Report is every season of a run, in year order.
type Report struct {
	FirstYear int            `json:"first_year"`
	LastYear  int            `json:"last_year"`
	Seasons   []SeasonResult `json:"seasons"`
}

func makeReport(years survivor.YearRange, results map[int]survivor.Result) Report {
	out := Report{FirstYear: years.First, LastYear: years.Last, Seasons: make([]SeasonResult, 0, len(results))}
	for _, r := range results {
		out.Seasons = append(out.Seasons, makeSeasonResult(r))
	}
	sort.Slice(out.Seasons, func(i, j int) bool { return out.Seasons[i].Year < out.Seasons[j].Year })
	return out
}

func makeSeasonResult(r survivor.Result) SeasonResult {
	sr := SeasonResult{
		Year:          r.Year,
		State:         r.State,
		WeeksInSeason: r.Weeks,
		WeeksSurvived: r.History.WeeksSurvived(),
		History:       make([]Pick, len(r.History)),
	}
	if r.Err != nil {
		sr.Error = r.Err.Error()
		return sr
	}

	sr.Fingerprint = fmtFingerprint(r.Fingerprint)
	for i, p := range r.History {
		sr.History[i] = Pick{Week: p.Week, Team: p.Team, Survived: p.Survived}
		if !survivor.Missing(p.WinProbability) {
			wp := p.WinProbability
			sr.History[i].WinProbability = &wp
		}
	}
	sr.Luck = &Luck{Expected: r.Luck.Expected, StdDev: r.Luck.StdDev, Percentile: r.Luck.Percentile}
	return sr
}
