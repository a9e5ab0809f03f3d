package survivor

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/segmentio/fasthash/jody"
)

// ErrDuplicateTeam is returned when a slate lists the same team twice.
var ErrDuplicateTeam = errors.New("duplicate team in slate")

// Row is one team's line in a weekly slate.
// Missing numbers are stored as NaN, the way unparseable lines are.
type Row struct {
	Team           Team
	WinProbability float64 // percent, 0-100
	FutureVal      float64
	Outcome        string
}

// NewRow makes a row with missing numeric values.
func NewRow(team Team) Row {
	return Row{Team: team, WinProbability: math.NaN(), FutureVal: math.NaN()}
}

// Missing reports whether a numeric field is unknown.
// Infinities are not usable values and count as missing.
func Missing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// known returns v, or zero if v is missing.
func known(v float64) float64 {
	if Missing(v) {
		return 0
	}
	return v
}

// Slate is the ordered set of team rows for a single week.
type Slate []Row

// Find returns the first row for the given team.
func (s Slate) Find(t Team) (Row, bool) {
	for _, r := range s {
		if r.Team == t {
			return r, true
		}
	}
	return Row{}, false
}

// Teams lists the teams of the slate in slate order.
func (s Slate) Teams() TeamList {
	out := make(TeamList, len(s))
	for i, r := range s {
		out[i] = r.Team
	}
	return out
}

// Validate checks that every team appears at most once.
func (s Slate) Validate() error {
	seen := make(map[Team]struct{}, len(s))
	for _, r := range s {
		if _, ok := seen[r.Team]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateTeam, r.Team)
		}
		seen[r.Team] = struct{}{}
	}
	return nil
}

// Season maps week numbers to slates. Weeks may have gaps.
type Season map[int]Slate

// Weeks returns the season's week numbers in ascending order.
func (s Season) Weeks() []int {
	weeks := make([]int, 0, len(s))
	for w := range s {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}

// NumWeeks returns the number of weeks with data.
func (s Season) NumWeeks() int {
	return len(s)
}

// Through returns the weeks of the season up to and including maxWeek.
// A non-positive maxWeek returns the season unchanged.
func (s Season) Through(maxWeek int) Season {
	if maxWeek <= 0 {
		return s
	}
	out := make(Season, len(s))
	for w, slate := range s {
		if w <= maxWeek {
			out[w] = slate
		}
	}
	return out
}

// Validate checks every slate in the season.
func (s Season) Validate() error {
	for _, w := range s.Weeks() {
		if w <= 0 {
			return fmt.Errorf("week %d: week numbers must be positive", w)
		}
		if err := s[w].Validate(); err != nil {
			return fmt.Errorf("week %d: %w", w, err)
		}
	}
	return nil
}

// Fingerprint hashes the season's contents in week and row order.
// Two seasons with the same fingerprint produce the same simulation.
func (s Season) Fingerprint() uint64 {
	h := jody.HashString64("")
	for _, w := range s.Weeks() {
		h = jody.AddUint64(h, uint64(w))
		for _, r := range s[w] {
			h = jody.AddString64(h, string(r.Team))
			h = jody.AddUint64(h, floatBits(r.WinProbability))
			h = jody.AddUint64(h, floatBits(r.FutureVal))
			h = jody.AddString64(h, normalizeOutcome(r.Outcome))
		}
	}
	return h
}

// floatBits collapses every NaN payload to one value.
func floatBits(v float64) uint64 {
	if math.IsNaN(v) {
		return math.Float64bits(math.NaN())
	}
	return math.Float64bits(v)
}

func (s Season) String() string {
	var b strings.Builder
	for _, w := range s.Weeks() {
		b.WriteString(fmt.Sprintf("week %d:\n", w))
		for _, r := range s[w] {
			b.WriteString(fmt.Sprintf("  %-20s %6.2f %6.3f %s\n", r.Team, r.WinProbability, r.FutureVal, r.Outcome))
		}
	}
	return b.String()
}
