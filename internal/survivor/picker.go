package survivor

import "math"

// exposureScale converts summed future win percentages into the discount denominator.
const exposureScale = 100.

// ScoredRow is a slate row augmented with its pick score.
type ScoredRow struct {
	Row
	Exposure float64
	Score    float64
}

// FutureExposure sums the team's win probability over every future slate it appears in.
// Only the first row for the team in each slate counts.
func FutureExposure(team Team, future []Slate) float64 {
	exposure := 0.
	for _, slate := range future {
		if r, ok := slate.Find(team); ok {
			exposure += known(r.WinProbability)
		}
	}
	return exposure
}

// Score calculates the pick score of a row given the remaining slates of the season:
// win probability times future value, discounted by the team's future exposure.
func Score(r Row, future []Slate) float64 {
	return discount(r, FutureExposure(r.Team, future))
}

func discount(r Row, exposure float64) float64 {
	base := known(r.WinProbability) * known(r.FutureVal)
	return base * (1 / (1 + exposure/exposureScale))
}

// ScoreSlate scores every row of the slate whose team has not been used, preserving slate order.
func ScoreSlate(slate Slate, used UsedTeams, future []Slate) []ScoredRow {
	out := make([]ScoredRow, 0, len(slate))
	for _, r := range slate {
		if used.Has(r.Team) {
			continue
		}
		exposure := FutureExposure(r.Team, future)
		out = append(out, ScoredRow{Row: r, Exposure: exposure, Score: discount(r, exposure)})
	}
	return out
}

// Pick selects the team to pick this week: the highest scoring unused team, ties going to
// whichever team is listed first in the slate.
// The returned win probability is the one recorded in the slate, NaN if unknown.
// If every team has been used, ok is false.
func Pick(slate Slate, used UsedTeams, future []Slate) (team Team, winProbability float64, ok bool) {
	scored := ScoreSlate(slate, used, future)
	if len(scored) == 0 {
		return "", 0, false
	}

	best := 0
	for i := 1; i < len(scored); i++ {
		if beats(scored[i].Score, scored[best].Score) {
			best = i
		}
	}
	return scored[best].Team, scored[best].WinProbability, true
}

// beats reports whether score a strictly exceeds b. A NaN score never wins and loses to any number.
func beats(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}
	return a > b
}
