package survivor

import (
	"math"

	"github.com/atgjack/prob"
)

// LuckSummary compares a season's run against what the recorded win probabilities predicted.
type LuckSummary struct {
	// Expected is the expected number of consecutive wins over the picks made.
	Expected float64
	// StdDev is the standard deviation of that count.
	StdDev float64
	// Observed is the number of picks that won.
	Observed int
	// Percentile is where Observed falls on a normal approximation of the count.
	Percentile float64
}

// Luck summarizes a history. Unknown win probabilities count as certain losses.
func Luck(h History) LuckSummary {
	// P(streak reaches pick k) is the running product of win probabilities.
	// E[X] = sum P_k, E[X^2] = sum (2k-1) P_k.
	cum := 1.
	mean := 0.
	second := 0.
	for k, p := range h {
		cum *= clampProbability(known(p.WinProbability) / 100.)
		mean += cum
		second += float64(2*(k+1)-1) * cum
	}
	variance := second - mean*mean
	if variance < 0 {
		variance = 0
	}

	out := LuckSummary{
		Expected: mean,
		StdDev:   math.Sqrt(variance),
		Observed: h.WeeksSurvived(),
	}

	observed := float64(out.Observed)
	switch {
	case out.StdDev > 0:
		dist := prob.Normal{Mu: mean, Sigma: out.StdDev}
		out.Percentile = dist.Cdf(observed)
	case math.Abs(observed-mean) < 1e-9:
		out.Percentile = .5
	case observed > mean:
		out.Percentile = 1
	default:
		out.Percentile = 0
	}
	return out
}

func clampProbability(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
