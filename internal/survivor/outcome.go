package survivor

import "strings"

// winningOutcomes are the normalized outcome strings that count as a win.
var winningOutcomes = map[string]bool{
	"W":    true,
	"WIN":  true,
	"WON":  true,
	"TRUE": true,
	"T":    true,
	"1":    true,
	"YES":  true,
	"Y":    true,
}

func normalizeOutcome(outcome string) string {
	return strings.ToUpper(strings.TrimSpace(outcome))
}

// Survived reports whether a recorded outcome counts as a win for the picked team.
// Anything outside the win vocabulary, including an empty outcome, is a loss.
func Survived(outcome string) bool {
	return winningOutcomes[normalizeOutcome(outcome)]
}
