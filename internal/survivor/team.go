package survivor

import (
	"sort"
	"strings"
)

// Team identifies a team within a slate.
type Team string

// BYE marks an opponent slot for a team that does not play in a given week.
// Rows against BYE never make it into a Slate.
const BYE = Team("BYE")

// IsBye reports whether the given opponent name marks a bye week.
func IsBye(opponent string) bool {
	return strings.EqualFold(strings.TrimSpace(opponent), string(BYE))
}

// TeamList implements the sort.Interface interface and represents a list of Teams.
type TeamList []Team

// Len calculates the length of the TeamList (implements sort.Interface interface)
func (t TeamList) Len() int {
	return len(t)
}

// Less reports whether (implements sort.Interface interface)
func (t TeamList) Less(i, j int) bool {
	return t[i] < t[j]
}

// Swap swaps the elements with indexes i and j (implements sort.Interface interface)
func (t TeamList) Swap(i, j int) {
	t[i], t[j] = t[j], t[i]
}

// UsedTeams is the set of teams already picked in a season.
type UsedTeams map[Team]struct{}

// Has reports whether the team has already been used.
func (u UsedTeams) Has(t Team) bool {
	_, ok := u[t]
	return ok
}

// Use marks a team as used.
func (u UsedTeams) Use(t Team) {
	u[t] = struct{}{}
}

// List returns the used teams, sorted.
func (u UsedTeams) List() TeamList {
	out := make(TeamList, 0, len(u))
	for t := range u {
		out = append(out, t)
	}
	sort.Sort(out)
	return out
}
