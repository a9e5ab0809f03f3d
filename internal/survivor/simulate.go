package survivor

import "fmt"

// State is where a season simulation stands.
type State int

const (
	// Running means picks are still being made.
	Running State = iota
	// Eliminated means the last pick lost.
	Eliminated
	// SurvivedAll means every week of the season was picked correctly.
	SurvivedAll
	// StalledNoPick means some week had no unused team left to pick.
	StalledNoPick
	// Failed means the season could not be simulated. Simulate never returns it.
	Failed
)

var stateNames = map[State]string{
	Running:       "running",
	Eliminated:    "eliminated",
	SurvivedAll:   "survived_all",
	StalledNoPick: "stalled_no_pick",
	Failed:        "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PickRecord is the result of one week's pick.
type PickRecord struct {
	Week           int
	Team           Team
	WinProbability float64
	Survived       bool
}

// History is a season's picks in week order.
type History []PickRecord

// Teams returns the teams picked, in week order.
func (h History) Teams() TeamList {
	out := make(TeamList, len(h))
	for i, p := range h {
		out[i] = p.Team
	}
	return out
}

// WeeksSurvived counts the picks that won.
func (h History) WeeksSurvived() int {
	n := 0
	for _, p := range h {
		if p.Survived {
			n++
		}
	}
	return n
}

// Simulate plays a season week by week, picking greedily, until the player is eliminated,
// runs out of teams, or runs out of weeks.
// An empty season returns an empty history and SurvivedAll.
func Simulate(season Season) (History, State) {
	used := make(UsedTeams)
	history := make(History, 0, season.NumWeeks())

	weeks := season.Weeks()
	for i, week := range weeks {
		slate := season[week]

		future := make([]Slate, 0, len(weeks)-i-1)
		for _, w := range weeks[i+1:] {
			future = append(future, season[w])
		}

		team, winProbability, ok := Pick(slate, used, future)
		if !ok {
			return history, StalledNoPick
		}

		row, _ := slate.Find(team)
		survived := Survived(row.Outcome)
		history = append(history, PickRecord{
			Week:           week,
			Team:           team,
			WinProbability: winProbability,
			Survived:       survived,
		})
		used.Use(team)

		if !survived {
			return history, Eliminated
		}
	}

	return history, SurvivedAll
}
