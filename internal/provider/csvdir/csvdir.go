// Package csvdir reads seasons from a directory of weekly CSV files named YEAR_WEEK.csv.
package csvdir

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/reallyasi9/survivor-pool/internal/survivor"
)

// aliases map normalized header names onto the columns the simulator reads.
var aliases = map[string]string{
	"team_name":     "team",
	"school":        "team",
	"opponent_team": "opponent",
	"opp":           "opponent",
	"w_pct":         "win_probability",
	"team_result":   "result",
}

// outcomeColumns are searched in order for the pick outcome.
var outcomeColumns = []string{"win", "result", "outcome"}

// Dir is a survivor.Provider backed by a directory of CSV files.
type Dir struct {
	Path string
}

// New makes a provider for the given directory.
func New(path string) *Dir {
	return &Dir{Path: path}
}

// Season reads every YEAR_WEEK.csv file for the year. A year without files is an empty season.
func (d *Dir) Season(ctx context.Context, year int) (survivor.Season, error) {
	pattern := filepath.Join(d.Path, fmt.Sprintf("%d_*.csv", year))
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	season := make(survivor.Season)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		week, err := weekFromName(filepath.Base(f), year)
		if err != nil {
			return nil, err
		}
		if _, exists := season[week]; exists {
			return nil, fmt.Errorf("week %d of %d defined by more than one file", week, year)
		}

		slate, err := readFile(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		season[week] = slate
	}

	return season, nil
}

// Years lists the years with at least one file in the directory.
func (d *Dir) Years() ([]int, error) {
	files, err := filepath.Glob(filepath.Join(d.Path, "*_*.csv"))
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	out := make([]int, 0)
	for _, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), ".csv")
		parts := strings.SplitN(name, "_", 2)
		year, err := strconv.Atoi(parts[0])
		if err != nil || seen[year] {
			continue
		}
		seen[year] = true
		out = append(out, year)
	}
	return out, nil
}

// weekFromName parses the week out of a name like "2024_09.csv".
func weekFromName(name string, year int) (int, error) {
	ws := strings.TrimSuffix(strings.TrimPrefix(name, fmt.Sprintf("%d_", year)), ".csv")
	week, err := strconv.Atoi(ws)
	if err != nil {
		return 0, fmt.Errorf("file name %q does not match YEAR_WEEK.csv: %w", name, err)
	}
	if week <= 0 {
		return 0, fmt.Errorf("file name %q: week must be positive", name)
	}
	return week, nil
}

func readFile(name string) (survivor.Slate, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses one week's slate from CSV. The first record is the header.
// Rows against a bye are dropped. Numbers that do not parse are missing.
func Read(r io.Reader) (survivor.Slate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return survivor.Slate{}, nil
	}
	if err != nil {
		return nil, err
	}

	cols := make(map[string]int)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		if _, exists := cols[name]; !exists {
			cols[name] = i
		}
	}

	teamCol, ok := cols["team"]
	if !ok {
		return nil, fmt.Errorf("missing team column; found %v", header)
	}
	outcomeCol := -1
	for _, c := range outcomeColumns {
		if i, ok := cols[c]; ok {
			outcomeCol = i
			break
		}
	}

	field := func(record []string, col string) (string, bool) {
		i, ok := cols[col]
		if !ok || i >= len(record) {
			return "", false
		}
		return record[i], true
	}

	slate := make(survivor.Slate, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if teamCol >= len(record) {
			continue
		}

		team := strings.TrimSpace(record[teamCol])
		if team == "" {
			continue
		}
		if opp, ok := field(record, "opponent"); ok && survivor.IsBye(strings.ReplaceAll(opp, "@", "")) {
			continue
		}

		row := survivor.NewRow(survivor.Team(team))
		if v, ok := field(record, "win_probability"); ok {
			row.WinProbability = parseFloat(v)
		}
		if v, ok := field(record, "future_val"); ok {
			row.FutureVal = parseFloat(v)
		}
		if outcomeCol >= 0 && outcomeCol < len(record) {
			row.Outcome = record[outcomeCol]
		}
		slate = append(slate, row)
	}

	if err := slate.Validate(); err != nil {
		return nil, err
	}
	return slate, nil
}

func parseFloat(s string) float64 {
	val, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(val, 0) {
		return math.NaN() // Not an error, just missing data
	}
	return val
}
