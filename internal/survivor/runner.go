package survivor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrInvalidRange is returned when a year range ends before it starts.
var ErrInvalidRange = errors.New("invalid year range")

// ErrPanic wraps a panic recovered while loading or simulating a season.
var ErrPanic = errors.New("panic")

// Provider supplies a season's slates by year.
// A year without data is an empty Season, not an error.
type Provider interface {
	Season(ctx context.Context, year int) (Season, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, year int) (Season, error)

// Season calls f.
func (f ProviderFunc) Season(ctx context.Context, year int) (Season, error) {
	return f(ctx, year)
}

// MapProvider serves seasons from memory.
type MapProvider map[int]Season

// Season returns the stored season, or an empty one.
func (m MapProvider) Season(_ context.Context, year int) (Season, error) {
	if s, ok := m[year]; ok {
		return s, nil
	}
	return Season{}, nil
}

// YearRange is an inclusive range of season years.
type YearRange struct {
	First int
	Last  int
}

// Years lists the years in the range.
func (r YearRange) Years() []int {
	if r.Last < r.First {
		return nil
	}
	out := make([]int, 0, r.Last-r.First+1)
	for y := r.First; y <= r.Last; y++ {
		out = append(out, y)
	}
	return out
}

// RunOptions control a multi-season run.
type RunOptions struct {
	// MaxWeek drops weeks after this one. Zero keeps every week.
	MaxWeek int
	// Workers is the number of seasons simulated at once. Values below 1 mean 1.
	Workers int
	// Logger receives per-season progress. Nil discards it.
	Logger logrus.FieldLogger
}

// Result is one year's simulation.
type Result struct {
	Year        int
	Fingerprint uint64
	Weeks       int
	History     History
	State       State
	Luck        LuckSummary
	// Err is set when the season could not be loaded or simulated.
	// State is Failed and History is empty in that case.
	Err error
}

// Run simulates every season in the range and returns the results keyed by year.
// A failure or panic in one year is recorded on that year's result and does not stop the others.
func Run(ctx context.Context, p Provider, years YearRange, opts RunOptions) (map[int]Result, error) {
	if years.Last < years.First {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidRange, years.First, years.Last)
	}

	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for year := range jobs {
				results <- runYear(ctx, p, year, opts.MaxWeek, logger)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, year := range years.Years() {
			if ctx.Err() != nil {
				return
			}
			select {
			case jobs <- year:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make(map[int]Result, years.Last-years.First+1)
	for r := range results {
		out[r.Year] = r
	}

	// Years never dispatched because of cancellation still get a result.
	for _, year := range years.Years() {
		if _, ok := out[year]; !ok {
			out[year] = Result{Year: year, State: Failed, Err: ctx.Err()}
		}
	}
	return out, nil
}

func runYear(ctx context.Context, p Provider, year, maxWeek int, logger logrus.FieldLogger) (r Result) {
	log := logger.WithField("year", year)
	log.Info("simulating season")

	defer func() {
		if v := recover(); v != nil {
			err := fmt.Errorf("season %d: %w: %v", year, ErrPanic, v)
			log.WithError(err).Warn("season simulation panicked")
			r = Result{Year: year, State: Failed, Err: err}
		}
	}()

	season, err := p.Season(ctx, year)
	if err == nil {
		err = season.Validate()
	}
	if err != nil {
		log.WithError(err).Warn("unable to load season")
		return Result{Year: year, State: Failed, Err: fmt.Errorf("season %d: %w", year, err)}
	}

	season = season.Through(maxWeek)
	if season.NumWeeks() == 0 {
		log.Warn("no weeks found for season")
	}

	history, state := Simulate(season)
	r = Result{
		Year:        year,
		Fingerprint: season.Fingerprint(),
		Weeks:       season.NumWeeks(),
		History:     history,
		State:       state,
		Luck:        Luck(history),
	}

	log.WithFields(logrus.Fields{
		"weeks":       r.Weeks,
		"survived":    history.WeeksSurvived(),
		"state":       state,
		"fingerprint": fmt.Sprintf("%016x", r.Fingerprint),
	}).Infof("survived %d weeks", history.WeeksSurvived())
	return r
}
