package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/reallyasi9/survivor-pool/internal/config"
	"github.com/reallyasi9/survivor-pool/internal/provider"
	"github.com/reallyasi9/survivor-pool/internal/survivor"
)

var configFile = flag.String("config", "", "YAML configuration `file`")
var firstYear = flag.Int("first", 0, "first season `year` to simulate (overrides config)")
var lastYear = flag.Int("last", 0, "last season `year` to simulate (overrides config)")
var maxWeek = flag.Int("max-week", 0, "ignore weeks after this `week` (overrides config)")
var workers = flag.Int("workers", 0, "`number` of seasons to simulate at once (overrides config)")
var providerKind = flag.String("provider", "", "season store `kind`: csv, sqlite, or firestore (overrides config)")
var dataDir = flag.String("data", "", "`directory` of YEAR_WEEK.csv files (overrides config)")
var pretty = flag.Bool("pretty", false, "indent the JSON report")

func fmtFingerprint(f uint64) string {
	return fmt.Sprintf("%016x", f)
}

// applyFlags overrides configuration with any flags that were set.
func applyFlags(cfg *config.Config) {
	if *firstYear != 0 {
		cfg.FirstYear = *firstYear
	}
	if *lastYear != 0 {
		cfg.LastYear = *lastYear
	}
	if *maxWeek != 0 {
		cfg.MaxWeek = *maxWeek
	}
	if *workers != 0 {
		cfg.Workers = *workers
	}
	if *providerKind != "" {
		cfg.Provider.Kind = *providerKind
	}
	if *dataDir != "" {
		cfg.Provider.Dir = *dataDir
	}
}

func newLogger(level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(lvl)
	return logger, nil
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("config validation: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("log level: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	store, err := provider.Open(ctx, cfg.Provider)
	if err != nil {
		logger.Fatalf("open %s provider: %v", cfg.Provider.Kind, err)
	}
	defer store.Close()
	logger.WithField("provider", cfg.Provider.Kind).Info("opened season store")

	years := survivor.YearRange{First: cfg.FirstYear, Last: cfg.LastYear}
	results, err := survivor.Run(ctx, store, years, survivor.RunOptions{
		MaxWeek: cfg.MaxWeek,
		Workers: cfg.Workers,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal(err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		logger.Warnf("%d of %d seasons could not be simulated", failed, len(results))
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(makeReport(years, results)); err != nil {
		logger.Fatal(err)
	}
}
