package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/reallyasi9/survivor-pool/internal/config"
	"github.com/reallyasi9/survivor-pool/internal/provider"
	"github.com/reallyasi9/survivor-pool/internal/provider/csvdir"
)

var configFile = flag.String("config", "", "YAML configuration `file`")
var dataDir = flag.String("data", "", "`directory` of YEAR_WEEK.csv files to load (overrides config)")
var dest = flag.String("dest", config.SQLite, "destination store `kind`: sqlite or firestore")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if *dataDir != "" {
		cfg.Provider.Dir = *dataDir
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}

	target := cfg.Provider
	target.Kind = *dest
	check := *cfg
	check.Provider = target
	if err := check.Validate(); err != nil {
		logrus.Fatalf("config validation: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	src := csvdir.New(cfg.Provider.Dir)
	years, err := src.Years()
	if err != nil {
		logrus.Fatalf("list %s: %v", cfg.Provider.Dir, err)
	}
	if len(years) == 0 {
		logrus.Fatalf("no YEAR_WEEK.csv files found in %s", cfg.Provider.Dir)
	}

	w, closeFn, err := provider.OpenWriter(ctx, target)
	if err != nil {
		logrus.Fatalf("open %s store: %v", target.Kind, err)
	}
	defer closeFn()

	loadErrors := 0
	for _, year := range years {
		log := logrus.WithField("year", year)
		season, err := src.Season(ctx, year)
		if err != nil {
			log.WithError(err).Error("unable to read season")
			loadErrors++
			continue
		}
		if err := w.PutSeason(ctx, year, season); err != nil {
			log.WithError(err).Error("unable to store season")
			loadErrors++
			continue
		}
		log.WithField("weeks", season.NumWeeks()).Infof("stored season in %s", target.Kind)
	}

	if loadErrors > 0 {
		closeFn()
		logrus.Fatalf("detected %d season errors", loadErrors)
	}
}
