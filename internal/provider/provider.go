// Package provider opens the season store named in the configuration.
package provider

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"

	"github.com/reallyasi9/survivor-pool/internal/config"
	"github.com/reallyasi9/survivor-pool/internal/provider/csvdir"
	"github.com/reallyasi9/survivor-pool/internal/provider/fsstore"
	"github.com/reallyasi9/survivor-pool/internal/provider/sqlitestore"
	"github.com/reallyasi9/survivor-pool/internal/survivor"
)

// Writer stores a year's season.
type Writer interface {
	PutSeason(ctx context.Context, year int, season survivor.Season) error
}

// Store is a provider that must be closed when done.
type Store interface {
	survivor.Provider
	Close() error
}

type nopCloser struct {
	survivor.Provider
}

func (nopCloser) Close() error { return nil }

type firestoreStore struct {
	*fsstore.Store
	close func() error
}

func (s firestoreStore) Close() error { return s.close() }

// Open opens the configured season store.
func Open(ctx context.Context, cfg config.Provider) (Store, error) {
	switch cfg.Kind {
	case config.CSV:
		return nopCloser{csvdir.New(cfg.Dir)}, nil

	case config.SQLite:
		s, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.Firestore:
		conf := &firebase.Config{ProjectID: cfg.ProjectID}
		app, err := firebase.NewApp(ctx, conf)
		if err != nil {
			return nil, fmt.Errorf("firebase app: %w", err)
		}
		fs, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("firestore client: %w", err)
		}
		return firestoreStore{Store: fsstore.New(fs, cfg.Collection), close: fs.Close}, nil
	}
	return nil, fmt.Errorf("unknown provider kind %q", cfg.Kind)
}

// OpenWriter opens a store that seasons can be written to.
func OpenWriter(ctx context.Context, cfg config.Provider) (Writer, func() error, error) {
	s, err := Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	w, ok := s.(Writer)
	if !ok {
		s.Close()
		return nil, nil, fmt.Errorf("provider kind %q is read-only", cfg.Kind)
	}
	return w, s.Close, nil
}
