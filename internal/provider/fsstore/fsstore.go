// Package fsstore keeps season slates in Firestore, one document per week.
package fsstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/reallyasi9/survivor-pool/internal/survivor"
)

// RowDoc is how a slate row is stored in Firestore. Missing values are null.
type RowDoc struct {
	Team           string   `firestore:"team"`
	WinProbability *float64 `firestore:"win_probability"`
	FutureVal      *float64 `firestore:"future_val"`
	Outcome        *string  `firestore:"outcome"`
}

// SlateDoc is a week's slate as stored in Firestore.
type SlateDoc struct {
	Year      int       `firestore:"year"`
	Week      int       `firestore:"week"`
	Rows      []RowDoc  `firestore:"rows"`
	Timestamp time.Time `firestore:"timestamp,serverTimestamp"`
}

// Store is a survivor.Provider backed by a Firestore collection.
type Store struct {
	client     *firestore.Client
	collection string
}

// New makes a store over the named collection.
func New(client *firestore.Client, collection string) *Store {
	return &Store{client: client, collection: collection}
}

// DocID names the document holding a year's week.
func DocID(year, week int) string {
	return fmt.Sprintf("%d_%02d", year, week)
}

// Season reads every week document for the year.
func (s *Store) Season(ctx context.Context, year int) (survivor.Season, error) {
	iter := s.client.Collection(s.collection).Where("year", "==", year).Documents(ctx)
	defer iter.Stop()

	season := make(survivor.Season)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("season %d: %w", year, err)
		}

		var sd SlateDoc
		if err := doc.DataTo(&sd); err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.Ref.ID, err)
		}
		if _, exists := season[sd.Week]; exists {
			return nil, fmt.Errorf("week %d of %d stored more than once", sd.Week, year)
		}
		season[sd.Week] = FromDoc(sd)
	}
	return season, nil
}

// PutSeason replaces the year's week documents in one transaction.
func (s *Store) PutSeason(ctx context.Context, year int, season survivor.Season) error {
	if err := season.Validate(); err != nil {
		return err
	}

	col := s.client.Collection(s.collection)
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(col.Where("year", "==", year)).GetAll()
		if err != nil {
			return err
		}

		keep := make(map[string]bool, len(season))
		for _, week := range season.Weeks() {
			keep[DocID(year, week)] = true
		}
		for _, doc := range existing {
			if keep[doc.Ref.ID] {
				continue
			}
			if err := tx.Delete(doc.Ref); err != nil {
				return err
			}
		}

		for _, week := range season.Weeks() {
			sd := ToDoc(year, week, season[week])
			if err := tx.Set(col.Doc(DocID(year, week)), &sd); err != nil {
				return err
			}
		}
		return nil
	})
}

// ToDoc converts a slate to its stored form.
func ToDoc(year, week int, slate survivor.Slate) SlateDoc {
	rows := make([]RowDoc, len(slate))
	for i, r := range slate {
		rows[i] = RowDoc{
			Team:           string(r.Team),
			WinProbability: floatPtr(r.WinProbability),
			FutureVal:      floatPtr(r.FutureVal),
		}
		if r.Outcome != "" {
			o := r.Outcome
			rows[i].Outcome = &o
		}
	}
	return SlateDoc{Year: year, Week: week, Rows: rows}
}

// FromDoc converts a stored slate back, keeping row order.
func FromDoc(sd SlateDoc) survivor.Slate {
	slate := make(survivor.Slate, len(sd.Rows))
	for i, rd := range sd.Rows {
		row := survivor.NewRow(survivor.Team(rd.Team))
		if rd.WinProbability != nil {
			row.WinProbability = *rd.WinProbability
		}
		if rd.FutureVal != nil {
			row.FutureVal = *rd.FutureVal
		}
		if rd.Outcome != nil {
			row.Outcome = *rd.Outcome
		}
		slate[i] = row
	}
	return slate
}

func floatPtr(v float64) *float64 {
	if survivor.Missing(v) {
		return nil
	}
	return &v
}
