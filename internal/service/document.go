// Package service contains the business logic for the Tripfolio backend.
// Services validate inputs, enforce business rules, and funnel every
// document mutation through the store's single Commit entry point. No SQL
// and no HTTP live here.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tripfolio/tripfolio/internal/domain"
	"github.com/tripfolio/tripfolio/internal/store"
)

// DocumentService implements all CRUD operations on the trip document.
// Each mutation is read-modify-write against the cached document and is
// persisted immediately; the system assumes a single active editor per
// local cache, so there is no finer transaction boundary.
type DocumentService struct {
	store store.Store
	now   func() time.Time
}

// NewDocumentService constructs a DocumentService backed by the given store.
func NewDocumentService(s store.Store) *DocumentService {
	return &DocumentService{store: s, now: time.Now}
}

// Get returns the current document, seeding a default single-day trip on
// first use.
func (s *DocumentService) Get(ctx context.Context) (domain.TripDocument, error) {
	doc, ok, err := s.store.Document(ctx)
	if err != nil {
		return domain.TripDocument{}, fmt.Errorf("service.DocumentService.Get: %w", err)
	}
	if ok {
		return doc, nil
	}

	doc = s.defaultDocument()
	if err := s.store.Commit(ctx, doc); err != nil {
		return domain.TripDocument{}, fmt.Errorf("service.DocumentService.Get: %w", err)
	}
	return doc, nil
}

// defaultDocument seeds a one-day trip starting today.
func (s *DocumentService) defaultDocument() domain.TripDocument {
	doc := domain.TripDocument{
		TripInfo: domain.TripInfo{
			Name:      "New Trip",
			StartDate: s.now().Format(domain.DateLayout),
		},
		Days: []domain.Day{{ID: uuid.NewString(), Places: []domain.Place{}}},
	}
	doc.Renumber()
	doc.RecomputeEndDate()
	return doc
}

// UpdateTripInfo overwrites the trip-level fields. EndDate is derived and
// recomputed here, never taken from the caller.
func (s *DocumentService) UpdateTripInfo(ctx context.Context, name, description, startDate string) (domain.TripDocument, error) {
	if strings.TrimSpace(name) == "" {
		return domain.TripDocument{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if _, err := time.Parse(domain.DateLayout, startDate); err != nil {
		return domain.TripDocument{}, fmt.Errorf("%w: startDate must be a %s date", domain.ErrValidation, domain.DateLayout)
	}

	return s.mutate(ctx, "UpdateTripInfo", func(doc *domain.TripDocument) error {
		doc.TripInfo.Name = name
		doc.TripInfo.Description = description
		doc.TripInfo.StartDate = startDate
		return nil
	})
}

// AddDay appends a new day to the itinerary and returns it.
func (s *DocumentService) AddDay(ctx context.Context) (domain.Day, error) {
	var added domain.Day
	_, err := s.mutate(ctx, "AddDay", func(doc *domain.TripDocument) error {
		day := domain.Day{ID: uuid.NewString(), Places: []domain.Place{}}
		doc.Days = append(doc.Days, day)
		doc.Renumber()
		added = doc.Days[len(doc.Days)-1]
		return nil
	})
	if err != nil {
		return domain.Day{}, err
	}
	return added, nil
}

// UpdateDay overwrites the scalar fields of an existing day. Identity,
// display number, stay linkage, accommodation, and places are managed by
// their own operations and are not touched here.
func (s *DocumentService) UpdateDay(ctx context.Context, day domain.Day) (domain.TripDocument, error) {
	return s.mutate(ctx, "UpdateDay", func(doc *domain.TripDocument) error {
		target := doc.FindDay(day.ID)
		if target == nil {
			return fmt.Errorf("%w: day %s", domain.ErrNotFound, day.ID)
		}
		target.Region = day.Region
		target.DriveTimeHours = day.DriveTimeHours
		target.DriveDistanceKm = day.DriveDistanceKm
		target.MapURL = day.MapURL
		target.Notes = day.Notes
		return nil
	})
}

// DeleteDay removes a day. Remaining days are renumbered; their IDs never
// change.
func (s *DocumentService) DeleteDay(ctx context.Context, dayID string) (domain.TripDocument, error) {
	return s.mutate(ctx, "DeleteDay", func(doc *domain.TripDocument) error {
		for i := range doc.Days {
			if doc.Days[i].ID == dayID {
				doc.Days = append(doc.Days[:i], doc.Days[i+1:]...)
				doc.Renumber()
				return nil
			}
		}
		return fmt.Errorf("%w: day %s", domain.ErrNotFound, dayID)
	})
}

// LinkStay groups a consecutive run of days into one lodging stay: every
// day gets the same new accommodation ID, its night ordinal, and a by-value
// copy of the accommodation payload with NumberOfNights set to the stay
// length.
func (s *DocumentService) LinkStay(ctx context.Context, dayIDs []string, acc domain.Accommodation) (domain.TripDocument, error) {
	if len(dayIDs) == 0 {
		return domain.TripDocument{}, fmt.Errorf("%w: at least one day is required", domain.ErrValidation)
	}

	return s.mutate(ctx, "LinkStay", func(doc *domain.TripDocument) error {
		indexes := make([]int, 0, len(dayIDs))
		want := make(map[string]bool, len(dayIDs))
		for _, id := range dayIDs {
			want[id] = true
		}
		for i := range doc.Days {
			if want[doc.Days[i].ID] {
				indexes = append(indexes, i)
			}
		}
		if len(indexes) != len(dayIDs) {
			return fmt.Errorf("%w: unknown day in stay", domain.ErrNotFound)
		}
		for i := 1; i < len(indexes); i++ {
			if indexes[i] != indexes[i-1]+1 {
				return fmt.Errorf("%w: stay days must be consecutive", domain.ErrValidation)
			}
		}

		stayID := uuid.NewString()
		acc.NumberOfNights = len(indexes)
		for night, idx := range indexes {
			doc.Days[idx].AccommodationID = stayID
			doc.Days[idx].NightNumber = night + 1
			doc.Days[idx].Accommodation = acc.Clone()
		}
		return nil
	})
}

// UpdateAccommodation overwrites the accommodation on a day. When the day
// belongs to a multi-day stay the payload is fanned out by value to every
// linked day, preserving the invariant that linked days carry identical
// copies.
func (s *DocumentService) UpdateAccommodation(ctx context.Context, dayID string, acc domain.Accommodation) (domain.TripDocument, error) {
	return s.mutate(ctx, "UpdateAccommodation", func(doc *domain.TripDocument) error {
		day := doc.FindDay(dayID)
		if day == nil {
			return fmt.Errorf("%w: day %s", domain.ErrNotFound, dayID)
		}
		linked := doc.LinkedDayIDs(day.AccommodationID)
		if len(linked) == 0 {
			linked = []string{dayID}
		}
		for _, id := range linked {
			doc.FindDay(id).Accommodation = acc.Clone()
		}
		return nil
	})
}

// AddPlace appends a place to a day and returns it.
func (s *DocumentService) AddPlace(ctx context.Context, dayID string, place domain.Place) (domain.Place, error) {
	if strings.TrimSpace(place.Name) == "" {
		return domain.Place{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	place.ID = uuid.NewString()
	_, err := s.mutate(ctx, "AddPlace", func(doc *domain.TripDocument) error {
		day := doc.FindDay(dayID)
		if day == nil {
			return fmt.Errorf("%w: day %s", domain.ErrNotFound, dayID)
		}
		day.Places = append(day.Places, place.Clone())
		return nil
	})
	if err != nil {
		return domain.Place{}, err
	}
	return place, nil
}

// UpdatePlace overwrites the fields of an existing place.
func (s *DocumentService) UpdatePlace(ctx context.Context, dayID string, place domain.Place) (domain.TripDocument, error) {
	return s.mutate(ctx, "UpdatePlace", func(doc *domain.TripDocument) error {
		day := doc.FindDay(dayID)
		if day == nil {
			return fmt.Errorf("%w: day %s", domain.ErrNotFound, dayID)
		}
		target := day.FindPlace(place.ID)
		if target == nil {
			return fmt.Errorf("%w: place %s", domain.ErrNotFound, place.ID)
		}
		id := target.ID
		*target = place.Clone()
		target.ID = id
		return nil
	})
}

// DeletePlace removes a place from a day.
func (s *DocumentService) DeletePlace(ctx context.Context, dayID, placeID string) (domain.TripDocument, error) {
	return s.mutate(ctx, "DeletePlace", func(doc *domain.TripDocument) error {
		day := doc.FindDay(dayID)
		if day == nil {
			return fmt.Errorf("%w: day %s", domain.ErrNotFound, dayID)
		}
		for i := range day.Places {
			if day.Places[i].ID == placeID {
				day.Places = append(day.Places[:i], day.Places[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: place %s", domain.ErrNotFound, placeID)
	})
}

// Import replaces the document with externally supplied JSON. The content
// is shape-validated before anything is mutated; a malformed file leaves
// the live document untouched.
func (s *DocumentService) Import(ctx context.Context, content string) (domain.TripDocument, error) {
	doc, err := domain.ParseDocument(content)
	if err != nil {
		return domain.TripDocument{}, fmt.Errorf("service.DocumentService.Import: %w: %v", domain.ErrValidation, err)
	}
	doc.Renumber()
	doc.RecomputeEndDate()
	if err := s.store.Commit(ctx, doc); err != nil {
		return domain.TripDocument{}, fmt.Errorf("service.DocumentService.Import: %w", err)
	}
	return doc, nil
}

// Export returns the document as indented JSON.
func (s *DocumentService) Export(ctx context.Context) (string, error) {
	doc, err := s.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("service.DocumentService.Export: %w", err)
	}
	return doc.Serialize(), nil
}

// mutate loads the document, applies fn, recomputes derived fields, and
// commits. Derived values (day numbers, end date) are recomputed in this
// one place so no mutation can forget them.
func (s *DocumentService) mutate(ctx context.Context, op string, fn func(*domain.TripDocument) error) (domain.TripDocument, error) {
	doc, err := s.Get(ctx)
	if err != nil {
		return domain.TripDocument{}, fmt.Errorf("service.DocumentService.%s: %w", op, err)
	}
	if err := fn(&doc); err != nil {
		return domain.TripDocument{}, fmt.Errorf("service.DocumentService.%s: %w", op, err)
	}
	doc.RecomputeEndDate()
	if err := s.store.Commit(ctx, doc); err != nil {
		return domain.TripDocument{}, fmt.Errorf("service.DocumentService.%s: %w", op, err)
	}
	return doc, nil
}
