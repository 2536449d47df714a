package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripfolio/tripfolio/internal/domain"
	"github.com/tripfolio/tripfolio/internal/service"
)

// memStore is a minimal in-memory store.Store for service tests.
type memStore struct {
	doc      *domain.TripDocument
	commits  int
	snapshot *string
	syncTime *time.Time
}

func (m *memStore) Document(ctx context.Context) (domain.TripDocument, bool, error) {
	if m.doc == nil {
		return domain.TripDocument{}, false, nil
	}
	return m.doc.Clone(), true, nil
}

func (m *memStore) Commit(ctx context.Context, doc domain.TripDocument) error {
	d := doc.Clone()
	m.doc = &d
	m.commits++
	return nil
}

func (m *memStore) LastSyncedSnapshot(ctx context.Context) (string, bool, error) {
	if m.snapshot == nil {
		return "", false, nil
	}
	return *m.snapshot, true, nil
}

func (m *memStore) LastSyncTime(ctx context.Context) (time.Time, bool, error) {
	if m.syncTime == nil {
		return time.Time{}, false, nil
	}
	return *m.syncTime, true, nil
}

func (m *memStore) SetLastSynced(ctx context.Context, snapshot string, at time.Time) error {
	m.snapshot = &snapshot
	m.syncTime = &at
	return nil
}

func (m *memStore) TouchLastSyncTime(ctx context.Context, at time.Time) error {
	m.syncTime = &at
	return nil
}

func seeded(t *testing.T) (*service.DocumentService, *memStore, domain.TripDocument) {
	t.Helper()
	store := &memStore{}
	svc := service.NewDocumentService(store)

	doc, err := svc.Get(context.Background())
	require.NoError(t, err)
	return svc, store, doc
}

// ---- Get ----

func TestGet_seedsDefaultDocument(t *testing.T) {
	_, store, doc := seeded(t)

	assert.Equal(t, "New Trip", doc.TripInfo.Name)
	require.Len(t, doc.Days, 1)
	assert.Equal(t, 1, doc.Days[0].DayNumber)
	assert.NotEmpty(t, doc.Days[0].ID)
	assert.Equal(t, doc.TripInfo.StartDate, doc.TripInfo.EndDate)
	assert.Equal(t, 1, store.commits, "the seeded document is persisted")
}

func TestGet_returnsExistingDocument(t *testing.T) {
	svc, store, first := seeded(t)

	second, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.commits)
}

// ---- trip info ----

func TestUpdateTripInfo(t *testing.T) {
	svc, _, _ := seeded(t)

	doc, err := svc.UpdateTripInfo(context.Background(), "Iceland", "Summer loop", "2026-06-01")

	require.NoError(t, err)
	assert.Equal(t, "Iceland", doc.TripInfo.Name)
	assert.Equal(t, "Summer loop", doc.TripInfo.Description)
	assert.Equal(t, "2026-06-01", doc.TripInfo.StartDate)
	assert.Equal(t, "2026-06-01", doc.TripInfo.EndDate)
}

func TestUpdateTripInfo_validation(t *testing.T) {
	svc, _, _ := seeded(t)
	ctx := context.Background()

	_, err := svc.UpdateTripInfo(ctx, "  ", "", "2026-06-01")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateTripInfo(ctx, "Iceland", "", "June 1st")
	require.ErrorIs(t, err, domain.ErrValidation)
}

// ---- days ----

func TestAddDay_appendsAndRenumbers(t *testing.T) {
	svc, _, _ := seeded(t)
	ctx := context.Background()

	day, err := svc.AddDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, day.DayNumber)
	assert.NotEmpty(t, day.ID)

	doc, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Days, 2)
	// End date tracks the day count.
	start, _ := time.Parse(domain.DateLayout, doc.TripInfo.StartDate)
	assert.Equal(t, start.AddDate(0, 0, 1).Format(domain.DateLayout), doc.TripInfo.EndDate)
}

func TestUpdateDay_scalarsOnly(t *testing.T) {
	svc, _, doc := seeded(t)
	dayID := doc.Days[0].ID

	updated, err := svc.UpdateDay(context.Background(), domain.Day{
		ID:              dayID,
		Region:          "Westfjords",
		DriveTimeHours:  4.5,
		DriveDistanceKm: 320,
		Notes:           "Gravel roads",
		DayNumber:       99, // display numbering is not caller-controlled
	})

	require.NoError(t, err)
	day := updated.FindDay(dayID)
	require.NotNil(t, day)
	assert.Equal(t, "Westfjords", day.Region)
	assert.Equal(t, 4.5, day.DriveTimeHours)
	assert.Equal(t, 320.0, day.DriveDistanceKm)
	assert.Equal(t, "Gravel roads", day.Notes)
	assert.Equal(t, 1, day.DayNumber)
}

func TestUpdateDay_unknownDay(t *testing.T) {
	svc, _, _ := seeded(t)

	_, err := svc.UpdateDay(context.Background(), domain.Day{ID: "nope"})

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteDay_renumbersSurvivors(t *testing.T) {
	svc, _, doc := seeded(t)
	ctx := context.Background()
	firstID := doc.Days[0].ID
	_, err := svc.AddDay(ctx)
	require.NoError(t, err)
	third, err := svc.AddDay(ctx)
	require.NoError(t, err)

	updated, err := svc.DeleteDay(ctx, firstID)

	require.NoError(t, err)
	require.Len(t, updated.Days, 2)
	assert.Nil(t, updated.FindDay(firstID))
	assert.Equal(t, 1, updated.Days[0].DayNumber)
	assert.Equal(t, 2, updated.Days[1].DayNumber)
	// Identity survives renumbering.
	assert.Equal(t, third.ID, updated.Days[1].ID)
}

// ---- stays and accommodation ----

func TestLinkStay_linksConsecutiveDays(t *testing.T) {
	svc, _, doc := seeded(t)
	ctx := context.Background()
	day2, err := svc.AddDay(ctx)
	require.NoError(t, err)
	day3, err := svc.AddDay(ctx)
	require.NoError(t, err)

	updated, err := svc.LinkStay(ctx, []string{day2.ID, day3.ID}, domain.Accommodation{Name: "Berghaus"})

	require.NoError(t, err)
	d2, d3 := updated.FindDay(day2.ID), updated.FindDay(day3.ID)
	require.NotNil(t, d2)
	require.NotNil(t, d3)
	assert.NotEmpty(t, d2.AccommodationID)
	assert.Equal(t, d2.AccommodationID, d3.AccommodationID)
	assert.Equal(t, 1, d2.NightNumber)
	assert.Equal(t, 2, d3.NightNumber)
	assert.Equal(t, "Berghaus", d2.Accommodation.Name)
	assert.Equal(t, "Berghaus", d3.Accommodation.Name)
	assert.Equal(t, 2, d2.Accommodation.NumberOfNights)
	assert.Equal(t, 2, d3.Accommodation.NumberOfNights)
	// Day 1 is not part of the stay.
	assert.Empty(t, updated.FindDay(doc.Days[0].ID).AccommodationID)
}

func TestLinkStay_rejectsNonConsecutiveDays(t *testing.T) {
	svc, _, doc := seeded(t)
	ctx := context.Background()
	_, err := svc.AddDay(ctx)
	require.NoError(t, err)
	day3, err := svc.AddDay(ctx)
	require.NoError(t, err)

	_, err = svc.LinkStay(ctx, []string{doc.Days[0].ID, day3.ID}, domain.Accommodation{Name: "Berghaus"})

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestLinkStay_rejectsUnknownAndEmpty(t *testing.T) {
	svc, _, _ := seeded(t)
	ctx := context.Background()

	_, err := svc.LinkStay(ctx, nil, domain.Accommodation{})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.LinkStay(ctx, []string{"nope"}, domain.Accommodation{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateAccommodation_fansOutToLinkedDays(t *testing.T) {
	svc, _, _ := seeded(t)
	ctx := context.Background()
	day2, err := svc.AddDay(ctx)
	require.NoError(t, err)
	day3, err := svc.AddDay(ctx)
	require.NoError(t, err)
	_, err = svc.LinkStay(ctx, []string{day2.ID, day3.ID}, domain.Accommodation{Name: "Berghaus"})
	require.NoError(t, err)

	updated, err := svc.UpdateAccommodation(ctx, day2.ID, domain.Accommodation{
		Name:           "Berghaus Alpina",
		NumberOfNights: 2,
		Amenities:      domain.Amenities{Sauna: true},
	})

	require.NoError(t, err)
	// The edit went in through day 2 but both copies must match.
	assert.Equal(t, "Berghaus Alpina", updated.FindDay(day2.ID).Accommodation.Name)
	assert.Equal(t, "Berghaus Alpina", updated.FindDay(day3.ID).Accommodation.Name)
	assert.True(t, updated.FindDay(day3.ID).Accommodation.Amenities.Sauna)
}

func TestUpdateAccommodation_singleDay(t *testing.T) {
	svc, _, doc := seeded(t)

	updated, err := svc.UpdateAccommodation(context.Background(), doc.Days[0].ID, domain.Accommodation{Name: "Guesthouse"})

	require.NoError(t, err)
	assert.Equal(t, "Guesthouse", updated.Days[0].Accommodation.Name)
}

// ---- places ----

func TestAddPlace(t *testing.T) {
	svc, _, doc := seeded(t)

	place, err := svc.AddPlace(context.Background(), doc.Days[0].ID, domain.Place{Name: "Blue Lagoon"})

	require.NoError(t, err)
	assert.NotEmpty(t, place.ID)
	assert.Equal(t, "Blue Lagoon", place.Name)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got.Days[0].FindPlace(place.ID))
}

func TestAddPlace_requiresName(t *testing.T) {
	svc, _, doc := seeded(t)

	_, err := svc.AddPlace(context.Background(), doc.Days[0].ID, domain.Place{Name: "  "})

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdatePlace_preservesIdentity(t *testing.T) {
	svc, _, doc := seeded(t)
	ctx := context.Background()
	place, err := svc.AddPlace(ctx, doc.Days[0].ID, domain.Place{Name: "Blue Lagoon"})
	require.NoError(t, err)

	updated, err := svc.UpdatePlace(ctx, doc.Days[0].ID, domain.Place{
		ID:   place.ID,
		Name: "Sky Lagoon",
	})

	require.NoError(t, err)
	got := updated.Days[0].FindPlace(place.ID)
	require.NotNil(t, got)
	assert.Equal(t, "Sky Lagoon", got.Name)
}

func TestDeletePlace(t *testing.T) {
	svc, _, doc := seeded(t)
	ctx := context.Background()
	place, err := svc.AddPlace(ctx, doc.Days[0].ID, domain.Place{Name: "Blue Lagoon"})
	require.NoError(t, err)

	updated, err := svc.DeletePlace(ctx, doc.Days[0].ID, place.ID)

	require.NoError(t, err)
	assert.Nil(t, updated.Days[0].FindPlace(place.ID))

	_, err = svc.DeletePlace(ctx, doc.Days[0].ID, place.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- import / export ----

func TestImport_replacesDocument(t *testing.T) {
	svc, _, _ := seeded(t)
	incoming := domain.TripDocument{
		TripInfo: domain.TripInfo{Name: "Imported", StartDate: "2026-09-01"},
		Days:     []domain.Day{{ID: "x1", Places: []domain.Place{}}},
	}

	doc, err := svc.Import(context.Background(), incoming.Serialize())

	require.NoError(t, err)
	assert.Equal(t, "Imported", doc.TripInfo.Name)
	assert.Equal(t, 1, doc.Days[0].DayNumber)
	assert.Equal(t, "2026-09-01", doc.TripInfo.EndDate)
}

func TestImport_rejectsMalformedWithoutMutating(t *testing.T) {
	svc, store, before := seeded(t)

	_, err := svc.Import(context.Background(), `{"days": []}`)

	require.ErrorIs(t, err, domain.ErrValidation)
	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, got)
	assert.Equal(t, 1, store.commits)
}

func TestExport_isParseable(t *testing.T) {
	svc, _, _ := seeded(t)

	content, err := svc.Export(context.Background())

	require.NoError(t, err)
	_, err = domain.ParseDocument(content)
	require.NoError(t, err)
}
