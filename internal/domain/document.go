// Package domain contains the core data types for the Tripfolio sync backend.
// This package has no dependencies on other internal packages and is imported
// by every other layer (store, diff, service, sync, handler).
package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format for all document dates ("2006-01-02").
// The document is exchanged with a browser frontend, so dates travel as
// plain calendar strings, not RFC 3339 instants.
const DateLayout = "2006-01-02"

// TripDocument is the root aggregate: one trip, one file.
// It is the unit of synchronization: the whole document is serialized to a
// single JSON file in the remote store.
type TripDocument struct {
	TripInfo TripInfo `json:"tripInfo"`
	Days     []Day    `json:"days" validate:"dive"`
}

// TripInfo holds the trip-level metadata.
// EndDate is derived from StartDate plus the number of days and is excluded
// from conflict detection.
type TripInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
}

// Day is one itinerary day. Identity is the opaque ID, assigned at creation
// and never reused; DayNumber is display order only and is recomputed
// whenever days are added or deleted.
//
// When several consecutive days share one lodging stay they carry the same
// AccommodationID, and the accommodation payload is duplicated by value into
// every participating day. NightNumber is this day's ordinal within the stay.
type Day struct {
	ID              string        `json:"id" validate:"required"`
	DayNumber       int           `json:"dayNumber"`
	Region          string        `json:"region,omitempty"`
	DriveTimeHours  float64       `json:"driveTimeHours,omitempty"`
	DriveDistanceKm float64       `json:"driveDistanceKm,omitempty"`
	MapURL          string        `json:"mapUrl,omitempty"`
	AccommodationID string        `json:"accommodationId,omitempty"`
	NightNumber     int           `json:"nightNumber,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Accommodation   Accommodation `json:"accommodation"`
	Places          []Place       `json:"places"`
}

// Place is a point of interest scoped to a single day.
// Its ID is stable for the lifetime of the place and unique within the trip.
type Place struct {
	ID            string   `json:"id" validate:"required"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	WebsiteURL    string   `json:"websiteUrl,omitempty"`
	GoogleMapsURL string   `json:"googleMapsUrl,omitempty"`
	Images        []string `json:"images,omitempty"`
}

// validate is shared across ParseDocument calls; validator.Validate is
// safe for concurrent use.
var validate = validator.New()

// ParseDocument deserializes and shape-checks a trip document.
// A document missing the tripInfo object or the day list is rejected before
// any of its content is used; beyond that only identity is enforced (every
// day and place needs an ID). Empty trip metadata is a content problem the
// user can fix, not corruption, so it passes. A corrupt remote or import
// file must never be partially applied or silently replaced with defaults.
func ParseDocument(content string) (TripDocument, error) {
	if content == "" {
		return TripDocument{}, fmt.Errorf("domain.ParseDocument: %w: empty content", ErrCorruptDocument)
	}

	// Decode through a shadow struct with pointer fields so "key absent"
	// is distinguishable from "key present but empty".
	var raw struct {
		TripInfo *TripInfo `json:"tripInfo"`
		Days     *[]Day    `json:"days"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return TripDocument{}, fmt.Errorf("domain.ParseDocument: %w: %v", ErrCorruptDocument, err)
	}
	if raw.TripInfo == nil || raw.Days == nil {
		return TripDocument{}, fmt.Errorf("domain.ParseDocument: %w: missing tripInfo or days", ErrCorruptDocument)
	}

	doc := TripDocument{TripInfo: *raw.TripInfo, Days: *raw.Days}
	if err := validate.Struct(doc); err != nil {
		return TripDocument{}, fmt.Errorf("domain.ParseDocument: %w: %v", ErrCorruptDocument, err)
	}
	return doc, nil
}

// Serialize renders the document as indented JSON, the format exchanged with
// the remote store and the import/export surface. Marshaling a TripDocument
// cannot fail, so Serialize returns only the string.
func (d TripDocument) Serialize() string {
	b, _ := json.MarshalIndent(d, "", "  ")
	return string(b)
}

// Clone returns a deep copy of the document. The diff applier and the
// orchestrator operate on clones so callers' documents are never mutated.
func (d TripDocument) Clone() TripDocument {
	out := d
	out.Days = make([]Day, len(d.Days))
	for i, day := range d.Days {
		out.Days[i] = day.Clone()
	}
	return out
}

// Clone returns a deep copy of the day, including its accommodation payload
// and place list.
func (day Day) Clone() Day {
	out := day
	out.Accommodation = day.Accommodation.Clone()
	out.Places = make([]Place, len(day.Places))
	for i, p := range day.Places {
		out.Places[i] = p.Clone()
	}
	return out
}

// Clone returns a deep copy of the place.
func (p Place) Clone() Place {
	out := p
	out.Images = append([]string(nil), p.Images...)
	return out
}

// FindDay returns a pointer to the day with the given ID, or nil.
func (d *TripDocument) FindDay(dayID string) *Day {
	for i := range d.Days {
		if d.Days[i].ID == dayID {
			return &d.Days[i]
		}
	}
	return nil
}

// FindPlace returns a pointer to the place with the given ID within the day,
// or nil.
func (day *Day) FindPlace(placeID string) *Place {
	for i := range day.Places {
		if day.Places[i].ID == placeID {
			return &day.Places[i]
		}
	}
	return nil
}

// Renumber recomputes the derived display numbers: DayNumber is the
// 1-indexed position in the itinerary. Call after any day add or delete.
func (d *TripDocument) Renumber() {
	for i := range d.Days {
		d.Days[i].DayNumber = i + 1
	}
}

// RecomputeEndDate derives TripInfo.EndDate from the start date and the day
// count. A trip with N days ends N-1 days after it starts. Unparseable or
// empty start dates clear the end date instead of guessing.
func (d *TripDocument) RecomputeEndDate() {
	start, err := time.Parse(DateLayout, d.TripInfo.StartDate)
	if err != nil || len(d.Days) == 0 {
		d.TripInfo.EndDate = ""
		return
	}
	d.TripInfo.EndDate = start.AddDate(0, 0, len(d.Days)-1).Format(DateLayout)
}

// LinkedDayIDs returns the IDs of all days sharing the given accommodation
// ID, in itinerary order. Returns nil for an empty accommodation ID.
func (d *TripDocument) LinkedDayIDs(accommodationID string) []string {
	if accommodationID == "" {
		return nil
	}
	var ids []string
	for i := range d.Days {
		if d.Days[i].AccommodationID == accommodationID {
			ids = append(ids, d.Days[i].ID)
		}
	}
	return ids
}
