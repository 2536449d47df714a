package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tripfolio/tripfolio/internal/domain"
)

// Apply produces the merged document: the local document with every
// conflict overwritten by its resolved value. The input document is never
// mutated; Apply works on a deep copy.
//
// Every conflict must have a resolution. The UI enforces this before
// calling, but Apply still guards: a missing entry fails the whole merge
// with ErrValidation rather than producing a half-applied document.
func Apply(local domain.TripDocument, conflicts []domain.Conflict, resolutions map[string]domain.Resolution) (domain.TripDocument, error) {
	out := local.Clone()

	for _, c := range conflicts {
		res, ok := resolutions[c.ID]
		if !ok {
			return domain.TripDocument{}, fmt.Errorf("diff.Apply: %w: missing resolution for conflict %s", domain.ErrValidation, c.ID)
		}
		value, err := resolveValue(c, res)
		if err != nil {
			return domain.TripDocument{}, err
		}
		if err := applyOne(&out, c, value); err != nil {
			return domain.TripDocument{}, err
		}
	}

	out.Renumber()
	out.RecomputeEndDate()
	return out, nil
}

// resolveValue picks the value a resolution settles on.
func resolveValue(c domain.Conflict, res domain.Resolution) (any, error) {
	switch res.Choice {
	case domain.ResolveLocal:
		return c.LocalValue, nil
	case domain.ResolveRemote:
		return c.RemoteValue, nil
	case domain.ResolveManual:
		s, ok := res.Value.(string)
		if !ok {
			return nil, fmt.Errorf("diff.Apply: %w: manual resolution for %s must be a string", domain.ErrValidation, c.ID)
		}
		return s, nil
	case domain.ResolveCombine:
		if !c.CanCombine {
			return nil, fmt.Errorf("diff.Apply: %w: conflict %s does not support combine", domain.ErrValidation, c.ID)
		}
		local, _ := toStringSlice(c.LocalValue)
		remote, _ := toStringSlice(c.RemoteValue)
		return CombineImages(local, remote), nil
	default:
		return nil, fmt.Errorf("diff.Apply: %w: unknown resolution choice %q for %s", domain.ErrValidation, res.Choice, c.ID)
	}
}

func applyOne(doc *domain.TripDocument, c domain.Conflict, value any) error {
	switch c.Type {
	case domain.ConflictTripInfo:
		return setTripInfoField(&doc.TripInfo, c.Field, value)

	case domain.ConflictDay:
		day := doc.FindDay(c.DayID)
		if day == nil {
			return fmt.Errorf("diff.Apply: %w: day %s", domain.ErrNotFound, c.DayID)
		}
		return setDayField(day, c.Field, value)

	case domain.ConflictAccommodation:
		// Deduplicated conflicts span several days; fan the value out to the
		// accommodation copy on each of them to restore the invariant that
		// linked days carry identical payloads.
		dayIDs := c.AffectedDayIDs
		if len(dayIDs) == 0 {
			dayIDs = []string{c.DayID}
		}
		for _, id := range dayIDs {
			day := doc.FindDay(id)
			if day == nil {
				return fmt.Errorf("diff.Apply: %w: day %s", domain.ErrNotFound, id)
			}
			if err := setAccommodationField(&day.Accommodation, c.Field, value); err != nil {
				return err
			}
		}
		return nil

	case domain.ConflictPlace:
		day := doc.FindDay(c.DayID)
		if day == nil {
			return fmt.Errorf("diff.Apply: %w: day %s", domain.ErrNotFound, c.DayID)
		}
		place := day.FindPlace(c.PlaceID)
		if place == nil {
			return fmt.Errorf("diff.Apply: %w: place %s", domain.ErrNotFound, c.PlaceID)
		}
		return setPlaceField(place, c.Field, value)

	case domain.ConflictDayAdded, domain.ConflictDayDeleted:
		return applyDayExistence(doc, c, value)

	case domain.ConflictPlaceAdded, domain.ConflictPlaceDeleted:
		return applyPlaceExistence(doc, c, value)

	default:
		return fmt.Errorf("diff.Apply: %w: unknown conflict type %q", domain.ErrValidation, c.Type)
	}
}

// applyDayExistence settles a day add/delete conflict: a nil resolved value
// means the day is not kept; any non-nil value keeps or restores it.
func applyDayExistence(doc *domain.TripDocument, c domain.Conflict, value any) error {
	if value == nil {
		removeDay(doc, c.DayID)
		return nil
	}
	day, ok := value.(domain.Day)
	if !ok {
		return fmt.Errorf("diff.Apply: %w: resolved value for %s is not a day", domain.ErrValidation, c.ID)
	}
	if doc.FindDay(day.ID) == nil {
		insertDayInOrder(doc, day.Clone())
	}
	return nil
}

// applyPlaceExistence is the place-scoped counterpart, operating within the
// owning day's place list.
func applyPlaceExistence(doc *domain.TripDocument, c domain.Conflict, value any) error {
	day := doc.FindDay(c.DayID)
	if day == nil {
		return fmt.Errorf("diff.Apply: %w: day %s", domain.ErrNotFound, c.DayID)
	}
	if value == nil {
		for i := range day.Places {
			if day.Places[i].ID == c.PlaceID {
				day.Places = append(day.Places[:i], day.Places[i+1:]...)
				break
			}
		}
		return nil
	}
	place, ok := value.(domain.Place)
	if !ok {
		return fmt.Errorf("diff.Apply: %w: resolved value for %s is not a place", domain.ErrValidation, c.ID)
	}
	if day.FindPlace(place.ID) == nil {
		day.Places = append(day.Places, place.Clone())
	}
	return nil
}

func removeDay(doc *domain.TripDocument, dayID string) {
	for i := range doc.Days {
		if doc.Days[i].ID == dayID {
			doc.Days = append(doc.Days[:i], doc.Days[i+1:]...)
			return
		}
	}
}

// insertDayInOrder restores a day at the position its display number
// indicates; Renumber then makes the numbering contiguous again.
func insertDayInOrder(doc *domain.TripDocument, day domain.Day) {
	idx := sort.Search(len(doc.Days), func(i int) bool {
		return doc.Days[i].DayNumber >= day.DayNumber
	})
	doc.Days = append(doc.Days, domain.Day{})
	copy(doc.Days[idx+1:], doc.Days[idx:])
	doc.Days[idx] = day
}

// --- field setters ----------------------------------------------------------

func setTripInfoField(info *domain.TripInfo, field string, value any) error {
	s, ok := value.(string)
	if !ok {
		return typeError("tripInfo", field, value)
	}
	switch field {
	case "name":
		info.Name = s
	case "startDate":
		info.StartDate = s
	case "description":
		info.Description = s
	default:
		return unknownField("tripInfo", field)
	}
	return nil
}

func setDayField(day *domain.Day, field string, value any) error {
	switch field {
	case "region", "notes":
		s, ok := value.(string)
		if !ok {
			return typeError("day", field, value)
		}
		if field == "region" {
			day.Region = s
		} else {
			day.Notes = s
		}
	case "driveTimeHours", "driveDistanceKm":
		f, ok := toFloat(value)
		if !ok {
			return typeError("day", field, value)
		}
		if field == "driveTimeHours" {
			day.DriveTimeHours = f
		} else {
			day.DriveDistanceKm = f
		}
	default:
		return unknownField("day", field)
	}
	return nil
}

func setAccommodationField(acc *domain.Accommodation, field string, value any) error {
	if category, ok := strings.CutPrefix(field, "amenities."); ok {
		if category == "other" {
			list, ok := toStringSlice(value)
			if !ok {
				return typeError("accommodation", field, value)
			}
			acc.Amenities.Other = list
			return nil
		}
		b, ok := value.(bool)
		if !ok {
			return typeError("accommodation", field, value)
		}
		if !setAmenityFlag(&acc.Amenities, category, b) {
			return unknownField("accommodation", field)
		}
		return nil
	}

	switch field {
	case "name", "websiteUrl", "description", "roomType":
		s, ok := value.(string)
		if !ok {
			return typeError("accommodation", field, value)
		}
		switch field {
		case "name":
			acc.Name = s
		case "websiteUrl":
			acc.WebsiteURL = s
		case "description":
			acc.Description = s
		case "roomType":
			acc.RoomType = s
		}
	case "numberOfNights":
		n, ok := toInt(value)
		if !ok {
			return typeError("accommodation", field, value)
		}
		acc.NumberOfNights = n
	case "images":
		list, ok := toStringSlice(value)
		if !ok {
			return typeError("accommodation", field, value)
		}
		acc.Images = list
	default:
		return unknownField("accommodation", field)
	}
	return nil
}

func setPlaceField(place *domain.Place, field string, value any) error {
	switch field {
	case "name", "description", "websiteUrl", "googleMapsUrl":
		s, ok := value.(string)
		if !ok {
			return typeError("place", field, value)
		}
		switch field {
		case "name":
			place.Name = s
		case "description":
			place.Description = s
		case "websiteUrl":
			place.WebsiteURL = s
		case "googleMapsUrl":
			place.GoogleMapsURL = s
		}
	case "images":
		list, ok := toStringSlice(value)
		if !ok {
			return typeError("place", field, value)
		}
		place.Images = list
	default:
		return unknownField("place", field)
	}
	return nil
}

// --- value coercion ---------------------------------------------------------

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

// toStringSlice accepts []string directly and []any of strings, the shape
// a list takes after a round trip through encoding/json.
func toStringSlice(v any) ([]string, bool) {
	switch list := v.(type) {
	case nil:
		return nil, true
	case []string:
		return list, true
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func typeError(scope, field string, value any) error {
	return fmt.Errorf("diff.Apply: %w: unexpected value type %T for %s.%s", domain.ErrValidation, value, scope, field)
}

func unknownField(scope, field string) error {
	return fmt.Errorf("diff.Apply: %w: unknown field %s.%s", domain.ErrValidation, scope, field)
}
