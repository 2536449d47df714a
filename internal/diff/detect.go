// Package diff implements whole-document conflict detection, deduplication,
// and resolution application for trip documents. Everything in this package
// is pure: functions never mutate their inputs and perform no I/O.
package diff

import (
	"encoding/json"
	"fmt"

	"github.com/tripfolio/tripfolio/internal/domain"
)

// Detect compares two snapshots of the trip document field by field and
// returns the ordered list of conflicts. Order is deterministic: trip-level
// fields first, then days in local itinerary order, then remote-only days.
//
// Empty-string and absent are equivalent for all optional scalar fields: a
// field that is "" on one side and unset on the other is not a conflict.
// TripInfo.EndDate is derived and deliberately excluded.
func Detect(local, remote domain.TripDocument) []domain.Conflict {
	var conflicts []domain.Conflict

	conflicts = append(conflicts, detectTripInfo(local.TripInfo, remote.TripInfo)...)

	remoteDays := make(map[string]domain.Day, len(remote.Days))
	for _, d := range remote.Days {
		remoteDays[d.ID] = d
	}
	localDays := make(map[string]domain.Day, len(local.Days))
	for _, d := range local.Days {
		localDays[d.ID] = d
	}

	for _, ld := range local.Days {
		rd, ok := remoteDays[ld.ID]
		if !ok {
			// Local created this day; the remote copy does not know it yet.
			conflicts = append(conflicts, domain.Conflict{
				ID:         conflictID("dayAdded", ld.ID, ""),
				Type:       domain.ConflictDayAdded,
				Path:       dayPath(ld.DayNumber),
				Field:      "day",
				LocalValue: ld,
				DayID:      ld.ID,
				DayNumber:  ld.DayNumber,
			})
			continue
		}
		conflicts = append(conflicts, detectDay(ld, rd)...)
	}

	for _, rd := range remote.Days {
		if _, ok := localDays[rd.ID]; ok {
			continue
		}
		// Local deleted this day; the remote copy still has it.
		conflicts = append(conflicts, domain.Conflict{
			ID:          conflictID("dayDeleted", rd.ID, ""),
			Type:        domain.ConflictDayDeleted,
			Path:        dayPath(rd.DayNumber),
			Field:       "day",
			RemoteValue: rd,
			DayID:       rd.ID,
			DayNumber:   rd.DayNumber,
		})
	}

	return conflicts
}

func detectTripInfo(local, remote domain.TripInfo) []domain.Conflict {
	fields := []struct {
		name          string
		local, remote string
	}{
		{"name", local.Name, remote.Name},
		{"startDate", local.StartDate, remote.StartDate},
		{"description", local.Description, remote.Description},
	}

	var conflicts []domain.Conflict
	for _, f := range fields {
		if textEqual(f.local, f.remote) {
			continue
		}
		conflicts = append(conflicts, domain.Conflict{
			ID:          conflictID("tripInfo", "", f.name),
			Type:        domain.ConflictTripInfo,
			Path:        "Trip Info",
			Field:       f.name,
			LocalValue:  f.local,
			RemoteValue: f.remote,
		})
	}
	return conflicts
}

func detectDay(local, remote domain.Day) []domain.Conflict {
	var conflicts []domain.Conflict
	path := dayPath(local.DayNumber)

	text := []struct {
		name          string
		local, remote string
	}{
		{"region", local.Region, remote.Region},
		{"notes", local.Notes, remote.Notes},
	}
	for _, f := range text {
		if !textEqual(f.local, f.remote) {
			conflicts = append(conflicts, dayConflict(local, f.name, f.local, f.remote))
		}
	}

	numbers := []struct {
		name          string
		local, remote float64
	}{
		{"driveTimeHours", local.DriveTimeHours, remote.DriveTimeHours},
		{"driveDistanceKm", local.DriveDistanceKm, remote.DriveDistanceKm},
	}
	for _, f := range numbers {
		if f.local != f.remote {
			conflicts = append(conflicts, dayConflict(local, f.name, f.local, f.remote))
		}
	}

	conflicts = append(conflicts, detectAccommodation(local, remote)...)
	conflicts = append(conflicts, detectPlaces(local, remote, path)...)
	return conflicts
}

func dayConflict(day domain.Day, field string, localValue, remoteValue any) domain.Conflict {
	return domain.Conflict{
		ID:          conflictID("day", day.ID, field),
		Type:        domain.ConflictDay,
		Path:        dayPath(day.DayNumber),
		Field:       field,
		LocalValue:  localValue,
		RemoteValue: remoteValue,
		DayID:       day.ID,
		DayNumber:   day.DayNumber,
	}
}

func detectAccommodation(day, remoteDay domain.Day) []domain.Conflict {
	local, remote := day.Accommodation, remoteDay.Accommodation
	path := dayPath(day.DayNumber) + " / Accommodation"

	mk := func(field string, localValue, remoteValue any) domain.Conflict {
		return domain.Conflict{
			ID:          conflictID("accommodation", day.ID, field),
			Type:        domain.ConflictAccommodation,
			Path:        path,
			Field:       field,
			LocalValue:  localValue,
			RemoteValue: remoteValue,
			DayID:       day.ID,
			DayNumber:   day.DayNumber,
		}
	}

	var conflicts []domain.Conflict

	text := []struct {
		name          string
		local, remote string
	}{
		{"name", local.Name, remote.Name},
		{"websiteUrl", local.WebsiteURL, remote.WebsiteURL},
		{"description", local.Description, remote.Description},
		{"roomType", local.RoomType, remote.RoomType},
	}
	for _, f := range text {
		if !textEqual(f.local, f.remote) {
			conflicts = append(conflicts, mk(f.name, f.local, f.remote))
		}
	}
	if local.NumberOfNights != remote.NumberOfNights {
		conflicts = append(conflicts, mk("numberOfNights", local.NumberOfNights, remote.NumberOfNights))
	}

	for _, flag := range amenityFlags {
		lv, rv := flag.get(local.Amenities), flag.get(remote.Amenities)
		if lv != rv {
			conflicts = append(conflicts, mk("amenities."+flag.name, lv, rv))
		}
	}
	if !listEqual(local.Amenities.Other, remote.Amenities.Other) {
		conflicts = append(conflicts, mk("amenities.other", local.Amenities.Other, remote.Amenities.Other))
	}

	if c, ok := imageConflict(local.Images, remote.Images); ok {
		ic := mk("images", local.Images, remote.Images)
		ic.MissingImages = c.missing
		ic.CanCombine = true
		conflicts = append(conflicts, ic)
	}

	return conflicts
}

func detectPlaces(day, remoteDay domain.Day, dayLabel string) []domain.Conflict {
	remotePlaces := make(map[string]domain.Place, len(remoteDay.Places))
	for _, p := range remoteDay.Places {
		remotePlaces[p.ID] = p
	}

	var conflicts []domain.Conflict
	for _, lp := range day.Places {
		rp, ok := remotePlaces[lp.ID]
		if !ok {
			// The remote side no longer has this place. The local copy may be
			// a fresh addition or the survivor of a remote delete; either way
			// the user decides.
			conflicts = append(conflicts, domain.Conflict{
				ID:         conflictID("placeDeleted", day.ID+":"+lp.ID, ""),
				Type:       domain.ConflictPlaceDeleted,
				Path:       placePath(dayLabel, lp),
				Field:      "place",
				LocalValue: lp,
				DayID:      day.ID,
				DayNumber:  day.DayNumber,
				PlaceID:    lp.ID,
			})
			continue
		}
		conflicts = append(conflicts, detectPlace(day, lp, rp, dayLabel)...)
	}

	// Places present only remotely are accepted as additions, not conflicts.
	return conflicts
}

func detectPlace(day domain.Day, local, remote domain.Place, dayLabel string) []domain.Conflict {
	path := placePath(dayLabel, local)

	mk := func(field string, localValue, remoteValue any) domain.Conflict {
		return domain.Conflict{
			ID:          conflictID("place", day.ID+":"+local.ID, field),
			Type:        domain.ConflictPlace,
			Path:        path,
			Field:       field,
			LocalValue:  localValue,
			RemoteValue: remoteValue,
			DayID:       day.ID,
			DayNumber:   day.DayNumber,
			PlaceID:     local.ID,
		}
	}

	var conflicts []domain.Conflict
	text := []struct {
		name          string
		local, remote string
	}{
		{"name", local.Name, remote.Name},
		{"description", local.Description, remote.Description},
		{"websiteUrl", local.WebsiteURL, remote.WebsiteURL},
		{"googleMapsUrl", local.GoogleMapsURL, remote.GoogleMapsURL},
	}
	for _, f := range text {
		if !textEqual(f.local, f.remote) {
			conflicts = append(conflicts, mk(f.name, f.local, f.remote))
		}
	}

	if c, ok := imageConflict(local.Images, remote.Images); ok {
		ic := mk("images", local.Images, remote.Images)
		ic.MissingImages = c.missing
		ic.CanCombine = true
		conflicts = append(conflicts, ic)
	}
	return conflicts
}

// --- comparison helpers -----------------------------------------------------

// textEqual treats "" and absent as the same value.
func textEqual(a, b string) bool {
	return a == b
}

// listEqual compares string lists by serialized equality, normalizing empty
// and absent lists to equal.
func listEqual(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return marshal(a) == marshal(b)
}

type imageDiff struct {
	missing []string
}

// imageConflict reports whether two image lists differ. Differing lists are
// always flagged (never silently merged); the advisory context lists the
// local images absent from the remote side so the UI can offer a union.
func imageConflict(local, remote []string) (imageDiff, bool) {
	if listEqual(local, remote) {
		return imageDiff{}, false
	}
	remoteSet := make(map[string]bool, len(remote))
	for _, img := range remote {
		remoteSet[img] = true
	}
	var missing []string
	for _, img := range local {
		if !remoteSet[img] {
			missing = append(missing, img)
		}
	}
	return imageDiff{missing: missing}, true
}

// marshal renders any value as compact JSON for equality checks and
// deduplication keys. Document values are always marshalable.
func marshal(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func conflictID(kind, scope, field string) string {
	id := kind + ":" + scope
	if field != "" {
		id += ":" + field
	}
	return id
}

func dayPath(number int) string {
	return fmt.Sprintf("Day %d", number)
}

func placePath(dayLabel string, p domain.Place) string {
	name := p.Name
	if name == "" {
		name = p.ID
	}
	return dayLabel + " / " + name
}
