package diff

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/tripfolio/tripfolio/internal/domain"
)

// Deduplicate collapses accommodation conflicts that are copies of the same
// logical edit. Because the accommodation payload is duplicated by value into
// every day of a stay, one edit surfaces as N near-identical conflicts, one
// per linked day.
//
// Conflicts merge only when field, serialized local value, and serialized
// remote value are all identical. Same accommodation, same field, but a
// different value pair on one day is a real divergence and stays separate.
// Non-accommodation conflicts pass through unchanged; relative order of the
// input is preserved, with each merged group emitted at its first member's
// position.
func Deduplicate(conflicts []domain.Conflict) []domain.Conflict {
	groups := make(map[string][]domain.Conflict)
	for _, c := range conflicts {
		if c.Type != domain.ConflictAccommodation {
			continue
		}
		k := groupKey(c)
		groups[k] = append(groups[k], c)
	}

	out := make([]domain.Conflict, 0, len(conflicts))
	emitted := make(map[string]bool, len(groups))
	for _, c := range conflicts {
		if c.Type != domain.ConflictAccommodation {
			out = append(out, c)
			continue
		}
		k := groupKey(c)
		if emitted[k] {
			continue
		}
		emitted[k] = true

		group := groups[k]
		if len(group) == 1 {
			out = append(out, c)
			continue
		}
		out = append(out, mergeGroup(group))
	}
	return out
}

// groupKey builds the composite merge key: field plus both serialized values.
func groupKey(c domain.Conflict) string {
	return c.Field + "\x00" + marshal(c.LocalValue) + "\x00" + marshal(c.RemoteValue)
}

// mergeGroup synthesizes one conflict spanning every day in the group.
// The display path lists the affected day numbers in ascending order and the
// context carries the day IDs so the applier can fan the value back out.
func mergeGroup(group []domain.Conflict) domain.Conflict {
	sorted := append([]domain.Conflict(nil), group...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].DayNumber < sorted[j].DayNumber })

	numbers := make([]string, len(sorted))
	ids := make([]string, len(sorted))
	for i, c := range sorted {
		numbers[i] = fmt.Sprintf("%d", c.DayNumber)
		ids[i] = c.DayID
	}

	merged := sorted[0]
	merged.ID = mergedID(merged)
	merged.Path = "Days " + strings.Join(numbers, ", ") + " / Accommodation"
	merged.AffectedDayIDs = ids
	return merged
}

// mergedID derives a deterministic ID for a merged conflict from its field
// and value pair, so repeated detection passes produce the same ID.
func mergedID(c domain.Conflict) string {
	h := fnv.New64a()
	h.Write([]byte(groupKey(c)))
	return fmt.Sprintf("accommodation:merged:%s:%x", c.Field, h.Sum64())
}
