package diff

import "github.com/tripfolio/tripfolio/internal/domain"

// CombineImages returns the order-stable union of two image lists: local
// order preserved, remote-only images appended in remote order, duplicates
// dropped. CombineImages(x, x) == x.
func CombineImages(local, remote []string) []string {
	seen := make(map[string]bool, len(local)+len(remote))
	out := make([]string, 0, len(local)+len(remote))
	for _, img := range local {
		if !seen[img] {
			seen[img] = true
			out = append(out, img)
		}
	}
	for _, img := range remote {
		if !seen[img] {
			seen[img] = true
			out = append(out, img)
		}
	}
	return out
}

// MergeAdditions grafts remote-only places into a copy of the local
// document. Detection accepts such places silently instead of raising a
// conflict, so the merge step has to carry them over or they would be lost
// when the merged document is uploaded. Days present only remotely are not
// touched here; those surface as dayDeleted conflicts and are settled by the
// user.
func MergeAdditions(local, remote domain.TripDocument) domain.TripDocument {
	out := local.Clone()
	for i := range out.Days {
		rd := remote.FindDay(out.Days[i].ID)
		if rd == nil {
			continue
		}
		for _, rp := range rd.Places {
			if out.Days[i].FindPlace(rp.ID) == nil {
				out.Days[i].Places = append(out.Days[i].Places, rp.Clone())
			}
		}
	}
	return out
}
