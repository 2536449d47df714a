package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripfolio/tripfolio/internal/diff"
	"github.com/tripfolio/tripfolio/internal/domain"
)

func TestCombineImages(t *testing.T) {
	local := []string{"a.jpg", "b.jpg"}
	remote := []string{"b.jpg", "c.jpg"}

	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, diff.CombineImages(local, remote))
}

func TestCombineImages_identicalListsUnchanged(t *testing.T) {
	imgs := []string{"a.jpg", "b.jpg"}

	assert.Equal(t, imgs, diff.CombineImages(imgs, imgs))
}

func TestCombineImages_emptySides(t *testing.T) {
	assert.Equal(t, []string{"a.jpg"}, diff.CombineImages(nil, []string{"a.jpg"}))
	assert.Equal(t, []string{"a.jpg"}, diff.CombineImages([]string{"a.jpg"}, nil))
	assert.Empty(t, diff.CombineImages(nil, nil))
}

func TestMergeAdditions_graftsRemoteOnlyPlaces(t *testing.T) {
	local := baseDoc()
	remote := baseDoc()
	remote.Days[1].Places = append(remote.Days[1].Places, domain.Place{ID: "p9", Name: "Geysir"})

	merged := diff.MergeAdditions(local, remote)

	require.NotNil(t, merged.FindDay("d2").FindPlace("p9"))
	// The input documents are untouched.
	assert.Nil(t, local.FindDay("d2").FindPlace("p9"))
}

func TestMergeAdditions_doesNotDuplicateSharedPlaces(t *testing.T) {
	local := baseDoc()
	remote := baseDoc()

	merged := diff.MergeAdditions(local, remote)

	assert.Len(t, merged.Days[0].Places, 1)
}

func TestMergeAdditions_ignoresRemoteOnlyDays(t *testing.T) {
	local := baseDoc()
	remote := baseDoc()
	remote.Days = append(remote.Days, domain.Day{
		ID: "d9", DayNumber: 3,
		Places: []domain.Place{{ID: "p9", Name: "Somewhere"}},
	})

	merged := diff.MergeAdditions(local, remote)

	// Remote-only days surface as dayDeleted conflicts; the merge step must
	// not resurrect them on its own.
	assert.Nil(t, merged.FindDay("d9"))
}
