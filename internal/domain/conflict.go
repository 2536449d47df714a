package domain

// ConflictType discriminates the kinds of divergence the detector reports.
type ConflictType string

const (
	ConflictTripInfo      ConflictType = "tripInfo"
	ConflictDay           ConflictType = "day"
	ConflictAccommodation ConflictType = "accommodation"
	ConflictPlace         ConflictType = "place"
	ConflictDayAdded      ConflictType = "dayAdded"
	ConflictDayDeleted    ConflictType = "dayDeleted"
	ConflictPlaceAdded    ConflictType = "placeAdded"
	ConflictPlaceDeleted  ConflictType = "placeDeleted"
)

// Conflict is one field-level divergence between the local and remote copy
// of the document. Conflicts are ephemeral: produced fresh by each detection
// pass, resolved, and discarded.
//
// The ID is deterministic (derived from type, owning entity, and field) so
// that identical conflicts collapse and a resolution map can be keyed by it.
// LocalValue and RemoteValue hold the typed field values; for dayDeleted /
// dayAdded the value is the whole Day (nil on the side that lacks it), and
// likewise Place for the place variants.
type Conflict struct {
	ID          string       `json:"id"`
	Type        ConflictType `json:"type"`
	Path        string       `json:"path"`
	Field       string       `json:"field"`
	LocalValue  any          `json:"localValue"`
	RemoteValue any          `json:"remoteValue"`

	// DayID is set for every day-scoped conflict; PlaceID additionally for
	// place-scoped ones. DayNumber is the display number of the owning day,
	// carried so the deduplicator can build multi-day display paths.
	DayID     string `json:"dayId,omitempty"`
	DayNumber int    `json:"dayNumber,omitempty"`
	PlaceID   string `json:"placeId,omitempty"`

	// AffectedDayIDs lists every day a deduplicated accommodation conflict
	// spans. The applier fans the resolved value out to each of them.
	AffectedDayIDs []string `json:"affectedDayIds,omitempty"`

	// Image-list conflicts carry advisory merge context: the local images the
	// remote side is missing, and whether the UI may offer a union merge.
	MissingImages []string `json:"missingImages,omitempty"`
	CanCombine    bool     `json:"canCombine,omitempty"`
}

// ResolutionChoice selects how a single conflict is settled.
type ResolutionChoice string

const (
	// ResolveLocal keeps the local value.
	ResolveLocal ResolutionChoice = "local"
	// ResolveRemote takes the remote value.
	ResolveRemote ResolutionChoice = "remote"
	// ResolveManual substitutes a user-typed value; text fields only.
	ResolveManual ResolutionChoice = "manual"
	// ResolveCombine unions local and remote image lists; image fields only.
	ResolveCombine ResolutionChoice = "combine"
)

// Resolution is the user's decision for one conflict. Value is only
// consulted for ResolveManual.
type Resolution struct {
	Choice ResolutionChoice `json:"choice"`
	Value  any              `json:"value,omitempty"`
}
