// Package sync drives one synchronization cycle between the local trip
// document and its remote copy: decide upload vs. download vs. conflict
// prompt, apply resolutions, and keep the last-synced baseline current.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	stdsync "sync"
	"time"

	"github.com/tripfolio/tripfolio/internal/diff"
	"github.com/tripfolio/tripfolio/internal/domain"
	"github.com/tripfolio/tripfolio/internal/remote"
	"github.com/tripfolio/tripfolio/internal/store"
)

// State names the orchestrator's externally visible states.
type State string

const (
	StateIdle            State = "idle"
	StateSyncing         State = "syncing"
	StateConflictPending State = "conflictPending"
	StateError           State = "error"
)

// Status is a point-in-time snapshot of the orchestrator for the UI: the
// current state, the last error message (empty when none), and the parked
// conflicts awaiting resolution.
type Status struct {
	State     State             `json:"state"`
	Error     string            `json:"error,omitempty"`
	Conflicts []domain.Conflict `json:"conflicts,omitempty"`
}

// Orchestrator runs sync cycles. Exactly one operation is in flight at a
// time: entry points invoked while another is running fail fast with
// ErrSyncBusy instead of interleaving. All entry points return their error
// and record it in the observable status, so callers may either check the
// return value or poll Status.
type Orchestrator struct {
	local    store.Store
	remote   remote.Store
	fileName string
	log      *slog.Logger
	now      func() time.Time

	mu      stdsync.Mutex
	syncing bool
	state   State
	errMsg  string

	// Parked detection output, set when a cycle ends in ConflictPending.
	pendingConflicts []domain.Conflict
	pendingRemote    *domain.TripDocument
	pendingFileID    string
}

// New constructs an Orchestrator. fileName is the well-known remote file
// name identifying the trip document.
func New(local store.Store, rem remote.Store, fileName string, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		local:    local,
		remote:   rem,
		fileName: fileName,
		log:      log,
		now:      time.Now,
		state:    StateIdle,
	}
}

// Status returns a snapshot of the current state.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Status{
		State:     o.state,
		Error:     o.errMsg,
		Conflicts: append([]domain.Conflict(nil), o.pendingConflicts...),
	}
}

// SyncNow runs the default comparison-driven cycle.
//
// Remote absent: upload the local document as a new file. Remote present and
// modified since the last sync: if the local document is unchanged since
// that sync, adopt the remote wholesale; if both sides changed, run conflict
// detection and park the result for the user rather than overwriting local
// edits. Remote not newer: upload the local document if it differs, or just
// refresh the sync timestamp.
func (o *Orchestrator) SyncNow(ctx context.Context) (err error) {
	if err := o.begin(); err != nil {
		return err
	}
	defer func() { o.finish(err) }()

	if !o.remote.IsAuthenticated(ctx) {
		return fmt.Errorf("sync.Orchestrator.SyncNow: %w", domain.ErrNotAuthenticated)
	}

	meta, err := o.remote.FindByName(ctx, o.fileName)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.SyncNow: %w", err)
	}

	if meta == nil {
		return o.createRemote(ctx)
	}

	content, err := o.remote.Download(ctx, meta.ID)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.SyncNow: %w", err)
	}
	remoteDoc, err := domain.ParseDocument(content)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.SyncNow: %w", err)
	}

	lastSync, hasLastSync, err := o.local.LastSyncTime(ctx)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.SyncNow: %w", err)
	}

	if !hasLastSync || meta.ModifiedTime.After(lastSync) {
		return o.reconcileRemoteNewer(ctx, meta.ID, remoteDoc)
	}
	return o.reconcileRemoteStale(ctx, meta.ID, remoteDoc)
}

// createRemote handles the no-remote-file case: first sync from this device.
func (o *Orchestrator) createRemote(ctx context.Context) error {
	doc, ok, err := o.local.Document(ctx)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.SyncNow: %w", err)
	}
	if !ok {
		// Nothing on either side; there is nothing to transfer.
		return nil
	}

	content := doc.Serialize()
	fileID, err := o.remote.Upload(ctx, o.fileName, content, "")
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.SyncNow: %w", err)
	}
	if err := o.local.SetLastSynced(ctx, content, o.now()); err != nil {
		return fmt.Errorf("sync.Orchestrator.SyncNow: %w", err)
	}
	o.clearPending()
	o.log.Info("created remote trip file", "fileId", fileID)
	return nil
}

// reconcileRemoteNewer handles a remote copy modified after the last sync.
// The remote is only adopted wholesale when the local document has not
// changed since that sync; when both sides diverged, detection runs and any
// conflicts are parked for the user. Overwriting unsynced local edits
// without detection would silently lose them.
func (o *Orchestrator) reconcileRemoteNewer(ctx context.Context, fileID string, remoteDoc domain.TripDocument) error {
	localDoc, hasDoc, err := o.local.Document(ctx)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.SyncNow: %w", err)
	}
	snapshot, hasSnapshot, err := o.local.LastSyncedSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.SyncNow: %w", err)
	}

	localChanged := hasDoc && (!hasSnapshot || localDoc.Serialize() != snapshot)
	if !hasDoc || !localChanged {
		if err := o.adoptRemote(ctx, remoteDoc); err != nil {
			return err
		}
		o.log.Info("downloaded remote trip document", "fileId", fileID)
		return nil
	}

	if localDoc.Serialize() == remoteDoc.Serialize() {
		if err := o.local.TouchLastSyncTime(ctx, o.now()); err != nil {
			return fmt.Errorf("sync.Orchestrator.SyncNow: %w", err)
		}
		o.clearPending()
		return nil
	}

	conflicts := diff.Deduplicate(diff.Detect(localDoc, remoteDoc))
	if len(conflicts) == 0 {
		// Both changed but nothing collides; the only divergence detection
		// accepts silently is remote-side place additions, so merge those in
		// and push the combined result.
		merged := diff.MergeAdditions(localDoc, remoteDoc)
		if err := o.pushMerged(ctx, fileID, merged); err != nil {
			return err
		}
		o.log.Info("merged remote additions and uploaded", "fileId", fileID)
		return nil
	}

	o.mu.Lock()
	o.pendingConflicts = conflicts
	o.pendingRemote = &remoteDoc
	o.pendingFileID = fileID
	o.mu.Unlock()
	o.log.Info("sync paused on conflicts", "count", len(conflicts))
	return nil
}

// reconcileRemoteStale handles a remote copy not modified since the last
// sync: local wins by upload when it differs, otherwise only the timestamp
// is refreshed.
func (o *Orchestrator) reconcileRemoteStale(ctx context.Context, fileID string, remoteDoc domain.TripDocument) error {
	localDoc, hasDoc, err := o.local.Document(ctx)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.SyncNow: %w", err)
	}
	if !hasDoc {
		// No local document but a remote exists: adopt it.
		if err := o.adoptRemote(ctx, remoteDoc); err != nil {
			return err
		}
		return nil
	}

	content := localDoc.Serialize()
	if content != remoteDoc.Serialize() {
		if _, err := o.remote.Upload(ctx, o.fileName, content, fileID); err != nil {
			return fmt.Errorf("sync.Orchestrator.SyncNow: %w", err)
		}
		if err := o.local.SetLastSynced(ctx, content, o.now()); err != nil {
			return fmt.Errorf("sync.Orchestrator.SyncNow: %w", err)
		}
		o.clearPending()
		o.log.Info("uploaded local trip document", "fileId", fileID)
		return nil
	}

	if err := o.local.TouchLastSyncTime(ctx, o.now()); err != nil {
		return fmt.Errorf("sync.Orchestrator.SyncNow: %w", err)
	}
	o.clearPending()
	return nil
}

// Resolve completes a cycle parked in ConflictPending: it applies the user's
// resolutions over the local document, persists the merged result, and
// uploads it.
func (o *Orchestrator) Resolve(ctx context.Context, resolutions map[string]domain.Resolution) (err error) {
	if err := o.begin(); err != nil {
		return err
	}
	defer func() { o.finish(err) }()

	o.mu.Lock()
	conflicts := o.pendingConflicts
	remoteDoc := o.pendingRemote
	fileID := o.pendingFileID
	o.mu.Unlock()

	if remoteDoc == nil {
		return fmt.Errorf("sync.Orchestrator.Resolve: %w", domain.ErrNoPendingConflicts)
	}

	localDoc, ok, err := o.local.Document(ctx)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.Resolve: %w", err)
	}
	if !ok {
		return fmt.Errorf("sync.Orchestrator.Resolve: %w: no local document", domain.ErrNotFound)
	}

	base := diff.MergeAdditions(localDoc, *remoteDoc)
	merged, err := diff.Apply(base, conflicts, resolutions)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.Resolve: %w", err)
	}

	if err := o.pushMerged(ctx, fileID, merged); err != nil {
		return fmt.Errorf("sync.Orchestrator.Resolve: %w", err)
	}
	o.log.Info("conflicts resolved and merged document uploaded", "count", len(conflicts))
	return nil
}

// ForceUpload pushes the local document unconditionally, creating the remote
// file if absent. A no-op when there is no local document or no session.
func (o *Orchestrator) ForceUpload(ctx context.Context) (err error) {
	if err := o.begin(); err != nil {
		return err
	}
	defer func() { o.finish(err) }()

	if !o.remote.IsAuthenticated(ctx) {
		return nil
	}
	doc, ok, err := o.local.Document(ctx)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.ForceUpload: %w", err)
	}
	if !ok {
		return nil
	}
	if err := o.pushLocal(ctx, doc); err != nil {
		return fmt.Errorf("sync.Orchestrator.ForceUpload: %w", err)
	}
	return nil
}

// ForceReupload re-serializes the current local state and pushes it over
// whatever the remote holds. This is the recovery path for a corrupted or
// divergent remote copy, so unlike ForceUpload it reports missing
// prerequisites as errors and discards any parked conflicts.
func (o *Orchestrator) ForceReupload(ctx context.Context) (err error) {
	if err := o.begin(); err != nil {
		return err
	}
	defer func() { o.finish(err) }()

	if !o.remote.IsAuthenticated(ctx) {
		return fmt.Errorf("sync.Orchestrator.ForceReupload: %w", domain.ErrNotAuthenticated)
	}
	doc, ok, err := o.local.Document(ctx)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.ForceReupload: %w", err)
	}
	if !ok {
		return fmt.Errorf("sync.Orchestrator.ForceReupload: %w: no local document", domain.ErrNotFound)
	}
	if err := o.pushLocal(ctx, doc); err != nil {
		return fmt.Errorf("sync.Orchestrator.ForceReupload: %w", err)
	}
	return nil
}

// ForceDownload replaces the local document with the remote copy
// unconditionally. A missing remote file is a fatal error and leaves local
// state untouched.
func (o *Orchestrator) ForceDownload(ctx context.Context) (err error) {
	if err := o.begin(); err != nil {
		return err
	}
	defer func() { o.finish(err) }()

	if !o.remote.IsAuthenticated(ctx) {
		return fmt.Errorf("sync.Orchestrator.ForceDownload: %w", domain.ErrNotAuthenticated)
	}

	meta, err := o.remote.FindByName(ctx, o.fileName)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.ForceDownload: %w", err)
	}
	if meta == nil {
		return fmt.Errorf("sync.Orchestrator.ForceDownload: %w", domain.ErrNoRemoteFile)
	}

	content, err := o.remote.Download(ctx, meta.ID)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.ForceDownload: %w", err)
	}
	doc, err := domain.ParseDocument(content)
	if err != nil {
		return fmt.Errorf("sync.Orchestrator.ForceDownload: %w", err)
	}

	if err := o.adoptRemote(ctx, doc); err != nil {
		return fmt.Errorf("sync.Orchestrator.ForceDownload: %w", err)
	}
	o.log.Info("force-downloaded remote trip document", "fileId", meta.ID)
	return nil
}

// --- shared transfer steps --------------------------------------------------

// adoptRemote replaces local state with the remote document and records the
// new baseline.
func (o *Orchestrator) adoptRemote(ctx context.Context, doc domain.TripDocument) error {
	if err := o.local.Commit(ctx, doc); err != nil {
		return fmt.Errorf("sync: adopt remote: %w", err)
	}
	if err := o.local.SetLastSynced(ctx, doc.Serialize(), o.now()); err != nil {
		return fmt.Errorf("sync: adopt remote: %w", err)
	}
	o.clearPending()
	return nil
}

// pushLocal uploads the local document, creating the remote file if needed.
func (o *Orchestrator) pushLocal(ctx context.Context, doc domain.TripDocument) error {
	fileID := ""
	if meta, err := o.remote.FindByName(ctx, o.fileName); err != nil {
		return err
	} else if meta != nil {
		fileID = meta.ID
	}

	content := doc.Serialize()
	uploadedID, err := o.remote.Upload(ctx, o.fileName, content, fileID)
	if err != nil {
		return err
	}
	if err := o.local.SetLastSynced(ctx, content, o.now()); err != nil {
		return err
	}
	o.clearPending()
	o.log.Info("uploaded local trip document", "fileId", uploadedID)
	return nil
}

// pushMerged persists a merged document locally, then uploads it.
func (o *Orchestrator) pushMerged(ctx context.Context, fileID string, doc domain.TripDocument) error {
	if err := o.local.Commit(ctx, doc); err != nil {
		return fmt.Errorf("sync: push merged: %w", err)
	}
	content := doc.Serialize()
	if _, err := o.remote.Upload(ctx, o.fileName, content, fileID); err != nil {
		return fmt.Errorf("sync: push merged: %w", err)
	}
	if err := o.local.SetLastSynced(ctx, content, o.now()); err != nil {
		return fmt.Errorf("sync: push merged: %w", err)
	}
	o.clearPending()
	return nil
}

// clearPending drops parked detection output. Called by every transfer step
// that settles the two sides, so a stale park can never outlive the remote
// snapshot it was computed against. The conflicts branch of SyncNow parks
// after detection and calls none of the transfer steps, so fresh parks
// survive.
func (o *Orchestrator) clearPending() {
	o.mu.Lock()
	o.pendingConflicts = nil
	o.pendingRemote = nil
	o.pendingFileID = ""
	o.mu.Unlock()
}

// --- state transitions ------------------------------------------------------

// begin claims the single in-flight slot. Exactly one sync operation runs at
// a time; a second caller fails fast instead of queueing.
func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.syncing {
		return domain.ErrSyncBusy
	}
	o.syncing = true
	o.state = StateSyncing
	o.errMsg = ""
	return nil
}

// finish releases the in-flight slot and settles the terminal state. Every
// entry point funnels through here regardless of success or failure, so the
// busy flag can never leak.
func (o *Orchestrator) finish(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.syncing = false
	switch {
	case err != nil:
		o.state = StateError
		o.errMsg = err.Error()
		o.log.Error("sync failed", "error", err)
	case len(o.pendingConflicts) > 0:
		o.state = StateConflictPending
	default:
		o.state = StateIdle
	}
}
