package domain

import "errors"

// ErrNotFound is returned when a requested day, place, or stored value does
// not exist. Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (missing required field, unknown resolution choice, malformed import).
// Handlers map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrNotAuthenticated is returned by sync entry points when no Google
// session is available. Never retried automatically; the user must log in
// again. Handlers map this to HTTP 401.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrNoRemoteFile is returned by forced downloads when the remote store has
// no trip file to download.
var ErrNoRemoteFile = errors.New("no remote trip file found")

// ErrCorruptDocument is returned when downloaded or imported content is
// empty, not valid JSON, or missing the required tripInfo/days shape.
// Fatal for the current sync cycle; corrupt content is never partially applied.
var ErrCorruptDocument = errors.New("corrupt trip document")

// ErrSyncBusy is returned when a sync entry point is invoked while another
// sync operation is still in flight. Exactly one sync runs at a time.
var ErrSyncBusy = errors.New("sync already in progress")

// ErrNoPendingConflicts is returned by Resolve when no detection pass has
// parked conflicts for resolution.
var ErrNoPendingConflicts = errors.New("no pending conflicts")
