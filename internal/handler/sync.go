package handler

import (
	"context"
	"net/http"

	"github.com/tripfolio/tripfolio/internal/domain"
)

// SyncNow handles POST /api/sync. The sync runs to completion before the
// response is written; the returned status tells the client whether the
// document is clean, conflicted, or errored.
func (s *Server) SyncNow(w http.ResponseWriter, r *http.Request) {
	s.runSync(w, r, s.sync.SyncNow)
}

// ForceUpload handles POST /api/sync/upload.
func (s *Server) ForceUpload(w http.ResponseWriter, r *http.Request) {
	s.runSync(w, r, s.sync.ForceUpload)
}

// ForceDownload handles POST /api/sync/download.
func (s *Server) ForceDownload(w http.ResponseWriter, r *http.Request) {
	s.runSync(w, r, s.sync.ForceDownload)
}

// ForceReupload handles POST /api/sync/reupload.
func (s *Server) ForceReupload(w http.ResponseWriter, r *http.Request) {
	s.runSync(w, r, s.sync.ForceReupload)
}

func (s *Server) runSync(w http.ResponseWriter, r *http.Request, op func(ctx context.Context) error) {
	if err := op(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sync.Status())
}

// ResolveConflicts handles POST /api/sync/resolve. The body maps conflict
// IDs to the user's choices.
func (s *Server) ResolveConflicts(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Resolutions map[string]domain.Resolution `json:"resolutions"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	if err := s.sync.Resolve(r.Context(), body.Resolutions); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sync.Status())
}

// SyncStatus handles GET /api/sync/status.
func (s *Server) SyncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sync.Status())
}
