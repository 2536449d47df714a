// Package handler implements the HTTP handlers for the Tripfolio backend.
// All handlers are methods on Server. Methods are split into domain-specific
// files (document.go, sync.go, auth.go) but share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	stdsync "sync"

	"github.com/go-chi/chi/v5"

	"github.com/tripfolio/tripfolio/internal/domain"
	"github.com/tripfolio/tripfolio/internal/sync"
)

// DocumentServicer defines the document operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the store.
type DocumentServicer interface {
	Get(ctx context.Context) (domain.TripDocument, error)
	UpdateTripInfo(ctx context.Context, name, description, startDate string) (domain.TripDocument, error)
	AddDay(ctx context.Context) (domain.Day, error)
	UpdateDay(ctx context.Context, day domain.Day) (domain.TripDocument, error)
	DeleteDay(ctx context.Context, dayID string) (domain.TripDocument, error)
	LinkStay(ctx context.Context, dayIDs []string, acc domain.Accommodation) (domain.TripDocument, error)
	UpdateAccommodation(ctx context.Context, dayID string, acc domain.Accommodation) (domain.TripDocument, error)
	AddPlace(ctx context.Context, dayID string, place domain.Place) (domain.Place, error)
	UpdatePlace(ctx context.Context, dayID string, place domain.Place) (domain.TripDocument, error)
	DeletePlace(ctx context.Context, dayID, placeID string) (domain.TripDocument, error)
	Import(ctx context.Context, content string) (domain.TripDocument, error)
	Export(ctx context.Context) (string, error)
}

// Syncer defines the sync operations the handlers depend on.
type Syncer interface {
	SyncNow(ctx context.Context) error
	ForceUpload(ctx context.Context) error
	ForceDownload(ctx context.Context) error
	ForceReupload(ctx context.Context) error
	Resolve(ctx context.Context, resolutions map[string]domain.Resolution) error
	Status() sync.Status
}

// Session defines the auth lifecycle operations the handlers depend on.
type Session interface {
	LoginURL(state string) string
	Exchange(ctx context.Context, code string) error
	Logout() error
	IsAuthenticated(ctx context.Context) bool
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	docs DocumentServicer
	sync Syncer
	auth Session

	stateMu    stdsync.Mutex
	loginState string
}

// NewServer constructs the Server with all its dependencies.
func NewServer(docs DocumentServicer, syncer Syncer, auth Session) *Server {
	return &Server{docs: docs, sync: syncer, auth: auth}
}

// Routes registers every endpoint on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/trip", s.GetTrip)
		r.Put("/trip/info", s.UpdateTripInfo)
		r.Get("/trip/export", s.ExportTrip)
		r.Post("/trip/import", s.ImportTrip)

		r.Post("/trip/days", s.AddDay)
		r.Put("/trip/days/{dayID}", s.UpdateDay)
		r.Delete("/trip/days/{dayID}", s.DeleteDay)
		r.Put("/trip/days/{dayID}/accommodation", s.UpdateAccommodation)
		r.Post("/trip/stays", s.LinkStay)

		r.Post("/trip/days/{dayID}/places", s.AddPlace)
		r.Put("/trip/days/{dayID}/places/{placeID}", s.UpdatePlace)
		r.Delete("/trip/days/{dayID}/places/{placeID}", s.DeletePlace)

		r.Post("/sync", s.SyncNow)
		r.Post("/sync/upload", s.ForceUpload)
		r.Post("/sync/download", s.ForceDownload)
		r.Post("/sync/reupload", s.ForceReupload)
		r.Post("/sync/resolve", s.ResolveConflicts)
		r.Get("/sync/status", s.SyncStatus)

		r.Get("/auth/login", s.Login)
		r.Get("/auth/callback", s.AuthCallback)
		r.Post("/auth/logout", s.Logout)
		r.Get("/auth/status", s.AuthStatus)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
