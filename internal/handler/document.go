package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripfolio/tripfolio/internal/domain"
)

// GetTrip handles GET /api/trip.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.Get(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// UpdateTripInfo handles PUT /api/trip/info.
func (s *Server) UpdateTripInfo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		StartDate   string `json:"startDate"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	doc, err := s.docs.UpdateTripInfo(r.Context(), body.Name, body.Description, body.StartDate)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ExportTrip handles GET /api/trip/export. Serves the document as a JSON
// attachment so the browser offers a download.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	content, err := s.docs.Export(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="trip.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

// ImportTrip handles POST /api/trip/import. The body is the raw document
// JSON; it replaces the current trip after shape validation.
func (s *Server) ImportTrip(w http.ResponseWriter, r *http.Request) {
	content, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	doc, err := s.docs.Import(r.Context(), string(content))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// AddDay handles POST /api/trip/days.
func (s *Server) AddDay(w http.ResponseWriter, r *http.Request) {
	day, err := s.docs.AddDay(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, day)
}

// UpdateDay handles PUT /api/trip/days/{dayID}.
func (s *Server) UpdateDay(w http.ResponseWriter, r *http.Request) {
	var day domain.Day
	if err := decodeBody(r, &day); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	day.ID = chi.URLParam(r, "dayID")

	doc, err := s.docs.UpdateDay(r.Context(), day)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDay handles DELETE /api/trip/days/{dayID}.
func (s *Server) DeleteDay(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.DeleteDay(r.Context(), chi.URLParam(r, "dayID"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// UpdateAccommodation handles PUT /api/trip/days/{dayID}/accommodation.
func (s *Server) UpdateAccommodation(w http.ResponseWriter, r *http.Request) {
	var acc domain.Accommodation
	if err := decodeBody(r, &acc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	doc, err := s.docs.UpdateAccommodation(r.Context(), chi.URLParam(r, "dayID"), acc)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// LinkStay handles POST /api/trip/stays.
func (s *Server) LinkStay(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DayIDs        []string             `json:"dayIds"`
		Accommodation domain.Accommodation `json:"accommodation"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	doc, err := s.docs.LinkStay(r.Context(), body.DayIDs, body.Accommodation)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// AddPlace handles POST /api/trip/days/{dayID}/places.
func (s *Server) AddPlace(w http.ResponseWriter, r *http.Request) {
	var place domain.Place
	if err := decodeBody(r, &place); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	added, err := s.docs.AddPlace(r.Context(), chi.URLParam(r, "dayID"), place)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

// UpdatePlace handles PUT /api/trip/days/{dayID}/places/{placeID}.
func (s *Server) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	var place domain.Place
	if err := decodeBody(r, &place); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	place.ID = chi.URLParam(r, "placeID")

	doc, err := s.docs.UpdatePlace(r.Context(), chi.URLParam(r, "dayID"), place)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeletePlace handles DELETE /api/trip/days/{dayID}/places/{placeID}.
func (s *Server) DeletePlace(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.DeletePlace(r.Context(), chi.URLParam(r, "dayID"), chi.URLParam(r, "placeID"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
