package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tomlord1122/planner-backend/internal/service"
)

func (s *Server) listGroceryHandler(w http.ResponseWriter, r *http.Request) {
	items, err := s.services.Grocery.List(r.Context(), currentUser(r).ID)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpGrocery)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (s *Server) createGroceryHandler(w http.ResponseWriter, r *http.Request) {
	var req service.GroceryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := s.services.Grocery.Add(r.Context(), currentUser(r).ID, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpGrocery)
		return
	}
	respondWithJSON(w, http.StatusCreated, item)
}

func (s *Server) updateGroceryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "grocery item")
	if !ok {
		return
	}
	var req service.UpdateGroceryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := s.services.Grocery.Update(r.Context(), currentUser(r).ID, id, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpGrocery)
		return
	}
	respondWithJSON(w, http.StatusOK, item)
}

func (s *Server) markGroceryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "grocery item")
	if !ok {
		return
	}
	var req doneRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Done == nil {
		respondWithError(w, http.StatusBadRequest, "Field done is required")
		return
	}
	item, err := s.services.Grocery.SetDone(r.Context(), currentUser(r).ID, id, *req.Done)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpGrocery)
		return
	}
	respondWithJSON(w, http.StatusOK, item)
}

func (s *Server) reorderGroceryHandler(w http.ResponseWriter, r *http.Request) {
	var req service.ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.services.Grocery.Reorder(r.Context(), currentUser(r).ID, req.IDs); err != nil {
		s.respondWithServiceError(w, r, err, service.OpGrocery)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearDoneGroceryHandler(w http.ResponseWriter, r *http.Request) {
	n, err := s.services.Grocery.ClearDone(r.Context(), currentUser(r).ID)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpGrocery)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (s *Server) deleteGroceryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "grocery item")
	if !ok {
		return
	}
	if err := s.services.Grocery.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		s.respondWithServiceError(w, r, err, service.OpGrocery)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- preferences ---

func (s *Server) getPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.services.Preferences.Get(r.Context(), currentUser(r).ID)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpPreferences)
		return
	}
	respondWithJSON(w, http.StatusOK, prefs)
}

type preferenceRequest struct {
	Value *bool `json:"value"`
}

func (s *Server) setPreferenceHandler(w http.ResponseWriter, r *http.Request) {
	var req preferenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Value == nil {
		respondWithError(w, http.StatusBadRequest, "Field value is required")
		return
	}
	key := chi.URLParam(r, "key")
	if err := s.services.Preferences.Set(r.Context(), currentUser(r).ID, key, *req.Value); err != nil {
		s.respondWithServiceError(w, r, err, service.OpPreferences)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
