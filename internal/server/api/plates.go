// Package api provides HTTP API handlers for the plate watcher.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/authorize"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/store"
)

// PlateHandler handles HTTP requests for the authorized-plate registry.
type PlateHandler struct {
	store *store.Store
}

// NewPlateHandler creates a new PlateHandler with the given store.
func NewPlateHandler(s *store.Store) *PlateHandler {
	return &PlateHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *PlateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/plates or /api/plates/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/plates")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createPlateRequest struct {
	Plate string `json:"plate"`
	Note  string `json:"note"`
}

type plateResponse struct {
	ID        string `json:"id"`
	Plate     string `json:"plate"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

type listPlatesResponse struct {
	Plates []plateResponse `json:"plates"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Plate to a plateResponse.
func toResponse(p *store.Plate) plateResponse {
	return plateResponse{
		ID:        p.ID,
		Plate:     p.Plate,
		Note:      p.Note,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/plates and returns all registered plates.
func (h *PlateHandler) list(w http.ResponseWriter, r *http.Request) {
	plates, err := h.store.Plates().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list plates")
		return
	}

	response := listPlatesResponse{Plates: make([]plateResponse, 0, len(plates))}
	for _, p := range plates {
		response.Plates = append(response.Plates, toResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/plates. The plate is stored in canonical form.
func (h *PlateHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPlateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plate := authorize.Normalize(req.Plate)
	if plate == "" {
		writeError(w, http.StatusBadRequest, "Plate is required")
		return
	}

	p := &store.Plate{
		ID:    uuid.NewString(),
		Plate: plate,
		Note:  req.Note,
	}

	if err := h.store.Plates().Create(p); err != nil {
		writeError(w, http.StatusConflict, "Plate already registered")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(p))
}

// get handles GET /api/plates/{id}.
func (h *PlateHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.store.Plates().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Plate not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get plate")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(p))
}

// delete handles DELETE /api/plates/{id}.
func (h *PlateHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Plates().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Plate not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete plate")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
