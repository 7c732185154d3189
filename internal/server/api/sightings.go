package api

import (
	"net/http"
	"strconv"

	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/store"
)

// SightingHandler handles HTTP requests for the sighting log.
type SightingHandler struct {
	store *store.Store
}

// NewSightingHandler creates a new SightingHandler with the given store.
func NewSightingHandler(s *store.Store) *SightingHandler {
	return &SightingHandler{store: s}
}

type sightingResponse struct {
	ID         string `json:"id"`
	Plate      string `json:"plate"`
	Authorized bool   `json:"authorized"`
	FrameIndex int    `json:"frame_index"`
	CreatedAt  string `json:"created_at"`
}

type listSightingsResponse struct {
	Sightings []sightingResponse `json:"sightings"`
}

// ServeHTTP handles GET /api/sightings with an optional limit parameter.
func (h *SightingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	sightings, err := h.store.Sightings().ListRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sightings")
		return
	}

	response := listSightingsResponse{Sightings: make([]sightingResponse, 0, len(sightings))}
	for _, s := range sightings {
		response.Sightings = append(response.Sightings, sightingResponse{
			ID:         s.ID,
			Plate:      s.Plate,
			Authorized: s.Authorized,
			FrameIndex: s.FrameIndex,
			CreatedAt:  s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
