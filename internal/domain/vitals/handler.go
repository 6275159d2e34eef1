package vitals

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func RegisterRoutes(r chi.Router, svc *Service, deviceOnly func(http.Handler) http.Handler) {
	r.Get("/api/bpm", listReadingsHandler(svc))
	r.With(deviceOnly).Post("/api/bpm", createReadingHandler(svc))
}

type createReadingRequest struct {
	BPM *int `json:"bpm" validate:"required,gte=30,lte=220"`
}

type readingResponse struct {
	BPM        int       `json:"bpm"`
	RecordedAt time.Time `json:"recorded_at"`
}

const invalidBPM = "Invalid BPM value (must be integer between 30-220)"

// createReadingHandler godoc
// @Summary Registrar pulso
// @Tags vitals
// @Accept json
// @Produce json
// @Param X-Device-Key header string false "API key del dispositivo (si está configurada)"
// @Param payload body createReadingRequest true "bpm entero 30-220"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /api/bpm [post]
func createReadingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createReadingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": invalidBPM})
			return
		}
		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": invalidBPM})
			return
		}

		if _, err := svc.Record(r.Context(), *req.BPM); err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": invalidBPM})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error: " + err.Error()})
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"message": "BPM recorded successfully"})
	}
}

// listReadingsHandler godoc
// @Summary Historial de pulso
// @Tags vitals
// @Produce json
// @Success 200 {array} readingResponse
// @Router /api/bpm [get]
func listReadingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		out := make([]readingResponse, 0, len(items))
		for _, rd := range items {
			out = append(out, readingResponse{BPM: rd.BPM, RecordedAt: rd.RecordedAt})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
