package attendance

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/api/attendance", listAttendanceHandler(svc))
}

type attendanceResponse struct {
	PillA        bool   `json:"pill_a"`
	PillB        bool   `json:"pill_b"`
	RecordedDate string `json:"recorded_date"` // YYYY-MM-DD
}

// listAttendanceHandler godoc
// @Summary Historial de asistencia
// @Description Un registro por día con los flags de toma de A y B, ordenado por fecha.
// @Tags attendance
// @Produce json
// @Success 200 {array} attendanceResponse
// @Failure 500 {object} map[string]string
// @Router /api/attendance [get]
func listAttendanceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		out := make([]attendanceResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, attendanceResponse{
				PillA:        rec.PillA,
				PillB:        rec.PillB,
				RecordedDate: rec.Date.Format("2006-01-02"),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
