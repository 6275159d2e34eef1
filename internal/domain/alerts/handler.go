package alerts

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"pill-dispenser/internal/domain/medications"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, hub *Hub) {
	r.Post("/voice-alert", voiceAlertHandler())
	r.Get("/api/alerts", listAlertsHandler(svc))
	if hub != nil {
		r.Get("/ws/alerts", hub.ServeWS)
	}
}

type alertResponse struct {
	ID        string           `json:"id"`
	Kind      Kind             `json:"kind"`
	Slot      medications.Slot `json:"slot"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
	Delivered []string         `json:"delivered"`
	Failures  []string         `json:"failures,omitempty"`
}

// voiceAlertHandler godoc
// @Summary TwiML de alerta por voz
// @Description Callback del proveedor de llamadas: devuelve el mensaje fijo de dosis omitida.
// @Tags alerts
// @Produce xml
// @Success 200 {string} string "TwiML"
// @Router /voice-alert [post]
func voiceAlertHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := VoiceResponseXML(GenericMissedMessage)
		if err != nil {
			http.Error(w, "twiml unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

func listAlertsHandler(svc *Service) http.HandlerFunc {
	// limit opcional (default 20, máx 100)
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}

		items := svc.Recent(limit)
		out := make([]alertResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAlertResponse(a))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(out)
	}
}

func toAlertResponse(a Alert) alertResponse {
	delivered := a.Delivered
	if delivered == nil {
		delivered = []string{}
	}
	return alertResponse{
		ID:        a.ID,
		Kind:      a.Kind,
		Slot:      a.Slot,
		Message:   a.Message,
		CreatedAt: a.CreatedAt,
		Delivered: delivered,
		Failures:  a.Failures,
	}
}
