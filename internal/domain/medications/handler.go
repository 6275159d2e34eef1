package medications

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterRoutes monta las rutas de horario/stock. deviceOnly protege lo que llama el
// dispensador físico (puede ser un passthrough en modo dev).
func RegisterRoutes(r chi.Router, svc *Service, deviceOnly func(http.Handler) http.Handler) {
	r.Post("/store", storeHandler(svc))

	r.Get("/api/medications", listMedicationsHandler(svc))
	r.Get("/api/pills", listPillsHandler(svc))

	r.With(deviceOnly).Post("/api/dispense", dispenseHandler(svc))
	r.With(deviceOnly).Post("/api/medications/reset", resetCountsHandler(svc))
}

type slotRequest struct {
	Time     string `json:"time" validate:"required"`
	Quantity *int   `json:"quantity" validate:"required,gte=0"`
}

// storeRequest es el payload que arma la interfaz de voz tras las dos etapas.
type storeRequest struct {
	PillA *slotRequest `json:"pillA" validate:"required"`
	PillB *slotRequest `json:"pillB" validate:"required"`
	CntA  *int         `json:"cntA" validate:"required,gte=0"`
	CntB  *int         `json:"cntB" validate:"required,gte=0"`
}

type storeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

type medicationResponse struct {
	Name      Slot      `json:"name"`
	Time      string    `json:"time"`
	Quantity  int       `json:"quantity"`
	CntB      int       `json:"cnt_b"` // nombre histórico de la columna de stock
	CreatedAt time.Time `json:"created_at"`
}

type pillResponse struct {
	Pill     Slot   `json:"pill"`
	Time     string `json:"time"` // HH:MM
	Quantity int    `json:"quantity"`
	Count    int    `json:"count"`
}

type dispenseRequest struct {
	Pill string `json:"pill"`
}

type messageResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// storeHandler godoc
// @Summary Guardar horario y stock
// @Description Reemplaza los slots A y B (hora en 12h + cantidad por toma) y el stock inicial de cada uno. Resetea la asistencia de hoy. Todo o nada.
// @Tags medications
// @Accept json
// @Produce json
// @Param payload body storeRequest true "pillA/pillB {time, quantity}, cntA, cntB"
// @Success 200 {object} storeResponse
// @Failure 400 {object} storeResponse
// @Failure 500 {object} storeResponse
// @Router /store [post]
func storeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req storeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, storeResponse{
				Success: false,
				Error:   "Invalid request format",
				Details: err.Error(),
			})
			return
		}
		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, storeResponse{
				Success: false,
				Error:   "Invalid request format",
				Details: err.Error(),
			})
			return
		}

		err := svc.StoreSchedule(r.Context(), StoreInput{
			PillA:  SlotInput{Time: req.PillA.Time, Quantity: *req.PillA.Quantity},
			PillB:  SlotInput{Time: req.PillB.Time, Quantity: *req.PillB.Quantity},
			CountA: *req.CntA,
			CountB: *req.CntB,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, storeResponse{
					Success: false,
					Error:   "Invalid request format",
					Details: err.Error(),
				})
			default:
				writeJSON(w, http.StatusInternalServerError, storeResponse{
					Success: false,
					Error:   "Database operation failed",
					Details: err.Error(),
				})
			}
			return
		}

		writeJSON(w, http.StatusOK, storeResponse{Success: true})
	}
}

// listMedicationsHandler godoc
// @Summary Listar slots
// @Tags medications
// @Produce json
// @Success 200 {array} medicationResponse
// @Failure 500 {object} messageResponse
// @Router /api/medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, messageResponse{Error: "Failed to fetch medications"})
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, medicationResponse{
				Name:      m.Name,
				Time:      m.Time,
				Quantity:  m.Quantity,
				CntB:      m.StockCount,
				CreatedAt: m.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listPillsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, messageResponse{Error: err.Error()})
			return
		}

		out := make([]pillResponse, 0, len(items))
		for _, m := range items {
			out = append(out, pillResponse{
				Pill:     m.Name,
				Time:     ClockHHMM(m.Time),
				Quantity: m.Quantity,
				Count:    m.StockCount,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// dispenseHandler godoc
// @Summary Registrar toma entregada
// @Description Lo llama el dispensador al entregar una toma: marca la asistencia de hoy y descuenta stock (mínimo 0).
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Device-Key header string false "API key del dispositivo (si está configurada)"
// @Param payload body dispenseRequest true "pill: a | b"
// @Success 200 {object} messageResponse
// @Failure 400 {object} messageResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {object} messageResponse
// @Router /api/dispense [post]
func dispenseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dispenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Error: "invalid json"})
			return
		}

		slot, ok := ParseSlot(req.Pill)
		if !ok {
			writeJSON(w, http.StatusBadRequest, messageResponse{Error: `Invalid pill. Use "a" or "b"`})
			return
		}

		if err := svc.Dispense(r.Context(), slot); err != nil {
			writeJSON(w, http.StatusInternalServerError, messageResponse{Error: "Server error: " + err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, messageResponse{Message: "Pill " + string(slot) + " dispensed"})
	}
}

func resetCountsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ResetCounts(r.Context()); err != nil {
			writeJSON(w, http.StatusInternalServerError, messageResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Medication counts reset successfully"})
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
