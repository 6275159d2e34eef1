package voice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pill-dispenser/internal/domain/speech"
	"pill-dispenser/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta el intérprete. tr es opcional: sin transcriber no se expone
// la ruta de audio y el cliente manda el texto ya transcripto (POST /stt).
func RegisterRoutes(r chi.Router, sessions *Sessions, tr speech.Transcriber, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}

	r.Route("/voice/sessions", func(r chi.Router) {
		r.Post("/", createSessionHandler(sessions))
		r.Get("/{id}", getSessionHandler(sessions))
		r.Post("/{id}/commands", commandHandler(sessions))
		if tr != nil {
			r.Post("/{id}/audio", audioCommandHandler(sessions, tr, log))
		}
	})
}

type sessionResponse struct {
	ID    string `json:"id"`
	Stage Stage  `json:"stage"`
	Reply *Reply `json:"reply,omitempty"`
}

type commandRequest struct {
	Transcript string `json:"transcript"`
}

type commandResponse struct {
	Transcript string `json:"transcript"`
	Reply
}

// createSessionHandler godoc
// @Summary Abrir conversación de voz
// @Description Crea una sesión nueva y devuelve el saludo a reproducir.
// @Tags voice
// @Produce json
// @Success 201 {object} sessionResponse
// @Router /voice/sessions [post]
func createSessionHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, reply := sessions.Create()
		writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, Stage: reply.Stage, Reply: &reply})
	}
}

func getSessionHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookup(w, r, sessions)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID, Stage: sess.Conversation.Stage()})
	}
}

// commandHandler godoc
// @Summary Enviar comando de voz
// @Description Procesa un transcript según la etapa actual (conteos o horario).
// @Tags voice
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body commandRequest true "Transcript"
// @Success 200 {object} commandResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /voice/sessions/{id}/commands [post]
func commandHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookup(w, r, sessions)
		if !ok {
			return
		}

		var req commandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if strings.TrimSpace(req.Transcript) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "transcript is required"})
			return
		}

		reply := sess.Conversation.Handle(r.Context(), req.Transcript)
		writeJSON(w, http.StatusOK, commandResponse{Transcript: req.Transcript, Reply: reply})
	}
}

// audioCommandHandler combina /stt con el comando: transcribe y procesa en un paso.
func audioCommandHandler(sessions *Sessions, tr speech.Transcriber, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookup(w, r, sessions)
		if !ok {
			return
		}

		audio, ct, err := speech.ReadAudio(w, r)
		if err != nil {
			writeJSON(w, speech.UploadStatus(err), map[string]string{"error": err.Error()})
			return
		}

		text, err := tr.Transcribe(r.Context(), audio, ct)
		if err != nil {
			log.Error("voice command transcription failed", map[string]any{"session_id": sess.ID, "err": err})
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Audio processing failed"})
			return
		}

		reply := sess.Conversation.Handle(r.Context(), text)
		writeJSON(w, http.StatusOK, commandResponse{Transcript: text, Reply: reply})
	}
}

func lookup(w http.ResponseWriter, r *http.Request, sessions *Sessions) (*Session, bool) {
	sess, err := sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
			return nil, false
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return nil, false
	}
	return sess, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
