package speech

import (
	"encoding/json"
	"net/http"

	"pill-dispenser/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, tr Transcriber, log logger.Logger) {
	r.Post("/stt", transcribeHandler(tr, log))
}

type transcriptResponse struct {
	Transcript string `json:"transcript"`
}

// transcribeHandler godoc
// @Summary Transcribir audio
// @Description Recibe la grabación del navegador (campo multipart `audio`) y devuelve el texto reconocido.
// @Tags speech
// @Accept mpfd
// @Produce json
// @Param audio formData file true "Grabación (wav/webm)"
// @Success 200 {object} transcriptResponse
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /stt [post]
func transcribeHandler(tr Transcriber, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		audio, contentType, err := ReadAudio(w, r)
		if err != nil {
			writeJSON(w, UploadStatus(err), map[string]string{"error": err.Error()})
			return
		}

		text, err := tr.Transcribe(r.Context(), audio, contentType)
		if err != nil {
			log.Error("transcription failed", map[string]any{
				"err":   err,
				"bytes": len(audio),
			})
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Audio processing failed"})
			return
		}

		writeJSON(w, http.StatusOK, transcriptResponse{Transcript: text})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
