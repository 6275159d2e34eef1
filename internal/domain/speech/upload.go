package speech

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

// MaxAudioBytes es el tope del archivo de audio; el body multipart tiene 1 MiB extra
// para el envelope (boundaries, headers de la parte).
const (
	MaxAudioBytes = 25 << 20
	maxUploadBody = MaxAudioBytes + 1<<20
)

var (
	ErrMissingAudio  = errors.New("audio field is required")
	ErrAudioTooLarge = errors.New("audio exceeds 25 MiB")
)

// ReadAudio lee el campo multipart "audio" de r. Un content type vacío o genérico se
// toma como audio/wav, que es lo que graba el navegador por defecto.
func ReadAudio(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(MaxAudioBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, "", ErrAudioTooLarge
		}
		return nil, "", ErrMissingAudio
	}

	f, hdr, err := r.FormFile("audio")
	if err != nil {
		return nil, "", ErrMissingAudio
	}
	defer f.Close()

	audio, err := io.ReadAll(io.LimitReader(f, MaxAudioBytes+1))
	if err != nil || len(audio) == 0 {
		return nil, "", ErrMissingAudio
	}
	if len(audio) > MaxAudioBytes {
		return nil, "", ErrAudioTooLarge
	}

	contentType := strings.TrimSpace(hdr.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = "audio/wav"
	}
	return audio, contentType, nil
}

// UploadStatus traduce un error de ReadAudio a status HTTP.
func UploadStatus(err error) int {
	if errors.Is(err, ErrAudioTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
