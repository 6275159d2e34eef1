package speech

import (
	"context"
	"errors"
)

var (
	ErrEmptyAudio = errors.New("empty audio")
	ErrUpstream   = errors.New("speech-to-text upstream error")
)

// Transcriber convierte audio grabado en texto (Deepgram, Whisper, ...).
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
}

// ErrNotConfigured: no hay proveedor de STT configurado (falta la API key).
var ErrNotConfigured = errors.New("speech-to-text provider not configured")

// Unconfigured es el Transcriber por defecto: /stt responde 500 en vez de caerse.
type Unconfigured struct{}

func (Unconfigured) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	return "", ErrNotConfigured
}
