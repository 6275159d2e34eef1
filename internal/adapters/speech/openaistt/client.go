package openaistt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pill-dispenser/internal/domain/speech"
	"pill-dispenser/internal/platform/httpclient"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Client usa Whisper (OpenAI) como alternativa a Deepgram.
type Client struct {
	api   openai.Client
	model openai.AudioModel
}

type Options struct {
	APIKey  string
	BaseURL string // opcional (tests / proxy compatible)
	Timeout time.Duration
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openaistt: api key is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	hc, err := httpclient.New("", timeout)
	if err != nil {
		return nil, err
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(hc),
		option.WithMaxRetries(1),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimRight(base, "/")+"/"))
	}

	return &Client{
		api:   openai.NewClient(reqOpts...),
		model: openai.AudioModelWhisper1,
	}, nil
}

func (c *Client) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if len(audio) == 0 {
		return "", speech.ErrEmptyAudio
	}
	if contentType == "" {
		contentType = "audio/wav"
	}

	res, err := c.api.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(audio), "recording"+extFor(contentType), contentType),
		Model: c.model,
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai: %v", speech.ErrUpstream, err)
	}
	return strings.TrimSpace(res.Text), nil
}

// extFor: Whisper infiere el formato por la extensión del nombre de archivo.
func extFor(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "webm"):
		return ".webm"
	case strings.Contains(ct, "ogg"):
		return ".ogg"
	case strings.Contains(ct, "mpeg"), strings.Contains(ct, "mp3"):
		return ".mp3"
	case strings.Contains(ct, "mp4"), strings.Contains(ct, "m4a"):
		return ".m4a"
	default:
		return ".wav"
	}
}
