package deepgram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"pill-dispenser/internal/domain/speech"

	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	listen "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"
)

const DefaultModel = "nova-2"

var initSDK sync.Once

// Client transcribe audio grabado con el endpoint prerecorded de Deepgram.
type Client struct {
	dg    *api.Client
	model string
}

type Options struct {
	// BaseURL apunta a otro host (self-hosted, tests). Vacío = api.deepgram.com.
	BaseURL string
	APIKey  string
	Model   string
	// SkipServerAuth no valida el certificado del host (self-hosted con cert propio).
	SkipServerAuth bool
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("deepgram: api key is required")
	}
	host, err := hostOf(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	initSDK.Do(listen.InitWithDefault)

	rest := listen.NewREST(opts.APIKey, &interfaces.ClientOptions{
		Host:           host,
		SkipServerAuth: opts.SkipServerAuth,
	})
	return &Client{dg: api.New(rest), model: model}, nil
}

// hostOf acepta "https://host[:port]" o "host[:port]"; el SDK siempre habla https.
func hostOf(base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", nil
	}
	if !strings.Contains(base, "://") {
		return strings.TrimRight(base, "/"), nil
	}
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("deepgram: invalid base url %q", base)
	}
	return u.Host, nil
}

// Transcribe ignora contentType: Deepgram detecta el contenedor por los bytes.
func (c *Client) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if len(audio) == 0 {
		return "", speech.ErrEmptyAudio
	}

	res, err := c.dg.FromStream(ctx, bytes.NewReader(audio), &interfaces.PreRecordedTranscriptionOptions{
		Model:       c.model,
		SmartFormat: true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: deepgram: %v", speech.ErrUpstream, err)
	}

	if res == nil || res.Results == nil || len(res.Results.Channels) == 0 || len(res.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("%w: deepgram: no transcript in response", speech.ErrUpstream)
	}
	return res.Results.Channels[0].Alternatives[0].Transcript, nil
}
