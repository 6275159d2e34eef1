package twilio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pill-dispenser/internal/platform/httpclient"

	twiliogo "github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// Client manda SMS y hace llamadas al número de alerta con el SDK de Twilio.
// Implementa alerts.SMSSender y alerts.VoiceCaller.
type Client struct {
	rest *twiliogo.RestClient
	from string
	to   string
}

type Options struct {
	BaseURL    string // vacío = api.twilio.com
	AccountSID string
	AuthToken  string
	From       string // número Twilio
	To         string // número del cuidador
	Timeout    time.Duration
}

func New(opts Options) (*Client, error) {
	if opts.AccountSID == "" || opts.AuthToken == "" {
		return nil, errors.New("twilio: account sid and auth token are required")
	}
	if opts.From == "" || opts.To == "" {
		return nil, errors.New("twilio: from and to numbers are required")
	}

	hc, err := httpclient.New(opts.BaseURL, opts.Timeout)
	if err != nil {
		return nil, fmt.Errorf("twilio: %w", err)
	}

	base := &twclient.Client{
		Credentials: twclient.NewCredentials(opts.AccountSID, opts.AuthToken),
		HTTPClient:  hc,
	}
	base.SetAccountSid(opts.AccountSID)

	return &Client{
		rest: twiliogo.NewRestClientWithParams(twiliogo.ClientParams{Client: base}),
		from: opts.From,
		to:   opts.To,
	}, nil
}

func (c *Client) SendSMS(ctx context.Context, body string) error {
	params := &api.CreateMessageParams{}
	params.SetTo(c.to)
	params.SetFrom(c.from)
	params.SetBody(body)

	return c.send(ctx, "sms", func() error {
		_, err := c.rest.Api.CreateMessage(params)
		return err
	})
}

// Call llama al cuidador; twiml es el documento que Twilio reproduce al atender.
func (c *Client) Call(ctx context.Context, twiml string) error {
	params := &api.CreateCallParams{}
	params.SetTo(c.to)
	params.SetFrom(c.from)
	params.SetTwiml(twiml)

	return c.send(ctx, "call", func() error {
		_, err := c.rest.Api.CreateCall(params)
		return err
	})
}

// send corta por ctx: el SDK no recibe contexto, solo el timeout del http.Client.
func (c *Client) send(ctx context.Context, what string, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("twilio %s: %w", what, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("twilio %s: %w", what, ctx.Err())
	}
}
