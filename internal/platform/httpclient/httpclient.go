package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultTimeout = 10 * time.Second

// New crea el *http.Client que se les pasa a los SDKs (Twilio, OpenAI).
// Si baseURL no está vacío, cada request se redirige a ese scheme+host conservando el
// path: los SDKs apuntan a hosts fijos y así se los puede probar contra httptest.
func New(baseURL string, timeout time.Duration) (*http.Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &http.Client{Timeout: timeout}

	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return c, nil
	}
	target, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, errors.New("invalid base url: scheme and host are required")
	}

	c.Transport = &redirectTransport{target: target, next: http.DefaultTransport}
	return c, nil
}

type redirectTransport struct {
	target *url.URL
	next   http.RoundTripper
}

func (t *redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = t.target.Scheme
	r.URL.Host = t.target.Host
	r.Host = t.target.Host
	if prefix := strings.TrimRight(t.target.Path, "/"); prefix != "" {
		r.URL.Path = prefix + r.URL.Path
	}
	return t.next.RoundTrip(r)
}
