package deepgram

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pill-dispenser/internal/domain/speech"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewTLSServer(h)
	t.Cleanup(ts.Close)

	c, err := New(Options{BaseURL: ts.URL, APIKey: "secret", SkipServerAuth: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return c
}

func TestClient_Transcribe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/listen" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("model"); got != "nova-2" {
			t.Errorf("unexpected model %q", got)
		}
		if got := r.URL.Query().Get("smart_format"); got != "true" {
			t.Errorf("smart_format not set")
		}
		if got := r.Header.Get("Authorization"); !strings.EqualFold(got, "Token secret") {
			t.Errorf("unexpected auth header %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "RIFF" {
			t.Errorf("audio not forwarded")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"I inserted 2 A pills and 3 B pills","confidence":0.98}]}]}}`))
	})

	got, err := c.Transcribe(context.Background(), []byte("RIFF"), "audio/webm")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got != "I inserted 2 A pills and 3 B pills" {
		t.Fatalf("unexpected transcript %q", got)
	}
}

func TestClient_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"err_code":"INVALID_AUTH","err_msg":"bad key"}`))
	})

	_, err := c.Transcribe(context.Background(), []byte("x"), "")
	if !errors.Is(err, speech.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}

	if _, err := c.Transcribe(context.Background(), nil, ""); !errors.Is(err, speech.ErrEmptyAudio) {
		t.Fatalf("expected ErrEmptyAudio, got %v", err)
	}
}

func TestHostOf(t *testing.T) {
	cases := map[string]string{
		"":                         "",
		"https://api.deepgram.com": "api.deepgram.com",
		"https://127.0.0.1:8443/":  "127.0.0.1:8443",
		"dg.internal:443/":         "dg.internal:443",
	}
	for in, want := range cases {
		got, err := hostOf(in)
		if err != nil || got != want {
			t.Fatalf("hostOf(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := hostOf("https://"); err == nil {
		t.Fatalf("expected error for url without host")
	}
}
