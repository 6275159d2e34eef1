package twilio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	twclient "github.com/twilio/twilio-go/client"
)

func TestClient_SendSMSAndCall(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "tok" {
			t.Errorf("missing basic auth")
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("To") != "+911111" || r.PostForm.Get("From") != "+15550000" {
			t.Errorf("unexpected numbers %v", r.PostForm)
		}

		switch r.URL.Path {
		case "/2010-04-01/Accounts/AC123/Messages.json":
			if r.PostForm.Get("Body") != "Pill A stock is exhausted" {
				t.Errorf("unexpected body %q", r.PostForm.Get("Body"))
			}
		case "/2010-04-01/Accounts/AC123/Calls.json":
			if !strings.Contains(r.PostForm.Get("Twiml"), "<Say") {
				t.Errorf("unexpected twiml %q", r.PostForm.Get("Twiml"))
			}
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		mu.Lock()
		calls = append(calls, r.URL.Path)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1","status":"queued"}`))
	}))
	defer ts.Close()

	c, err := New(Options{BaseURL: ts.URL, AccountSID: "AC123", AuthToken: "tok", From: "+15550000", To: "+911111"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := c.SendSMS(context.Background(), "Pill A stock is exhausted"); err != nil {
		t.Fatalf("sms: %v", err)
	}
	if err := c.Call(context.Background(), `<Response><Say voice="alice">hi</Say></Response>`); err != nil {
		t.Fatalf("call: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(calls))
	}
}

func TestClient_ProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"invalid To","status":400}`))
	}))
	defer ts.Close()

	c, _ := New(Options{BaseURL: ts.URL, AccountSID: "AC1", AuthToken: "t", From: "1", To: "2"})
	err := c.SendSMS(context.Background(), "x")

	var rerr *twclient.TwilioRestError
	if !errors.As(err, &rerr) || rerr.Code != 21211 {
		t.Fatalf("expected TwilioRestError 21211, got %v", err)
	}
}

func TestClient_CallHonorsContext(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()
	defer close(release)

	c, _ := New(Options{BaseURL: ts.URL, AccountSID: "AC1", AuthToken: "t", From: "1", To: "2", Timeout: 5 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := c.Call(ctx, "<Response/>"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	if _, err := New(Options{AccountSID: "AC1", From: "1", To: "2"}); err == nil {
		t.Fatalf("expected error without auth token")
	}
	if _, err := New(Options{BaseURL: "::bad", AccountSID: "AC1", AuthToken: "t", From: "1", To: "2"}); err == nil {
		t.Fatalf("expected error for invalid base url")
	}
}
