package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pill-dispenser/internal/platform/clock"
	"pill-dispenser/internal/router"
)

const deviceKey = "device-secret"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, loc)

	ts := httptest.NewServer(router.NewRouter(router.Options{
		Clock:     clock.Fixed(now, loc),
		DeviceKey: deviceKey,
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_ScheduleDispenseAttendance(t *testing.T) {
	ts := newServer(t)

	// 1) La UI guarda horario + conteos
	{
		st, body := doReq(t, ts.URL, "POST", "/store", nil, map[string]any{
			"pillA": map[string]any{"time": "8am", "quantity": 2},
			"pillB": map[string]any{"time": "7:30 PM", "quantity": 1},
			"cntA":  1,
			"cntB":  10,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 store, got %d body=%s", st, string(body))
		}
	}

	// 2) /api/medications refleja las horas normalizadas
	{
		st, body := doReq(t, ts.URL, "GET", "/api/medications", nil, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d", st)
		}
		var meds []map[string]any
		mustUnmarshal(t, body, &meds)
		if len(meds) != 2 {
			t.Fatalf("expected 2 medications, got %d", len(meds))
		}
		times := map[string]string{}
		for _, m := range meds {
			times[m["name"].(string)] = m["time"].(string)
		}
		if times["A"] != "08:00:00" || times["B"] != "19:30:00" {
			t.Fatalf("unexpected times %v", times)
		}
	}

	// 3) Asistencia de hoy arranca en false/false
	{
		st, body := doReq(t, ts.URL, "GET", "/api/attendance", nil, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d", st)
		}
		var rows []map[string]any
		mustUnmarshal(t, body, &rows)
		if len(rows) != 1 || rows[0]["recorded_date"] != "2025-03-10" || rows[0]["pill_a"] != false {
			t.Fatalf("unexpected attendance %v", rows)
		}
	}

	// 4) El dispensador sin key no puede marcar la toma
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/dispense", nil, map[string]any{"pill": "a"})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without device key, got %d", st)
		}
	}

	// 5) Con key: marca asistencia y descuenta stock
	{
		st, body := doReq(t, ts.URL, "POST", "/api/dispense", map[string]string{"X-Device-Key": deviceKey}, map[string]any{"pill": "a"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 dispense, got %d body=%s", st, string(body))
		}

		_, body = doReq(t, ts.URL, "GET", "/api/pills", nil, nil)
		var pills []map[string]any
		mustUnmarshal(t, body, &pills)
		for _, p := range pills {
			if p["pill"] == "A" && (p["count"] != float64(0) || p["time"] != "08:00") {
				t.Fatalf("unexpected pill A %v", p)
			}
		}

		_, body = doReq(t, ts.URL, "GET", "/api/attendance", nil, nil)
		var rows []map[string]any
		mustUnmarshal(t, body, &rows)
		if rows[0]["pill_a"] != true || rows[0]["pill_b"] != false {
			t.Fatalf("unexpected attendance after dispense %v", rows)
		}
	}
}

func TestHTTP_Store_RejectsInvalidInput(t *testing.T) {
	ts := newServer(t)

	cases := []map[string]any{
		{"pillA": map[string]any{"time": "8am", "quantity": 1}, "cntA": 1, "cntB": 1},
		{"pillA": map[string]any{"time": "13pm", "quantity": 1}, "pillB": map[string]any{"time": "8am", "quantity": 1}, "cntA": 1, "cntB": 1},
	}
	for i, c := range cases {
		st, body := doReq(t, ts.URL, "POST", "/store", nil, c)
		if st != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, st)
		}
		var out map[string]any
		mustUnmarshal(t, body, &out)
		if out["success"] != false || out["error"] != "Invalid request format" {
			t.Fatalf("case %d: unexpected body %v", i, out)
		}
	}

	st, body := doReq(t, ts.URL, "GET", "/api/medications", nil, nil)
	if st != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("rejected stores must not write anything, got %s", string(body))
	}
}

func TestHTTP_BPM(t *testing.T) {
	ts := newServer(t)
	hdr := map[string]string{"X-Device-Key": deviceKey}

	if st, _ := doReq(t, ts.URL, "POST", "/api/bpm", hdr, map[string]any{"bpm": 250}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for out of range bpm, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "POST", "/api/bpm", hdr, map[string]any{"bpm": 72}); st != http.StatusCreated {
		t.Fatalf("expected 201, got %d", st)
	}

	st, body := doReq(t, ts.URL, "GET", "/api/bpm", nil, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d", st)
	}
	var readings []map[string]any
	mustUnmarshal(t, body, &readings)
	if len(readings) != 1 || readings[0]["bpm"] != float64(72) {
		t.Fatalf("unexpected readings %v", readings)
	}
}

func TestHTTP_VoiceSessionStoresSchedule(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, "POST", "/voice/sessions", nil, nil)
	if st != http.StatusCreated {
		t.Fatalf("expected 201, got %d", st)
	}
	var sess map[string]any
	mustUnmarshal(t, body, &sess)
	id, _ := sess["id"].(string)

	send := func(transcript string) map[string]any {
		st, body := doReq(t, ts.URL, "POST", "/voice/sessions/"+id+"/commands", nil, map[string]any{"transcript": transcript})
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", st, string(body))
		}
		var out map[string]any
		mustUnmarshal(t, body, &out)
		return out
	}

	if out := send("I inserted two A pills and three B pills"); out["stage"] != "awaiting_schedule" {
		t.Fatalf("unexpected reply %v", out)
	}
	if out := send("take A at 8 AM with 2 pills and B at 7 PM with 3 pills"); out["saved"] != true {
		t.Fatalf("unexpected reply %v", out)
	}

	_, body = doReq(t, ts.URL, "GET", "/api/pills", nil, nil)
	var pills []map[string]any
	mustUnmarshal(t, body, &pills)
	got := map[string]float64{}
	for _, p := range pills {
		got[p["pill"].(string)] = p["count"].(float64)
	}
	if got["A"] != 2 || got["B"] != 3 {
		t.Fatalf("voice flow should persist counts, got %v", got)
	}
}

func TestHTTP_MiscEndpoints(t *testing.T) {
	ts := newServer(t)

	if st, body := doReq(t, ts.URL, "GET", "/health", nil, nil); st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected /health %d %s", st, string(body))
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/health", nil, nil); st != http.StatusOK {
		t.Fatalf("unexpected /api/health %d", st)
	}

	st, body := doReq(t, ts.URL, "POST", "/voice-alert", nil, nil)
	if st != http.StatusOK || !strings.Contains(string(body), "<Response>") {
		t.Fatalf("unexpected /voice-alert %d %s", st, string(body))
	}

	if st, _ := doReq(t, ts.URL, "POST", "/stt", nil, nil); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for /stt without audio, got %d", st)
	}

	if st, _ := doReq(t, ts.URL, "GET", "/api/alerts", nil, nil); st != http.StatusOK {
		t.Fatalf("unexpected /api/alerts %d", st)
	}
}

func doReq(t *testing.T, baseURL, method, path string, headers map[string]string, body any) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}

func mustUnmarshal(t *testing.T, b []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("unmarshal %s: %v", string(b), err)
	}
}
