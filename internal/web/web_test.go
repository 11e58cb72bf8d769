package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rook-computer/tahoeglow/internal/state"
)

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]interface{}
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, out
}

func TestGetLight(t *testing.T) {
	h := NewHandler(APIV1Config{Light: state.NewStore()})
	rec, body := do(t, h, http.MethodGet, "/api/v1/light", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["tint"] != "#FFD28E" || body["color"] != "#FFD28E" || body["on"] != true {
		t.Fatalf("body = %v", body)
	}
	if body["borderWidth"] != 40.0 || body["cornerRadius"] != 65.0 || body["colorTemp"] != 4500.0 {
		t.Fatalf("body = %v", body)
	}
}

func TestPatchLight(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
		check  func(t *testing.T, s state.State)
	}{
		{
			name:   "tint",
			body:   `{"tint":"e0f7fa"}`,
			status: http.StatusOK,
			check: func(t *testing.T, s state.State) {
				if s.TintHex != "#E0F7FA" {
					t.Errorf("tint = %q", s.TintHex)
				}
			},
		},
		{
			name:   "temperature mode clamps",
			body:   `{"useTemperature":true,"colorTemp":20000,"borderWidth":1}`,
			status: http.StatusOK,
			check: func(t *testing.T, s state.State) {
				if !s.UseTemperature || s.ColorTemperatureK != state.MaxTemperatureK || s.BorderWidth != state.MinBorderWidth {
					t.Errorf("state = %+v", s)
				}
			},
		},
		{
			name:   "bad tint changes nothing",
			body:   `{"tint":"#GGGGGG","borderWidth":100}`,
			status: http.StatusBadRequest,
			code:   "invalid_tint",
			check: func(t *testing.T, s state.State) {
				if s.BorderWidth != state.DefaultBorderWidth {
					t.Errorf("width = %v, want unchanged", s.BorderWidth)
				}
			},
		},
		{
			name:   "unknown field",
			body:   `{"brightness":3}`,
			status: http.StatusBadRequest,
			code:   "invalid_body",
		},
		{
			name:   "not json",
			body:   `width=3`,
			status: http.StatusBadRequest,
			code:   "invalid_body",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			light := state.NewStore()
			h := NewHandler(APIV1Config{Light: light})
			rec, body := do(t, h, http.MethodPatch, "/api/v1/light", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.code != "" && body["error"] != tt.code {
				t.Fatalf("error = %v, want %s", body["error"], tt.code)
			}
			if tt.check != nil {
				tt.check(t, light.Snapshot())
			}
		})
	}
}

func TestToggle(t *testing.T) {
	light := state.NewStore()
	h := NewHandler(APIV1Config{Light: light})

	rec, body := do(t, h, http.MethodPost, "/api/v1/light/toggle", "")
	if rec.Code != http.StatusOK || body["on"] != false {
		t.Fatalf("toggle: %d %v", rec.Code, body)
	}
	if rec, _ := do(t, h, http.MethodGet, "/api/v1/light/toggle", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET toggle status = %d", rec.Code)
	}
}

func TestPresets(t *testing.T) {
	light := state.NewStore()
	light.SetUseTemperature(true)
	h := NewHandler(APIV1Config{Light: light})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/presets", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var presets []presetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &presets); err != nil {
		t.Fatalf("decode presets: %v", err)
	}
	if len(presets) != 4 || presets[0].Name != "Warm" {
		t.Fatalf("presets = %+v", presets)
	}

	rec2, body := do(t, h, http.MethodPost, "/api/v1/presets/toxic", "")
	if rec2.Code != http.StatusOK || body["tint"] != "#00FF00" || body["useTemperature"] != false {
		t.Fatalf("apply preset: %d %v", rec2.Code, body)
	}

	rec3, body := do(t, h, http.MethodPost, "/api/v1/presets/neon", "")
	if rec3.Code != http.StatusNotFound || body["error"] != "preset_not_found" {
		t.Fatalf("unknown preset: %d %v", rec3.Code, body)
	}
}

func TestUnknownRoute(t *testing.T) {
	h := NewHandler(APIV1Config{Light: state.NewStore()})
	rec, body := do(t, h, http.MethodGet, "/api/v1/nothing", "")
	if rec.Code != http.StatusNotFound || body["error"] != "not_found" {
		t.Fatalf("%d %v", rec.Code, body)
	}
}

func TestServesControlPage(t *testing.T) {
	h := NewHandler(APIV1Config{Light: state.NewStore()})
	rec, _ := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<title>TahoeGlow</title>") {
		t.Fatalf("GET / = %d %q", rec.Code, rec.Body.String())
	}

	missing := NewHandler(APIV1Config{Light: state.NewStore(), StaticDir: t.TempDir() + "/absent"})
	if rec, _ := do(t, missing, http.MethodGet, "/", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing static dir: status %d", rec.Code)
	}
}

func TestDevCORSPreflight(t *testing.T) {
	h := NewHandler(APIV1Config{Light: state.NewStore(), DevMode: true})
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/light", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestServerConfigFromEnv(t *testing.T) {
	t.Setenv(EnvListenAddr, "")
	t.Setenv(EnvDevMode, "")
	cfg, err := DefaultServerConfigFromEnv("127.0.0.1:7788")
	if err != nil || cfg.ListenAddr != "127.0.0.1:7788" || cfg.DevMode {
		t.Fatalf("cfg = %+v, %v", cfg, err)
	}

	t.Setenv(EnvListenAddr, ":9000")
	t.Setenv(EnvDevMode, "true")
	cfg, err = DefaultServerConfigFromEnv("")
	if err != nil || cfg.ListenAddr != ":9000" || !cfg.DevMode {
		t.Fatalf("cfg = %+v, %v", cfg, err)
	}

	t.Setenv(EnvDevMode, "sometimes")
	if _, err := DefaultServerConfigFromEnv(""); err == nil {
		t.Fatal("accepted a non-boolean dev mode")
	}
}

func TestEventsStream(t *testing.T) {
	light := state.NewStore()
	srv := httptest.NewServer(NewHandler(APIV1Config{Light: light}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first lightResponse
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read initial state: %v", err)
	}
	if !first.On {
		t.Fatalf("initial state = %+v", first)
	}

	light.SetCursor(state.Point{X: 10, Y: 10})
	light.SetLightOn(false)

	var next lightResponse
	if err := conn.ReadJSON(&next); err != nil {
		t.Fatalf("read change: %v", err)
	}
	if next.On {
		t.Fatalf("change event = %+v, want light off", next)
	}
}

func TestHTTPServerStartStop(t *testing.T) {
	s := NewHTTPServer("127.0.0.1:0", NewHandler(APIV1Config{Light: state.NewStore()}))
	if err := s.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	port := s.Port()
	if port == 0 {
		t.Fatal("Port = 0 after Start")
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Start(t.Context()); err == nil {
		t.Fatal("Start after Stop succeeded")
	}
}
