package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/yndnr/webfront/internal/core/domain"
	"github.com/yndnr/webfront/internal/core/service"
	"github.com/yndnr/webfront/internal/infra/shutdown"
	"github.com/yndnr/webfront/internal/telemetry/logger"
)

type fakeBuild struct {
	snap *service.BuildSnapshot
	err  error
}

func (f *fakeBuild) Snapshot() (*service.BuildSnapshot, error) {
	return f.snap, f.err
}

type fakeShutdown struct {
	down    bool
	pending int
	subs    []shutdown.SignalSubscription
}

func (f *fakeShutdown) ShuttingDown() bool                           { return f.down }
func (f *fakeShutdown) Pending() int                                 { return f.pending }
func (f *fakeShutdown) Subscriptions() []shutdown.SignalSubscription { return f.subs }

func testLogger(t *testing.T) logger.Logger {
	t.Helper()
	l, err := logger.New(logger.Config{Level: "error", Format: "json", Output: io.Discard})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	return l
}

func loadedBuild(t *testing.T, nodeEnv string) *fakeBuild {
	t.Helper()
	svc := service.NewBuildConfigService(nil, testLogger(t))
	if err := svc.Reload(service.BuildSection{NodeEnv: nodeEnv, AppDir: true}); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	snap, _ := svc.Snapshot()
	return &fakeBuild{snap: snap}
}

func do(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(logger.WithRequestID(req.Context(), "req-test"))
	h.ServeHTTP(rec, req)

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal(%s) error = %v", rec.Body.String(), err)
	}
	return rec, resp
}

func TestHandleHealth(t *testing.T) {
	h := New(&fakeBuild{err: domain.ErrConfigNotLoaded}, &fakeShutdown{down: true}, testLogger(t))

	rec, resp := do(t, h, "/health")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 even while shutting down", rec.Code)
	}
	if resp.Code != "OK" || resp.RequestID != "req-test" {
		t.Errorf("envelope = %+v", resp)
	}
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name     string
		build    *fakeBuild
		state    ShutdownState
		wantCode int
		wantErr  string
	}{
		{"ready", loadedBuild(t, "development"), &fakeShutdown{}, http.StatusOK, ""},
		{"nil state", loadedBuild(t, "development"), nil, http.StatusOK, ""},
		{"shutting down", loadedBuild(t, "development"), &fakeShutdown{down: true}, http.StatusServiceUnavailable, "WF-SYS-5031"},
		{"not loaded", &fakeBuild{err: domain.ErrConfigNotLoaded}, &fakeShutdown{}, http.StatusServiceUnavailable, "WF-BUILD-5030"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(tt.build, tt.state, testLogger(t))
			rec, resp := do(t, h, "/ready")

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantErr != "" {
				if resp.Code != tt.wantErr || rec.Header().Get("X-Error-Code") != tt.wantErr {
					t.Errorf("code = %q, header = %q, want %q", resp.Code, rec.Header().Get("X-Error-Code"), tt.wantErr)
				}
			}
		})
	}
}

func TestHandleNext(t *testing.T) {
	h := New(loadedBuild(t, "production"), nil, testLogger(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/build/next", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"data":{"experimental":{"appDir":true}}`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandlePostCSS(t *testing.T) {
	tests := []struct {
		nodeEnv      string
		wantMinifier bool
	}{
		{"production", true},
		{"development", false},
	}

	for _, tt := range tests {
		t.Run(tt.nodeEnv, func(t *testing.T) {
			h := New(loadedBuild(t, tt.nodeEnv), nil, testLogger(t))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/build/postcss", nil))

			var body struct {
				Data domain.Pipeline `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			names := body.Data.Names()
			if body.Data.Has(domain.PluginMinifier) != tt.wantMinifier {
				t.Errorf("plugins = %v, minifier want %v", names, tt.wantMinifier)
			}
			if names[0] != domain.PluginTailwind {
				t.Errorf("first plugin = %s, want %s", names[0], domain.PluginTailwind)
			}
			if tt.wantMinifier && names[len(names)-1] != domain.PluginMinifier {
				t.Errorf("minifier not last: %v", names)
			}
		})
	}
}

func TestHandleBuild(t *testing.T) {
	h := New(loadedBuild(t, "production"), nil, testLogger(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/build", nil))

	var body struct {
		Data BuildResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !body.Data.Production || body.Data.NodeEnv != "production" || !body.Data.AppDir {
		t.Errorf("build = %+v", body.Data)
	}
	if len(body.Data.Plugins) != 6 {
		t.Errorf("plugins = %v", body.Data.Plugins)
	}
}

func TestHandleBuild_ForeignError(t *testing.T) {
	h := New(&fakeBuild{err: errors.New("disk on fire")}, nil, testLogger(t))
	rec, resp := do(t, h, "/build")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if resp.Code != "WF-SYS-5000" || strings.Contains(resp.Message, "disk") {
		t.Errorf("envelope leaks internals: %+v", resp)
	}
}

func TestHandleSignals(t *testing.T) {
	state := &fakeShutdown{
		pending: 2,
		down:    true,
		subs: []shutdown.SignalSubscription{
			{Name: "SIGINT", Signal: os.Interrupt},
		},
	}
	h := New(loadedBuild(t, "development"), state, testLogger(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/v1/signals", nil))

	var body struct {
		Data SignalsResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	got := body.Data
	if len(got.Signals) != 1 || got.Signals[0].Name != "SIGINT" || got.Signals[0].Description != "interrupt" {
		t.Errorf("signals = %+v", got.Signals)
	}
	if got.PendingExits != 2 || !got.ShuttingDown {
		t.Errorf("state = %+v", got)
	}
	if got.GracePeriodMS != 400 || got.ExitCode != 0 {
		t.Errorf("grace = %d, exit = %d", got.GracePeriodMS, got.ExitCode)
	}
}

func TestHandleVersion(t *testing.T) {
	h := New(loadedBuild(t, "development"), nil, testLogger(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/v1/version", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"go_version"`) {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestNotFound(t *testing.T) {
	h := New(loadedBuild(t, "development"), nil, testLogger(t))
	rec, resp := do(t, h, "/sessions")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if resp.Code != "WF-SYS-4040" || resp.Details != "/sessions" {
		t.Errorf("envelope = %+v", resp)
	}
}
