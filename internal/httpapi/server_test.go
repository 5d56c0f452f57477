package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/trolleyman/hagias-monitor-service/internal/layouts"
	"github.com/trolleyman/hagias-monitor-service/pkg/types"
)

// stubService implements Service with canned data and a scriptable apply.
type stubService struct {
	layouts  []types.Layout
	applyErr error
	applied  []string
	ready    bool
}

func (s *stubService) Layouts() []types.Layout { return s.layouts }
func (s *stubService) Ready() bool             { return s.ready }

func (s *stubService) Apply(ctx context.Context, id string) (types.Layout, error) {
	for _, l := range s.layouts {
		if l.ID == id {
			s.applied = append(s.applied, id)
			return l, s.applyErr
		}
	}
	return types.Layout{}, layouts.ErrNotFound(id)
}

func newTestServer(t *testing.T, svc Service) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewMux(svc, nil))
	t.Cleanup(ts.Close)
	return ts
}

func defaultStub() *stubService {
	return &stubService{
		ready: true,
		layouts: []types.Layout{
			{ID: "desk", Name: "Desk (dual)", Emoji: "🖥️"},
			{ID: "tv", Name: "TV only"},
		},
	}
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(b)
}

func post(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Post(url, "", nil)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(b)
}

func TestIndexRendersLayoutGrid(t *testing.T) {
	ts := newTestServer(t, defaultStub())
	status, body := get(t, ts.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	for _, want := range []string{"Monitor Configurations", "Desk (dual)", "TV only", "config-grid", "applyConfig"} {
		if !strings.Contains(body, want) {
			t.Fatalf("index missing %q", want)
		}
	}
}

func TestIndexEscapesLayoutNames(t *testing.T) {
	svc := defaultStub()
	svc.layouts = append(svc.layouts, types.Layout{ID: "x", Name: `<script>alert(1)</script>`})
	ts := newTestServer(t, svc)
	_, body := get(t, ts.URL+"/")
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Fatalf("layout name not escaped")
	}
}

func TestListLayouts(t *testing.T) {
	ts := newTestServer(t, defaultStub())
	status, body := get(t, ts.URL+"/api/layouts")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var resp types.LayoutsResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Layouts) != 2 || resp.Layouts[0].ID != "desk" {
		t.Fatalf("unexpected layouts: %+v", resp.Layouts)
	}
}

func TestApplyAccepted(t *testing.T) {
	svc := defaultStub()
	ts := newTestServer(t, svc)
	status, body := post(t, ts.URL+"/api/apply/desk")
	if status != http.StatusAccepted {
		t.Fatalf("status = %d body=%q", status, body)
	}
	if want := `Configuration desk "Desk (dual)" applied successfully`; body != want {
		t.Fatalf("body = %q, want %q", body, want)
	}
	if len(svc.applied) != 1 || svc.applied[0] != "desk" {
		t.Fatalf("service not invoked: %v", svc.applied)
	}
}

func TestApplyUnknownLayout(t *testing.T) {
	ts := newTestServer(t, defaultStub())
	status, body := post(t, ts.URL+"/api/apply/garage")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d", status)
	}
	if want := "Layout garage not found"; body != want {
		t.Fatalf("body = %q, want %q", body, want)
	}
}

func TestApplyFailureMapsTo500(t *testing.T) {
	svc := defaultStub()
	svc.applyErr = io.ErrUnexpectedEOF
	ts := newTestServer(t, svc)
	status, body := post(t, ts.URL+"/api/apply/desk")
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "Failed to apply layout desk") {
		t.Fatalf("body = %q", body)
	}
}

func TestApplyUnavailableMapsTo503(t *testing.T) {
	svc := defaultStub()
	svc.applyErr = layouts.ErrApplierUnavailable("no apply command configured")
	ts := newTestServer(t, svc)
	status, body := post(t, ts.URL+"/api/apply/desk")
	if status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "no apply command configured") {
		t.Fatalf("body = %q", body)
	}
}

func TestHealthEndpoints(t *testing.T) {
	svc := defaultStub()
	ts := newTestServer(t, svc)
	if status, body := get(t, ts.URL+"/healthz"); status != http.StatusOK || body != "ok" {
		t.Fatalf("healthz = %d %q", status, body)
	}
	if status, body := get(t, ts.URL+"/readyz"); status != http.StatusOK || body != "ready" {
		t.Fatalf("readyz = %d %q", status, body)
	}
	svc.ready = false
	if status, _ := get(t, ts.URL+"/readyz"); status != http.StatusServiceUnavailable {
		t.Fatalf("readyz when not ready = %d", status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, defaultStub())
	get(t, ts.URL+"/healthz") // ensure at least one labeled observation exists
	status, body := get(t, ts.URL+"/metrics")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "hagias_http_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}
}
