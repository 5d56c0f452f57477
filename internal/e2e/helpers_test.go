package e2e

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/trolleyman/hagias-monitor-service/internal/httpapi"
	"github.com/trolleyman/hagias-monitor-service/internal/layouts"
	"github.com/trolleyman/hagias-monitor-service/pkg/types"
)

func sampleLayouts() []types.Layout {
	return []types.Layout{
		{ID: "desk", Name: "Desk", Emoji: "🖥️", Displays: []types.Display{
			{ID: "DP-1", Mode: types.Mode{Width: 2560, Height: 1440, RefreshHz: 144}, Primary: true},
		}},
		{ID: "tv", Name: "TV", Emoji: "📺"},
	}
}

// writeLayoutsFile marshals the layouts into a fresh temp file and returns
// its path.
func writeLayoutsFile(t *testing.T, ls []types.Layout) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layouts.json")
	b, err := json.Marshal(ls)
	if err != nil {
		t.Fatalf("marshal layouts: %v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write layouts file: %v", err)
	}
	return path
}

// newServer wires the full stack the way cmd/hagias-monitor-service does:
// store from a real file, the given applier, hub on the real clock, NewMux.
func newServer(t *testing.T, applier layouts.Applier) (*httptest.Server, *layouts.Store) {
	t.Helper()
	store, err := layouts.NewStore(writeLayoutsFile(t, sampleLayouts()))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	log := zerolog.Nop()
	svc := layouts.NewService(store, applier, log)
	hub := httpapi.NewHub(clockwork.NewRealClock(), log)
	srv := httptest.NewServer(httpapi.NewMux(svc, hub))
	t.Cleanup(srv.Close)
	return srv, store
}

// dialLive opens the live websocket against the test server.
func dialLive(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := strings.Replace(srv.URL, "http", "ws", 1) + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readOpWithin reads one toast op, failing the test if none arrives in time.
func readOpWithin(t *testing.T, conn *websocket.Conn, d time.Duration) types.ToastOp {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(d)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	var op types.ToastOp
	if err := conn.ReadJSON(&op); err != nil {
		t.Fatalf("read op: %v", err)
	}
	return op
}
