package blackbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil { t.Fatalf("listen: %v", err) }
	addr := ln.Addr().String()
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil { t.Fatalf("split: %v", err) }
	cleanup := func() { _ = ln.Close() }
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	return port, cleanup
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok { t.Fatal("runtime.Caller failed") }
	// this file: <root>/tests/blackbox/blackbox_test.go
	bbDir := filepath.Dir(thisFile)
	root := filepath.Dir(filepath.Dir(bbDir))
	return root
}

func buildBinary(t *testing.T) string {
	t.Helper()
	root := projectRootFromThisFile(t)
	outDir := t.TempDir()
	binPath := filepath.Join(outDir, "hagias-monitor-service")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/hagias-monitor-service")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

// createLayoutsFile writes a layouts JSON file with one visible and one
// hidden layout.
func createLayoutsFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layouts.json")
	content := `[
  {"id":"desk","name":"Desk","emoji":"D","layout":[{"id":"DP-1","position":{"x":0,"y":0},"mode":{"width":2560,"height":1440,"refresh_hz":144},"primary":true}]},
  {"id":"tv","name":"TV","emoji":"T","hidden":true,"layout":[]}
]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { t.Fatalf("write layouts: %v", err) }
	return path
}

type serverProc struct {
	cmd  *exec.Cmd
	base string // http base URL, e.g. http://127.0.0.1:18080
}

func startServer(t *testing.T, bin, layoutsPath, applyCmd string, port int) *serverProc {
	t.Helper()
	addr := fmt.Sprintf(":%d", port)
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	args := []string{
		"--addr", addr,
		"--layouts", layoutsPath,
		"--apply-cmd", applyCmd,
	}
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	// Wait for healthz
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK { break }
		}
		if time.Now().After(deadline) {
			_ = cmd.Process.Kill()
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	sp := &serverProc{cmd: cmd, base: base}
	t.Cleanup(func() { _ = cmd.Process.Kill() })
	return sp
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil { t.Fatalf("new req: %v", err) }
	resp, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do: %v", err) }
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func post(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, nil)
	if err != nil { t.Fatalf("new req: %v", err) }
	resp, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do: %v", err) }
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func TestBlackbox_Flow(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("apply command uses sh")
	}
	bin := buildBinary(t)
	layoutsPath := createLayoutsFile(t)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, layoutsPath, "/bin/sh -c true", port)

	// /healthz
	resp, body := get(t, sp.base+"/healthz")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/healthz %d %s", resp.StatusCode, string(body)) }

	// /readyz: the registry is loaded at startup, so ready immediately
	resp, body = get(t, sp.base+"/readyz")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/readyz %d %s", resp.StatusCode, string(body)) }

	// /api/layouts lists only the visible layout
	resp, body = get(t, sp.base+"/api/layouts")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/api/layouts %d %s", resp.StatusCode, string(body)) }
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") { t.Fatalf("/api/layouts content-type=%s", ct) }
	var layoutsResp struct {
		Layouts []struct {
			ID string `json:"id"`
		} `json:"layouts"`
	}
	if err := json.Unmarshal(body, &layoutsResp); err != nil { t.Fatalf("/api/layouts json: %v body=%s", err, string(body)) }
	if len(layoutsResp.Layouts) != 1 || layoutsResp.Layouts[0].ID != "desk" { t.Fatalf("expected [desk], got %+v", layoutsResp.Layouts) }

	// dashboard page renders the grid
	resp, body = get(t, sp.base+"/")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/ %d", resp.StatusCode) }
	if !strings.Contains(string(body), "Desk") { t.Fatalf("dashboard missing layout name: %s", string(body)) }

	// apply the visible layout
	resp, body = post(t, sp.base+"/api/apply/desk")
	if resp.StatusCode != http.StatusAccepted { t.Fatalf("/api/apply/desk %d %s", resp.StatusCode, string(body)) }
	if want := `Configuration desk "Desk" applied successfully`; string(body) != want {
		t.Fatalf("apply body = %q, want %q", string(body), want)
	}

	// hidden layouts can still be applied directly
	resp, _ = post(t, sp.base+"/api/apply/tv")
	if resp.StatusCode != http.StatusAccepted { t.Fatalf("/api/apply/tv %d", resp.StatusCode) }

	// unknown id
	resp, body = post(t, sp.base+"/api/apply/garage")
	if resp.StatusCode != http.StatusNotFound { t.Fatalf("expected 404, got %d", resp.StatusCode) }
	if want := "Layout garage not found"; string(body) != want { t.Fatalf("404 body = %q, want %q", string(body), want) }
}

func TestBlackbox_ApplyCommandFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("apply command uses sh")
	}
	bin := buildBinary(t)
	layoutsPath := createLayoutsFile(t)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, layoutsPath, "false", port)

	resp, body := post(t, sp.base+"/api/apply/desk")
	if resp.StatusCode != http.StatusInternalServerError { t.Fatalf("expected 500, got %d %s", resp.StatusCode, string(body)) }
	if !strings.Contains(string(body), `Failed to apply layout desk "Desk"`) { t.Fatalf("500 body = %q", string(body)) }
}

func TestBlackbox_NoApplyCommand503(t *testing.T) {
	bin := buildBinary(t)
	layoutsPath := createLayoutsFile(t)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, layoutsPath, "", port)

	resp, body := post(t, sp.base+"/api/apply/desk")
	if resp.StatusCode != http.StatusServiceUnavailable { t.Fatalf("expected 503, got %d %s", resp.StatusCode, string(body)) }
}
