package relay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/coffersTech/syslogkit/internal/spool"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		ListenAddr:      ":0",
		UpstreamNetwork: "tcp",
		UpstreamAddr:    "127.0.0.1:1", // never dialed successfully
		SpoolDir:        t.TempDir(),
		DefaultFacility: "user",
		DefaultAppName:  "relay",
	}
}

func newTestServer(t *testing.T, cfg Config) (*Server, *Forwarder) {
	t.Helper()
	sp, err := spool.New(cfg.SpoolDir)
	if err != nil {
		t.Fatalf("spool.New: %v", err)
	}
	fw := NewForwarder(cfg.UpstreamNetwork, cfg.UpstreamAddr, sp)
	t.Cleanup(func() { fw.Close() })
	return NewServer(cfg, fw), fw
}

func TestHandleIngestSingle(t *testing.T) {
	srv, fw := newTestServer(t, testConfig(t))

	body := `{"severity":"err","facility":"local4","host":"web-1","app":"checkout","message":"payment failed"}`
	req := httptest.NewRequest("POST", "/api/ingest", strings.NewReader(body))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	// The upstream is unreachable, so the encoded message went to
	// the spool.
	if _, spooled := fw.Stats(); spooled != 1 {
		t.Errorf("spooled = %d, want 1", spooled)
	}

	var got []string
	if err := fw.spool.Drain(func(msg []byte) error {
		got = append(got, string(msg))
		return nil
	}); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("drained %d messages, want 1", len(got))
	}
	if !strings.HasPrefix(got[0], "<163>1 ") {
		t.Errorf("message %q: want PRI 163 (local4/err)", got[0])
	}
	if !strings.Contains(got[0], " web-1 checkout ") {
		t.Errorf("message %q: host/app not mapped", got[0])
	}
	if !strings.HasSuffix(got[0], " payment failed") {
		t.Errorf("message %q: body not mapped", got[0])
	}
}

func TestHandleIngestBatch(t *testing.T) {
	srv, fw := newTestServer(t, testConfig(t))

	body := `[{"message":"one"},{"message":"two"},{"message":"three"}]`
	req := httptest.NewRequest("POST", "/api/ingest", strings.NewReader(body))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if _, spooled := fw.Stats(); spooled != 3 {
		t.Errorf("spooled = %d, want 3", spooled)
	}
}

func TestHandleIngestInvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t))

	req := httptest.NewRequest("POST", "/api/ingest", strings.NewReader("{nope"))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleIngestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t))

	req := httptest.NewRequest("GET", "/api/ingest", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sk-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	cfg := testConfig(t)
	cfg.TokenHashes = []string{string(hash)}
	srv, _ := newTestServer(t, cfg)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer sk-secret", http.StatusOK},
		{"wrong token", "Bearer sk-wrong", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Basic abc", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/ingest", strings.NewReader(`{"message":"x"}`))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			srv.Handler().ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestHandleStatus(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t))

	req := httptest.NewRequest("GET", "/api/status", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var status map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if status["instance_id"] == "" {
		t.Error("missing instance_id")
	}
	if status["version"] != Version {
		t.Errorf("version = %v, want %q", status["version"], Version)
	}
}
