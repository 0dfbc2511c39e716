package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/valyala/fastjson"
	"golang.org/x/crypto/bcrypt"
)

// Version is reported in /api/status and in the origin structured
// data stamped onto forwarded messages.
const Version = "0.1.0"

// Server is the HTTP ingest front end. Events arrive as a single
// JSON object or an array of objects on /api/ingest and leave as
// RFC 5424 messages through the forwarder.
type Server struct {
	cfg        Config
	forwarder  *Forwarder
	instanceID string
	srv        *http.Server
	parsers    fastjson.ParserPool

	accepted int64
	rejected int64
}

// NewServer wires the ingest server to a forwarder.
func NewServer(cfg Config, fw *Forwarder) *Server {
	return &Server{
		cfg:        cfg,
		forwarder:  fw,
		instanceID: uuid.New().String(),
	}
}

// Start runs the HTTP server until Shutdown.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.Handler(),
	}

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler builds the route table; exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/ingest", s.authMiddleware(http.HandlerFunc(s.handleIngest)))
	mux.HandleFunc("/api/status", s.handleStatus)
	return mux
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

// authMiddleware checks the bearer token against the configured
// bcrypt hashes. No configured hashes means authentication is off.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.cfg.TokenHashes) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" || token == authHeader {
			w.Header().Set("WWW-Authenticate", `Bearer realm="syslogkit-relay"`)
			http.Error(w, "Unauthorized: Missing token", http.StatusUnauthorized)
			return
		}

		for _, hash := range s.cfg.TokenHashes {
			if bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil {
				next.ServeHTTP(w, r)
				return
			}
		}

		w.Header().Set("WWW-Authenticate", `Bearer realm="syslogkit-relay"`)
		http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
	})
}

// handleIngest processes POST requests carrying JSON events.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	p := s.parsers.Get()
	defer s.parsers.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		atomic.AddInt64(&s.rejected, 1)
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	peerHost := r.RemoteAddr
	if idx := strings.LastIndex(peerHost, ":"); idx != -1 {
		peerHost = peerHost[:idx]
	}

	process := func(val *fastjson.Value) {
		m := s.eventToMessage(val, peerHost)
		if err := s.forwarder.Send(&m); err != nil {
			// Only malformed messages error here; sanitized
			// fields make this unreachable for header fields,
			// so log loudly if it ever fires.
			log.Printf("Dropping unencodable event: %v", err)
			atomic.AddInt64(&s.rejected, 1)
			return
		}
		atomic.AddInt64(&s.accepted, 1)
	}

	if v.Type() == fastjson.TypeArray {
		arr, _ := v.Array()
		for _, val := range arr {
			process(val)
		}
	} else {
		process(v)
	}

	w.WriteHeader(http.StatusOK)
}

// handleStatus reports identity and delivery counters.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	delivered, spooled := s.forwarder.Stats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"instance_id": s.instanceID,
		"version":     Version,
		"accepted":    atomic.LoadInt64(&s.accepted),
		"rejected":    atomic.LoadInt64(&s.rejected),
		"delivered":   delivered,
		"spooled":     spooled,
	})
}
