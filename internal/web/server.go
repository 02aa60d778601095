// Package web provides the JSON HTTP API for smartvisit.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/evcraddock/smartvisit/internal/advisor"
	"github.com/evcraddock/smartvisit/internal/auth"
	"github.com/evcraddock/smartvisit/internal/logging"
	"github.com/evcraddock/smartvisit/internal/metrics"
	"github.com/evcraddock/smartvisit/internal/visitor"
)

// Options are the collaborators the server routes to.
type Options struct {
	Store      *visitor.Store
	Controller *visitor.Controller
	Advisor    *advisor.Advisor
	Sessions   *auth.SessionStore
	Gate       auth.Gate
	Metrics    *metrics.Metrics // optional

	// RegistrationURL is what the staff QR code encodes.
	RegistrationURL string

	Logger *slog.Logger
}

// Server is the API HTTP server.
type Server struct {
	store           *visitor.Store
	controller      *visitor.Controller
	advisor         *advisor.Advisor
	sessions        *auth.SessionStore
	gate            auth.Gate
	metrics         *metrics.Metrics
	registrationURL string
	log             *slog.Logger

	mux     *http.ServeMux
	handler http.Handler
}

// NewServer creates an API server.
func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil || opts.Controller == nil {
		return nil, errors.New("web: store and controller are required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("web: session store is required")
	}
	if opts.Advisor == nil {
		opts.Advisor = advisor.New(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		store:           opts.Store,
		controller:      opts.Controller,
		advisor:         opts.Advisor,
		sessions:        opts.Sessions,
		gate:            opts.Gate,
		metrics:         opts.Metrics,
		registrationURL: opts.RegistrationURL,
		log:             opts.Logger.With("component", "web"),
		mux:             http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("/metrics", s.metrics.Handler())
	}

	s.mux.HandleFunc("/auth/login", s.handleLogin)
	s.mux.HandleFunc("/auth/logout", s.handleLogout)

	s.mux.HandleFunc("/api/visitors", s.handleRegister)
	s.mux.HandleFunc("/api/lookup", s.handleLookup)
	s.mux.HandleFunc("/api/help", s.handleHelp)
	s.mux.Handle("/api/staff/", auth.RequireStaff(s.sessions, opts.Logger, http.HandlerFunc(s.handleStaffRoute)))

	s.handler = logging.RequestLogger(opts.Logger, s.mux)

	s.refreshPending()

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]any{"status": "ok", "visitors": s.store.Len()}, http.StatusOK)
}

// handleStaffRoute routes /api/staff/* requests.
func (s *Server) handleStaffRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/staff/")
	path = strings.TrimSuffix(path, "/")

	if path == "qr.png" {
		if r.Method != http.MethodGet {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleQR(w, r)
		return
	}

	if path == "visitors" {
		if r.Method != http.MethodGet {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.apiListVisitors(w, r)
		return
	}

	rest, ok := strings.CutPrefix(path, "visitors/")
	if !ok || rest == "" {
		apiError(w, "not found", http.StatusNotFound)
		return
	}

	// /api/staff/visitors/{id}/status
	if id, ok := strings.CutSuffix(rest, "/status"); ok {
		if r.Method != http.MethodPost {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.apiSetStatus(w, r, id)
		return
	}

	// /api/staff/visitors/{id}/analysis
	if id, ok := strings.CutSuffix(rest, "/analysis"); ok {
		if r.Method != http.MethodGet {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.apiAnalysis(w, r, id)
		return
	}

	if strings.Contains(rest, "/") {
		apiError(w, "not found", http.StatusNotFound)
		return
	}

	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.apiGetVisitor(w, rest)
}

// refreshPending updates the pending gauge from the current collection.
func (s *Server) refreshPending() {
	if s.metrics == nil {
		return
	}
	pending, _ := visitor.SplitByStatus(s.store.Snapshot())
	s.metrics.SetPending(len(pending))
}
