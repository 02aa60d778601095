package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/evcraddock/smartvisit/internal/auth"
	"github.com/evcraddock/smartvisit/internal/visitor"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// decodeBody decodes a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

// handleRegister handles POST /api/visitors.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var in visitor.Input
	if !decodeBody(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	v, err := s.controller.Create(in)
	if err != nil {
		s.log.Error("registering visitor", "error", err)
		apiError(w, "failed to save registration", http.StatusInternalServerError)
		return
	}

	if s.metrics != nil {
		s.metrics.VisitCreated()
	}
	s.refreshPending()

	apiJSON(w, v, http.StatusCreated)
}

// handleLookup handles GET /api/lookup?phone=.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	phone := r.URL.Query().Get("phone")
	if phone == "" {
		apiError(w, "phone is required", http.StatusBadRequest)
		return
	}

	v, ok := visitor.FindByPhone(s.store.Snapshot(), phone)
	if !ok {
		apiError(w, "no registration found", http.StatusNotFound)
		return
	}

	apiJSON(w, v, http.StatusOK)
}

type helpRequest struct {
	Question string `json:"question"`
}

type helpResponse struct {
	Answer string `json:"answer"`
}

// handleHelp handles POST /api/help.
func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req helpRequest
	if !decodeBody(w, r, &req) {
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		apiError(w, "question is required", http.StatusBadRequest)
		return
	}

	apiJSON(w, helpResponse{Answer: s.advisor.Help(r.Context(), question)}, http.StatusOK)
}

// Staff list views.
const (
	viewPending = "pending"
	viewHistory = "history"
	viewAll     = "all"
)

type listResponse struct {
	Visitors     []visitor.Visitor `json:"visitors"`
	PendingCount int               `json:"pending_count"`
}

// apiListVisitors handles GET /api/staff/visitors?q=&view=.
func (s *Server) apiListVisitors(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	if view == "" {
		view = viewPending
	}

	records := s.store.Snapshot()
	pending, decided := visitor.SplitByStatus(records)

	var out []visitor.Visitor
	switch view {
	case viewPending:
		out = pending
	case viewHistory:
		out = decided
	case viewAll:
		out = records
	default:
		apiError(w, "view must be one of pending, history, all", http.StatusBadRequest)
		return
	}

	q := r.URL.Query().Get("q")
	out = visitor.Search(out, q)
	if out == nil {
		out = []visitor.Visitor{}
	}

	// The pending count follows the search term, like the list itself.
	pendingCount := len(visitor.Search(pending, q))

	apiJSON(w, listResponse{Visitors: out, PendingCount: pendingCount}, http.StatusOK)
}

// apiGetVisitor handles GET /api/staff/visitors/{id}.
func (s *Server) apiGetVisitor(w http.ResponseWriter, id string) {
	v, ok := visitor.FindByID(s.store.Snapshot(), id)
	if !ok {
		apiError(w, "visitor not found", http.StatusNotFound)
		return
	}
	apiJSON(w, v, http.StatusOK)
}

type statusRequest struct {
	Status visitor.Status `json:"status"`
}

type statusResponse struct {
	ID      string         `json:"id"`
	Status  visitor.Status `json:"status"`
	Updated bool           `json:"updated"`
}

// apiSetStatus handles POST /api/staff/visitors/{id}/status.
func (s *Server) apiSetStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := s.controller.SetStatus(id, req.Status)
	if errors.Is(err, visitor.ErrInvalidStatus) {
		apiError(w, "status must be APPROVED or REJECTED", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.log.Error("updating visitor status", "id", id, "error", err)
		apiError(w, "failed to update status", http.StatusInternalServerError)
		return
	}

	if updated {
		s.log.Info("visitor status set", "id", id, "status", req.Status, "by", auth.SubjectFromContext(r))
		if s.metrics != nil {
			s.metrics.Decision(string(req.Status))
		}
		s.refreshPending()
	}

	apiJSON(w, statusResponse{ID: id, Status: req.Status, Updated: updated}, http.StatusOK)
}

// apiAnalysis handles GET /api/staff/visitors/{id}/analysis.
func (s *Server) apiAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	v, ok := visitor.FindByID(s.store.Snapshot(), id)
	if !ok {
		apiError(w, "visitor not found", http.StatusNotFound)
		return
	}

	apiJSON(w, s.advisor.Classify(r.Context(), v.ID, v.Purpose), http.StatusOK)
}
