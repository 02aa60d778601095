package web

import (
	"net/http"

	"github.com/evcraddock/smartvisit/internal/auth"
)

// wrongPassword is shown inline on a failed staff login.
const wrongPassword = "Mật khẩu không đúng. Vui lòng thử lại."

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// handleLogin handles POST /auth/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if !s.gate.Check(req.Password) {
		apiError(w, wrongPassword, http.StatusUnauthorized)
		return
	}

	token, err := s.sessions.Create(w, auth.StaffSubject)
	if err != nil {
		s.log.Error("creating session", "error", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, loginResponse{Token: token}, http.StatusOK)
}

// handleLogout handles POST /auth/logout.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.sessions.Destroy(w, r); err != nil {
		s.log.Error("destroying session", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
