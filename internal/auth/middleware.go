package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type contextKey struct{}

// RequireStaff rejects requests without a valid staff session with a JSON 401.
// A nil logger uses slog.Default.
func RequireStaff(sessions *SessionStore, logger *slog.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "auth")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := sessions.Validate(r)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				log.Error("validating session", "error", err)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "staff login required"})
			return
		}

		ctx := context.WithValue(r.Context(), contextKey{}, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SubjectFromContext returns the session subject set by RequireStaff.
func SubjectFromContext(r *http.Request) string {
	if v, ok := r.Context().Value(contextKey{}).(string); ok {
		return v
	}
	return ""
}
