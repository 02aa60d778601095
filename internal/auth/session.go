package auth

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	sessionExpiry = 12 * time.Hour
	cookieName    = "sv_session"
)

// ErrNoSession is returned by Validate when the request carries no valid session.
var ErrNoSession = errors.New("no valid session")

// SessionStore manages staff sessions in SQLite.
type SessionStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionStore creates a session store.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

// Create starts a session for subject, sets the cookie, and returns the
// session token so non-browser clients can send it as a bearer token.
func (s *SessionStore) Create(w http.ResponseWriter, subject string) (string, error) {
	id, err := generateSessionID()
	if err != nil {
		return "", fmt.Errorf("generating session ID: %w", err)
	}

	expiresAt := s.now().Add(sessionExpiry)

	if _, err := s.db.Exec(
		"INSERT INTO sessions (id, subject, expires_at) VALUES (?, ?, ?)",
		id, subject, expiresAt,
	); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id, nil
}

// tokenFromRequest reads the session token from the cookie or a bearer header.
func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// Validate checks the request's session and returns its subject.
func (s *SessionStore) Validate(r *http.Request) (string, error) {
	token := tokenFromRequest(r)
	if token == "" {
		return "", ErrNoSession
	}

	var subject string
	var expiresAt time.Time

	err := s.db.QueryRow(
		"SELECT subject, expires_at FROM sessions WHERE id = ?",
		token,
	).Scan(&subject, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("querying session: %w", err)
	}

	if s.now().After(expiresAt) {
		if _, delErr := s.db.Exec("DELETE FROM sessions WHERE id = ?", token); delErr != nil {
			return "", fmt.Errorf("deleting expired session: %w", delErr)
		}
		return "", ErrNoSession
	}

	return subject, nil
}

// Destroy removes the request's session and clears the cookie.
func (s *SessionStore) Destroy(w http.ResponseWriter, r *http.Request) error {
	token := tokenFromRequest(r)
	if token == "" {
		return nil
	}

	if _, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", token); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// Cleanup removes expired sessions and returns how many were removed.
func (s *SessionStore) Cleanup() (int64, error) {
	res, err := s.db.Exec("DELETE FROM sessions WHERE expires_at < ?", s.now())
	if err != nil {
		return 0, fmt.Errorf("cleaning up sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}

func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
