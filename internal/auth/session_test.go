package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/evcraddock/smartvisit/internal/db"
)

func TestSessionCreateAndValidate(t *testing.T) {
	store := testSessionStore(t)

	w := httptest.NewRecorder()
	token, err := store.Create(w, StaffSubject)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sessionCookie := findCookie(w.Result().Cookies())
	if sessionCookie == nil {
		t.Fatalf("expected cookie named %q", cookieName)
	}
	if sessionCookie.Value != token {
		t.Errorf("cookie value = %q, want returned token %q", sessionCookie.Value, token)
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(sessionCookie)

	subject, err := store.Validate(r)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if subject != StaffSubject {
		t.Errorf("subject = %q, want %q", subject, StaffSubject)
	}
}

func TestSessionValidateBearer(t *testing.T) {
	store := testSessionStore(t)

	token, err := store.Create(httptest.NewRecorder(), StaffSubject)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	if _, err := store.Validate(r); err != nil {
		t.Fatalf("validate bearer: %v", err)
	}
}

func TestSessionValidateNoCookie(t *testing.T) {
	store := testSessionStore(t)

	r := httptest.NewRequest("GET", "/", nil)
	if _, err := store.Validate(r); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestSessionValidateInvalidCookie(t *testing.T) {
	store := testSessionStore(t)

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: cookieName, Value: "bogus-session-id"})

	if _, err := store.Validate(r); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestSessionExpired(t *testing.T) {
	store := testSessionStore(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	token, err := store.Create(httptest.NewRecorder(), StaffSubject)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now = now.Add(sessionExpiry + time.Minute)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	if _, err := store.Validate(r); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestSessionDestroy(t *testing.T) {
	store := testSessionStore(t)

	w := httptest.NewRecorder()
	if _, err := store.Create(w, StaffSubject); err != nil {
		t.Fatalf("create: %v", err)
	}
	sessionCookie := findCookie(w.Result().Cookies())

	r := httptest.NewRequest("POST", "/auth/logout", nil)
	r.AddCookie(sessionCookie)
	w2 := httptest.NewRecorder()

	if err := store.Destroy(w2, r); err != nil {
		t.Fatalf("destroy: %v", err)
	}

	cleared := findCookie(w2.Result().Cookies())
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Errorf("expected cleared cookie, got %+v", cleared)
	}

	r2 := httptest.NewRequest("GET", "/", nil)
	r2.AddCookie(sessionCookie)
	if _, err := store.Validate(r2); err == nil {
		t.Fatal("expected error after destroy")
	}
}

func TestSessionDestroyWithoutSession(t *testing.T) {
	store := testSessionStore(t)

	r := httptest.NewRequest("POST", "/auth/logout", nil)
	if err := store.Destroy(httptest.NewRecorder(), r); err != nil {
		t.Fatalf("destroy: %v", err)
	}
}

func TestSessionCleanup(t *testing.T) {
	store := testSessionStore(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if _, err := store.Create(httptest.NewRecorder(), StaffSubject); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	now = now.Add(sessionExpiry - time.Hour)
	fresh, err := store.Create(httptest.NewRecorder(), StaffSubject)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now = now.Add(2 * time.Hour)
	n, err := store.Cleanup()
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+fresh)
	if _, err := store.Validate(r); err != nil {
		t.Errorf("fresh session should survive cleanup: %v", err)
	}
}

func findCookie(cookies []*http.Cookie) *http.Cookie {
	for _, c := range cookies {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

func testSessionStore(t *testing.T) *SessionStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return NewSessionStore(d)
}
