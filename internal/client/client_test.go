package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evcraddock/smartvisit/internal/advisor"
	"github.com/evcraddock/smartvisit/internal/visitor"
)

func jsonHandler(t *testing.T, check func(r *http.Request), status int, resp any) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if resp != nil {
			if err := json.NewEncoder(w).Encode(resp); err != nil {
				t.Errorf("encode: %v", err)
			}
		}
	})
}

func TestRegister(t *testing.T) {
	in := visitor.Input{
		FullName:      "Nguyen Van A",
		PhoneNumber:   "0901234567",
		HostName:      "Mr. Binh",
		Purpose:       "Meeting",
		VisitDateTime: "2024-06-01T09:00",
	}

	srv := httptest.NewServer(jsonHandler(t, func(r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/visitors" {
			t.Errorf("%s %s, want POST /api/visitors", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("public endpoint should not need a token")
		}
		var got visitor.Input
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		if got != in {
			t.Errorf("body = %+v, want %+v", got, in)
		}
	}, http.StatusCreated, visitor.Visitor{ID: "v1", FullName: in.FullName, Status: visitor.Pending}))
	defer srv.Close()

	v, err := New(srv.URL, "").Register(in)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if v.ID != "v1" || v.Status != visitor.Pending {
		t.Errorf("visitor = %+v", v)
	}
}

func TestLookupEscapesPhone(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, func(r *http.Request) {
		if got := r.URL.Query().Get("phone"); got != "+84 901" {
			t.Errorf("phone = %q, want %q", got, "+84 901")
		}
	}, http.StatusOK, visitor.Visitor{ID: "v1"}))
	defer srv.Close()

	if _, err := New(srv.URL, "").Lookup("+84 901"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, nil, http.StatusNotFound, map[string]string{"error": "no registration found"}))
	defer srv.Close()

	_, err := New(srv.URL, "").Lookup("0000")
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	if err.Error() != "no registration found" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestAsk(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, func(r *http.Request) {
		if r.URL.Path != "/api/help" {
			t.Errorf("path = %q", r.URL.Path)
		}
	}, http.StatusOK, map[string]string{"answer": "Mang CMND."}))
	defer srv.Close()

	answer, err := New(srv.URL, "").Ask("Cần mang gì?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer != "Mang CMND." {
		t.Errorf("answer = %q", answer)
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, func(r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"password":"admin123"}` {
			t.Errorf("body = %s", body)
		}
	}, http.StatusOK, map[string]string{"token": "tok"}))
	defer srv.Close()

	token, err := New(srv.URL, "").Login("admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "tok" {
		t.Errorf("token = %q", token)
	}
}

func TestLoginEmptyToken(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, nil, http.StatusOK, map[string]string{}))
	defer srv.Close()

	if _, err := New(srv.URL, "").Login("admin123"); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/auth/logout" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Error("expected Bearer tok")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := New(srv.URL, "tok").Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
}

func TestListVisitors(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, func(r *http.Request) {
		if r.URL.Path != "/api/staff/visitors" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("view") != "history" || r.URL.Query().Get("q") != "nguyen" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Error("expected Bearer tok")
		}
	}, http.StatusOK, ListResponse{
		Visitors:     []visitor.Visitor{{ID: "v1", Status: visitor.Approved}},
		PendingCount: 4,
	}))
	defer srv.Close()

	resp, err := New(srv.URL, "tok").ListVisitors(ListOptions{View: "history", Search: "nguyen"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Visitors) != 1 || resp.PendingCount != 4 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGetVisitor(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, func(r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/staff/visitors/v1" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Error("expected Bearer tok")
		}
	}, http.StatusOK, visitor.Visitor{ID: "v1", FullName: "Nguyen Van A", Status: visitor.Pending}))
	defer srv.Close()

	v, err := New(srv.URL, "tok").GetVisitor("v1")
	if err != nil {
		t.Fatalf("get visitor: %v", err)
	}
	if v.ID != "v1" || v.FullName != "Nguyen Van A" {
		t.Errorf("visitor = %+v", v)
	}
}

func TestGetVisitorNotFound(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, nil, http.StatusNotFound, map[string]string{"error": "visitor not found"}))
	defer srv.Close()

	_, err := New(srv.URL, "tok").GetVisitor("missing")
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestSetStatus(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, func(r *http.Request) {
		if r.URL.Path != "/api/staff/visitors/v1/status" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body["status"] != "REJECTED" {
			t.Errorf("status = %q", body["status"])
		}
	}, http.StatusOK, StatusResponse{ID: "v1", Status: visitor.Rejected, Updated: true}))
	defer srv.Close()

	resp, err := New(srv.URL, "tok").SetStatus("v1", visitor.Rejected)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if !resp.Updated {
		t.Error("expected updated")
	}
}

func TestAnalyze(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, func(r *http.Request) {
		if r.URL.Path != "/api/staff/visitors/v1/analysis" {
			t.Errorf("path = %q", r.URL.Path)
		}
	}, http.StatusOK, advisor.Classification{Reliability: advisor.Medium, Summary: "ok"}))
	defer srv.Close()

	cl, err := New(srv.URL, "tok").Analyze("v1")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if cl.Reliability != advisor.Medium {
		t.Errorf("reliability = %q", cl.Reliability)
	}
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL, "").Health()
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "server error: Internal Server Error" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, nil, http.StatusUnauthorized, map[string]string{"error": "staff login required"}))
	defer srv.Close()

	_, err := New(srv.URL, "").ListVisitors(ListOptions{})
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if IsNotFound(err) {
		t.Error("401 should not be reported as not found")
	}
}

func TestTrailingSlashBaseURL(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, func(r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q, want /health", r.URL.Path)
		}
	}, http.StatusOK, map[string]string{"status": "ok"}))
	defer srv.Close()

	if err := New(srv.URL+"/", "").Health(); err != nil {
		t.Fatalf("health: %v", err)
	}
}
