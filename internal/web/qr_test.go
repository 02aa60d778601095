package web

import (
	"bytes"
	"image/png"
	"net/http"
	"testing"
)

func TestQR(t *testing.T) {
	env := newTestEnv(t)
	token := staffToken(t, env.srv)

	w := apiRequest(t, env.srv, "GET", "/api/staff/qr.png", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content-type = %q", ct)
	}

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if got := img.Bounds().Dx(); got != qrDefaultSize {
		t.Errorf("width = %d, want %d", got, qrDefaultSize)
	}
}

func TestQRSize(t *testing.T) {
	env := newTestEnv(t)
	token := staffToken(t, env.srv)

	tests := []struct {
		size string
		code int
	}{
		{"128", http.StatusOK},
		{"1024", http.StatusOK},
		{"10", http.StatusBadRequest},
		{"4096", http.StatusBadRequest},
		{"big", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			w := apiRequest(t, env.srv, "GET", "/api/staff/qr.png?size="+tt.size, token, nil)
			if w.Code != tt.code {
				t.Errorf("status = %d, want %d", w.Code, tt.code)
			}
		})
	}
}
