package web

import (
	"net/http"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	qrDefaultSize = 256
	qrMaxSize     = 1024
)

// handleQR serves GET /api/staff/qr.png?size= as a PNG encoding the
// registration URL.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	if s.registrationURL == "" {
		apiError(w, "registration URL is not configured", http.StatusNotFound)
		return
	}

	size := qrDefaultSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 64 || n > qrMaxSize {
			apiError(w, "size must be between 64 and 1024", http.StatusBadRequest)
			return
		}
		size = n
	}

	png, err := qrcode.Encode(s.registrationURL, qrcode.Medium, size)
	if err != nil {
		s.log.Error("encoding registration QR", "error", err)
		apiError(w, "failed to encode QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	if _, err := w.Write(png); err != nil {
		s.log.Warn("writing QR response", "error", err)
	}
}
