package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoopbackOnly(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name        string
		remote      string
		allowRemote bool
		want        int
	}{
		{name: "ipv4 loopback", remote: "127.0.0.1:51000", want: http.StatusTeapot},
		{name: "ipv6 loopback", remote: "[::1]:51000", want: http.StatusTeapot},
		{name: "remote", remote: "192.168.1.20:51000", want: http.StatusForbidden},
		{name: "garbage", remote: "somewhere", want: http.StatusForbidden},
		{name: "remote allowed", remote: "192.168.1.20:51000", allowRemote: true, want: http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := LoopbackOnly(log, tt.allowRemote)(ok)

			req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
			req.RemoteAddr = tt.remote
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
