package middleware

import (
	"log/slog"
	"net"
	"net/http"
)

// LoopbackOnly rejects requests whose peer is not a loopback address. The API
// has no accounts, so it only answers the local machine unless allowRemote is
// set.
func LoopbackOnly(log *slog.Logger, allowRemote bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if allowRemote {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isLoopback(r.RemoteAddr) {
				log.Warn("rejected remote request",
					slog.String("remote", r.RemoteAddr),
					slog.String("path", r.URL.Path))
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
