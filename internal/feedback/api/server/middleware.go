package server

import (
	"net/http"
	"time"

	"github.com/Leopold1975/feedback_control/pkg/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.code = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logg logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

			next.ServeHTTP(sr, r)

			logg.Infof("METHOD %s %s URI %s	STATUS %d Latency %s Client IP %s User Agent %s",
				r.Method,
				r.Proto,
				r.URL.RequestURI(),
				sr.code,
				time.Since(start).String(),
				r.RemoteAddr,
				r.UserAgent(),
			)
		})
	}
}

// corsMiddleware admits the fixed local frontend origins with credentials
// and answers preflight requests itself.
func corsMiddleware(origins []string) func(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
					w.Header().Add("Vary", "Origin")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
