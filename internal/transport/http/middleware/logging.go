package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

type accessEntry struct {
	Timestamp string `json:"ts"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Bytes     int    `json:"bytes"`
	Duration  int64  `json:"durationMs"`
	Remote    string `json:"remote"`
	RequestID string `json:"requestId"`
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

// Logger emits one JSON access line per request on the process logger.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		line, _ := json.Marshal(accessEntry{
			Timestamp: start.UTC().Format(time.RFC3339),
			Method:    r.Method,
			Path:      r.URL.Path,
			Status:    recorder.status,
			Bytes:     recorder.bytes,
			Duration:  time.Since(start).Milliseconds(),
			Remote:    r.RemoteAddr,
			RequestID: GetRequestID(r.Context()),
		})
		log.Println(string(line))
	})
}
