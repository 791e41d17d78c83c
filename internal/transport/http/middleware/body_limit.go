package middleware

import "net/http"

// BodyLimit caps request bodies on mutating methods. Reads past the cap make
// the handler's JSON decode fail, which surfaces as a 400.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 {
				switch r.Method {
				case http.MethodPost, http.MethodPut, http.MethodPatch:
					r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
