package basicauth

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// Middleware requires HTTP basic auth with username and a password matching
// the bcrypt hash. Paths in open are served without credentials.
func Middleware(username, passwordHash string, open ...string) func(http.Handler) http.Handler {
	hash := []byte(passwordHash)
	skip := make(map[string]struct{}, len(open))
	for _, p := range open {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			u, p, ok := r.BasicAuth()
			userOK := subtle.ConstantTimeCompare([]byte(u), []byte(username)) == 1
			if !ok || !userOK || bcrypt.CompareHashAndPassword(hash, []byte(p)) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="eventcal", charset="UTF-8"`)
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
