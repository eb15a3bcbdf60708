package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"net/url"
)

type contextKey struct{}

// CookieName holds the double-submit token.
const CookieName = "eventcal_csrf"

// FormField is the hidden form input carrying the token.
const FormField = "_csrf"

// Middleware issues a token cookie and requires it to be echoed back, via
// the X-CSRF-Token header or the _csrf form field, on mutating requests.
// The cookie is marked Secure when baseURL is https.
func Middleware(baseURL string) func(http.Handler) http.Handler {
	secure := false
	if base, err := url.Parse(baseURL); err == nil && base.Scheme == "https" {
		secure = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(CookieName); err == nil {
				token = c.Value
			}
			if token == "" {
				var err error
				if token, err = generateToken(); err != nil {
					http.Error(w, "failed to issue csrf token", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			if isStateChanging(r.Method) && !matches(r, token) {
				http.Error(w, "invalid csrf token", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, token)))
		})
	}
}

// TokenFromContext returns the token issued for the request.
func TokenFromContext(ctx context.Context) string {
	v, _ := ctx.Value(contextKey{}).(string)
	return v
}

func matches(r *http.Request, token string) bool {
	provided := r.Header.Get("X-CSRF-Token")
	if provided == "" {
		provided = r.FormValue(FormField)
	}
	return provided != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(token)) == 1
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func isStateChanging(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
