package web

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/finmate/internal/logging"
)

const (
	csrfCookieName = "finmate_csrf"
	csrfFieldName  = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
)

type csrfKey struct{}

// newCSRFMiddleware issues a double-submit token on safe requests and
// rejects state-changing ones that are cross-site or do not echo the
// cookie's token in the csrf_token form field or the X-CSRF-Token header.
func newCSRFMiddleware(log logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if c, err := r.Cookie(csrfCookieName); err == nil {
				token = c.Value
			}

			if isSafeMethod(r.Method) {
				if token == "" {
					var err error
					if token, err = generateCSRFToken(); err != nil {
						log.Error(r.Context(), "generate csrf token", "err", err)
						http.Error(w, "internal server error", http.StatusInternalServerError)
						return
					}
					http.SetCookie(w, &http.Cookie{
						Name:     csrfCookieName,
						Value:    token,
						Path:     "/",
						HttpOnly: true,
						SameSite: http.SameSiteStrictMode,
					})
				}
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfKey{}, token)))
				return
			}

			if reason := csrfRejection(r, token); reason != "" {
				log.Warn(r.Context(), "csrf validation failed",
					"reason", reason,
					"method", r.Method,
					"path", r.URL.Path,
				)
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfKey{}, token)))
		})
	}
}

func csrfRejection(r *http.Request, token string) string {
	if r.Header.Get("Sec-Fetch-Site") == "cross-site" {
		return "cross-site request"
	}
	if origin := r.Header.Get("Origin"); origin != "" {
		u, err := url.Parse(origin)
		if err != nil || u.Host != r.Host {
			return "foreign origin"
		}
	}
	if token == "" {
		return "missing cookie token"
	}
	sent := r.Header.Get(csrfHeaderName)
	if sent == "" {
		sent = r.PostFormValue(csrfFieldName)
	}
	if subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
		return "token mismatch"
	}
	return ""
}

func csrfToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfKey{}).(string)
	return token
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

func generateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
