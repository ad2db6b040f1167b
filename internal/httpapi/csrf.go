package httpapi

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
)

const (
	// CSRFField is the form field carrying the request token.
	CSRFField = "form_token"
	// CSRFHeader carries the token for non-form callers such as the sweep endpoint.
	CSRFHeader = "X-CSRF-Token"
	// CSRFCookie holds the signed token issued with the create page.
	CSRFCookie = "tugboat_csrf"

	csrfTokenBytes = 32
)

// csrfGuard implements signed double-submit tokens: the cookie holds
// token.signature and the form (or header) must echo the same token.
type csrfGuard struct {
	key    []byte
	secure bool
}

func newCSRFGuard(key []byte, secure bool) *csrfGuard {
	if len(key) == 0 {
		key = make([]byte, sha256.Size)
		if _, err := rand.Read(key); err != nil {
			panic("httpapi: generate csrf key: " + err.Error())
		}
	}
	return &csrfGuard{key: key, secure: secure}
}

// issue returns the token bound to the request cookie, minting and setting a
// new cookie when none is valid. It must run before the response header is
// written.
func (g *csrfGuard) issue(w http.ResponseWriter, r *http.Request) (string, error) {
	if token, ok := g.cookieToken(r); ok {
		return token, nil
	}

	raw := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookie,
		Value:    token + "." + g.sign(token),
		Path:     "/previews",
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

// verify rejects requests whose submitted token does not match the signed
// cookie with 403.
func (g *csrfGuard) verify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected, ok := g.cookieToken(r)
		submitted := r.Header.Get(CSRFHeader)
		if submitted == "" {
			submitted = r.PostFormValue(CSRFField)
		}
		if !ok || submitted == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) != 1 {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *csrfGuard) cookieToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CSRFCookie)
	if err != nil {
		return "", false
	}
	token, sig, found := strings.Cut(cookie.Value, ".")
	if !found || token == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(g.sign(token))) {
		return "", false
	}
	return token, true
}

func (g *csrfGuard) sign(token string) string {
	mac := hmac.New(sha256.New, g.key)
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
