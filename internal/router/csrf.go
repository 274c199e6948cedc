package router

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Keys for the token in the cookie session, the context, and the request.
const (
	csrfTokenSessionKey = "csrf_token"
	csrfTokenFormKey    = "_csrf"
	csrfTokenContextKey = "csrf_token"
	csrfTokenHeaderKey  = "X-CSRF-Token"
)

// GenerateSecureToken returns length random bytes, URL-safe base64 encoded.
func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// CSRFProtection issues each cookie session a CSRF token and validates it on
// every mutating request. The restart form posts the token in its _csrf
// field; fetch callers may send the X-CSRF-Token header instead.
func CSRFProtection() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token, err := ensureCSRFToken(session)
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		// Make the token available to the templates.
		c.Set(csrfTokenContextKey, token)

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !csrfTokenMatches(c, token) {
				c.AbortWithError(http.StatusForbidden, errors.New("invalid CSRF token"))
				return
			}
		}

		c.Next()
	}
}

// ensureCSRFToken returns the session's token, minting and persisting one on
// first contact.
func ensureCSRFToken(session sessions.Session) (string, error) {
	if existing, ok := session.Get(csrfTokenSessionKey).(string); ok && existing != "" {
		return existing, nil
	}

	token, err := GenerateSecureToken(32)
	if err != nil {
		return "", errors.New("failed to generate CSRF token")
	}
	session.Set(csrfTokenSessionKey, token)
	if err := session.Save(); err != nil {
		return "", errors.New("failed to save session")
	}
	return token, nil
}

func csrfTokenMatches(c *gin.Context, want string) bool {
	got := c.PostForm(csrfTokenFormKey)
	if got == "" {
		got = c.GetHeader(csrfTokenHeaderKey)
	}
	return got != "" && got == want
}
