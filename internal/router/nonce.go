package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CspNonceContextKey = "csp_nonce"

// NonceMiddleware puts a per-session nonce into the context so the CSP
// header and the inline chart scripts on the results page agree on it.
func NonceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		nonce, ok := session.Get(CspNonceContextKey).(string)
		if !ok || nonce == "" {
			var err error
			nonce, err = GenerateSecureToken(32)
			if err != nil {
				panic("failed to generate CSP nonce")
			}
			session.Set(CspNonceContextKey, nonce)
			if err := session.Save(); err != nil {
				panic("failed to save session")
			}
		}

		c.Set(CspNonceContextKey, nonce)
		c.Next()
	}
}
