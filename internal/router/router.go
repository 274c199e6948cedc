package router

import (
	"fmt"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"ovab-go/internal/config"
	"ovab-go/internal/handlers"
	"ovab-go/internal/models"
	sess "ovab-go/internal/session"
	"ovab-go/web"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}
func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

func Setup(log *zap.Logger, battery *models.Battery, manager *sess.Manager) (*gin.Engine, error) {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	// Client IPs feed the rate limiter, so forwarding headers are only
	// believed when a proxy is explicitly configured.
	if err := router.SetTrustedProxies(config.Conf.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	secret := config.Conf.Server.SessionSecret
	if secret == "" {
		var err error
		secret, err = GenerateSecureToken(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		log.Warn("server.session_secret not configured; cookies will not survive a restart")
	}

	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("ovab_session", store))

	// --- Now that cookies are initialized, other middleware can use them ---
	router.Use(NonceMiddleware())
	router.Use(CSRFProtection())
	router.Use(SessionLoader(log, manager))

	// The rest of the middleware
	router.Use(func(c *gin.Context) {
		nonce, _ := c.Get(CspNonceContextKey)
		csp := fmt.Sprintf(
			"script-src 'self' https://cdn.jsdelivr.net 'nonce-%s'; style-src 'self'",
			nonce,
		)
		c.Header("Content-Security-Policy", csp)
		c.Next()
	})

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	staticFS, err := web.Static()
	if err != nil {
		return nil, fmt.Errorf("failed to load static assets: %w", err)
	}
	router.StaticFS("/static", http.FS(staticFS))

	// Handlers and routes
	hz := config.Conf.Engine.FrameHz
	if hz <= 0 {
		hz = 30
	}
	frameEvery := time.Second / time.Duration(hz)

	batteryHandler := handlers.NewBatteryHandler(log, battery, manager, frameEvery)
	wsHandler := handlers.NewWSHandler(log)
	resultsHandler := handlers.NewResultsHandler(log)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: uint(config.Conf.Server.SessionsPerMinute),
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/", limiter, batteryHandler.Show)
	router.GET("/ws", wsHandler.Serve)

	viewing := router.Group("/")
	viewing.Use(SessionRequired())
	{
		viewing.GET("/results", resultsHandler.Show)
		viewing.POST("/restart", batteryHandler.Restart)
	}

	return router, nil
}
