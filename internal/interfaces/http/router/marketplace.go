package router

import (
	"net/http"
	"path/filepath"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/config"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/logger"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/metrics"
	"github.com/Geogebrd/scaond-hand-platform/internal/interfaces/http/handler"
	"github.com/Geogebrd/scaond-hand-platform/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups the handlers mounted under /api/v1
type Handlers struct {
	Auth      *handler.AuthHandler
	Products  *handler.ProductHandler
	Cart      *handler.CartHandler
	Orders    *handler.OrderHandler
	Dashboard *handler.DashboardHandler
	Messages  *handler.MessageHandler
	Settings  *handler.SettingsHandler
	System    *handler.SystemHandler
}

// Options configures the engine built by NewEngine
type Options struct {
	Logger   *zap.Logger
	HTTP     config.HTTPConfig
	Session  config.SessionConfig
	Sessions identity.SessionStore

	// Metrics is nil when metrics are disabled
	Metrics     *metrics.Registry
	MetricsPath string

	Tracing   middleware.TracingConfig
	Profiling middleware.ProfilingConfig

	// UploadDir is served read-only under /<last element of UploadDir>,
	// matching the paths the image store hands out
	UploadDir string
}

// Engine is the configured gin engine plus the background resources it owns
type Engine struct {
	*gin.Engine
	limiters []*middleware.RateLimiter
}

// Close stops the rate limiter cleanup goroutines
func (e *Engine) Close() {
	for _, l := range e.limiters {
		l.Stop()
	}
}

// NewEngine builds the HTTP surface of the marketplace. Every route answers
// GET and POST on a single path and dispatches on ?action=.
func NewEngine(opts Options, h Handlers) (*Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			return nil, err
		}
	} else if err := engine.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	e := &Engine{Engine: engine}

	// Recovery wraps everything so panics in other middleware are caught too
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORSWithConfig(corsConfig(opts.HTTP)))
	engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	if opts.Metrics != nil {
		engine.Use(opts.Metrics.GinMiddleware())
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(opts.Metrics.Handler()))
	}
	if opts.UploadDir != "" {
		prefix := "/" + filepath.Base(filepath.Clean(opts.UploadDir))
		engine.StaticFS(prefix, gin.Dir(opts.UploadDir, false))
	}

	apiMiddleware := middleware.Tracing(opts.Tracing)
	apiMiddleware = append(apiMiddleware, middleware.ProfilingWithConfig(opts.Profiling))
	if opts.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(opts.HTTP.RateLimitRequests, opts.HTTP.RateLimitWindow)
		e.limiters = append(e.limiters, limiter)
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(limiter))
	}

	var authMiddleware []gin.HandlerFunc
	if opts.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(opts.HTTP.AuthRateLimitRequests, opts.HTTP.AuthRateLimitWindow)
		e.limiters = append(e.limiters, limiter)
		authMiddleware = append(authMiddleware, middleware.RateLimit(limiter))
	}

	requireSession := middleware.SessionAuth(opts.Sessions, opts.Session.CookieName)
	NewAPI(engine, "v1", requireSession, apiMiddleware...).Mount(
		Resource{Path: "/auth", Get: h.Auth.Get, Post: h.Auth.Post, PublicGet: true, PublicPost: true, Middleware: authMiddleware},
		// browsing is public, listing needs a session
		Resource{Path: "/products", Get: h.Products.Get, Post: h.Products.Create, PublicGet: true},
		Resource{Path: "/cart", Get: h.Cart.Get, Post: h.Cart.Post},
		Resource{Path: "/orders", Get: h.Orders.Get, Post: h.Orders.Post},
		Resource{Path: "/dashboard", Get: h.Dashboard.Get, Post: h.Dashboard.Post},
		Resource{Path: "/messages", Get: h.Messages.Get, Post: h.Messages.Post},
		Resource{Path: "/settings", Get: h.Settings.Get, Post: h.Settings.Post},
		Resource{Path: "/health", Get: h.System.Health, PublicGet: true},
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Not found"})
	})
	return e, nil
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.CORSAllowOrigins
	}
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
