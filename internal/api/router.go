package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/venuehub/platform/internal/api/handler"
	"github.com/venuehub/platform/internal/api/middleware"
	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"

	_ "github.com/venuehub/platform/internal/api/docs"
)

// Options carries what every service router shares.
type Options struct {
	// Service names the binary in health output and HTTP metrics.
	Service string
	Log     zerolog.Logger
	// Resolver builds the principal on interior services. Defaults to
	// HeaderTrust.
	Resolver middleware.IdentityResolver
	// Ready lists the dependencies checked by /health/ready.
	Ready map[string]handler.Pinger
}

// newEcho builds an Echo instance with the middleware and probes common to
// every binary.
func newEcho(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Log))

	// HTTP metrics live in a per-router registry; the gatherer also exposes
	// the process-wide metrics registered through promauto.
	reg := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "venuehub",
		Subsystem:  opts.Service,
		Registerer: reg,
	}))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(opts.Service)
	healthDepsHandler := handler.NewHealthDependenciesHandler(opts.Ready)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}

// interior adds the trusted-attribute filter used by every service behind
// the gateway.
func interior(opts Options) *echo.Echo {
	e := newEcho(opts)
	resolver := opts.Resolver
	if resolver == nil {
		resolver = middleware.HeaderTrust{}
	}
	e.Use(middleware.Identity(resolver))
	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("subject_id", c.Request().Header.Get(domain.HeaderSubjectID)).
				Msg("request")
			return nil
		},
	})
}

// NewIdentityRouter wires the identity service routes.
func NewIdentityRouter(opts Options, svc ports.IdentityService) *echo.Echo {
	e := interior(opts)
	h := handler.NewIdentityHandler(svc)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/register/owner", h.RegisterOwner)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.PUT("/password", h.ChangePassword, middleware.RequireAuth())

	// --- Administration ---
	admin := e.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.POST("/identities", h.RegisterAdmin)
	admin.GET("/identities", h.List)
	admin.PUT("/identities/:id/status", h.UpdateStatus)

	// --- Internal ---
	internal := e.Group("/internal")
	internal.PUT("/identities/:id/deleted", h.MarkDeleted)
	internal.GET("/tokens/active", h.TokenActive)

	return e
}

// NewProfileRouter wires the profile service routes.
func NewProfileRouter(opts Options, svc ports.ProfileService) *echo.Echo {
	e := interior(opts)
	h := handler.NewProfileHandler(svc)

	profiles := e.Group("/profiles", middleware.RequireAuth())
	profiles.GET("", h.List)
	profiles.GET("/:id", h.Get)
	profiles.PUT("/:id", h.Update)
	profiles.DELETE("/:id", h.Delete)

	internal := e.Group("/internal")
	internal.POST("/profiles", h.CreateInternal)
	internal.GET("/profiles/:id", h.GetInternal)
	internal.GET("/profiles/:id/owner-validation", h.ValidateOwner)
	internal.PUT("/profiles/:id/status", h.SetStatusInternal)

	return e
}

// NewResourceRouter wires the resource service routes.
func NewResourceRouter(opts Options, svc ports.ResourceService) *echo.Echo {
	e := interior(opts)
	h := handler.NewResourceHandler(svc)

	// Search is open to anonymous callers, who see ACTIVE resources only.
	e.GET("/resources", h.List)

	resources := e.Group("/resources", middleware.RequireAuth())
	resources.POST("", h.Create)
	resources.GET("/deleted", h.ListDeleted)
	resources.GET("/:id", h.Get)
	resources.PUT("/:id", h.Update)
	resources.DELETE("/:id", h.Delete)
	resources.PUT("/:id/status", h.UpdateStatus, middleware.RBAC(domain.RoleAdmin))

	internal := e.Group("/internal")
	internal.GET("/resources", h.ListIDsByOwner)
	internal.GET("/resources/:id", h.GetInternal)
	internal.PUT("/resources/:id/rating", h.PushRating)

	return e
}

// NewFeedbackRouter wires the feedback service routes.
func NewFeedbackRouter(opts Options, svc ports.FeedbackService) *echo.Echo {
	e := interior(opts)
	h := handler.NewFeedbackHandler(svc)

	e.GET("/feedback/resource/:resourceId/average", h.Average)

	fb := e.Group("/feedback", middleware.RequireAuth())
	fb.POST("", h.Create)
	fb.GET("", h.List)
	fb.GET("/resource/:resourceId", h.ListByResource)
	fb.GET("/author/:subjectId", h.ListByAuthor)
	fb.GET("/:id", h.Get)
	fb.PUT("/:id/comment", h.UpdateComment)
	fb.DELETE("/:id", h.Delete, middleware.RBAC(domain.RoleAdmin))
	fb.PUT("/:id/status", h.UpdateStatus, middleware.RBAC(domain.RoleAdmin))

	return e
}

// Upstreams locates the interior services behind the gateway.
type Upstreams struct {
	Identity *url.URL
	Profile  *url.URL
	Resource *url.URL
	Feedback *url.URL
}

// GatewayOptions configures the outer edge.
type GatewayOptions struct {
	Options
	Verifier ports.TokenVerifier
	// Active enables the revocation check. Nil disables it.
	Active    ports.ActiveChecker
	Upstreams Upstreams
	// Timeout bounds each proxied call.
	Timeout time.Duration
	// ForwardAuthorization keeps the bearer token on every proxied route,
	// for interior services that verify it themselves.
	ForwardAuthorization bool
}

// NewGatewayRouter builds the edge: token validation and header stamping,
// then a reverse proxy per route prefix. /internal is never routed.
func NewGatewayRouter(opts GatewayOptions) *echo.Echo {
	e := newEcho(opts.Options)

	keep := middleware.KeepAuthorizationFor("/auth", "/admin")
	if opts.ForwardAuthorization {
		keep = func(echo.Context) bool { return true }
	}
	e.Use(middleware.EdgeAuth(middleware.EdgeConfig{
		Verifier:          opts.Verifier,
		Active:            opts.Active,
		KeepAuthorization: keep,
		Log:               opts.Log,
	}))

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ResponseHeaderTimeout: opts.Timeout,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
	}
	proxy := func(target *url.URL) echo.MiddlewareFunc {
		return echomiddleware.ProxyWithConfig(echomiddleware.ProxyConfig{
			Balancer:  echomiddleware.NewRoundRobinBalancer([]*echomiddleware.ProxyTarget{{URL: target}}),
			Transport: transport,
			ErrorHandler: func(c echo.Context, err error) error {
				opts.Log.Error().Err(err).Str("upstream", target.Host).Str("path", c.Request().URL.Path).Msg("upstream call failed")
				return echo.NewHTTPError(http.StatusBadGateway, "upstream unavailable")
			},
		})
	}

	e.Group("/auth", proxy(opts.Upstreams.Identity))
	e.Group("/admin", proxy(opts.Upstreams.Identity))
	e.Group("/profiles", proxy(opts.Upstreams.Profile))
	e.Group("/resources", proxy(opts.Upstreams.Resource))
	e.Group("/feedback", proxy(opts.Upstreams.Feedback))

	return e
}
