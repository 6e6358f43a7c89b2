package echo

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"portal-gateway/internal/access"
	"portal-gateway/internal/auth"
	"portal-gateway/internal/config"
	appmiddleware "portal-gateway/internal/http/middleware"
	"portal-gateway/internal/obs"
	"portal-gateway/internal/pdfcache"
	"portal-gateway/internal/proxy"
	"portal-gateway/internal/storage/s3"
)

// Server wraps the Echo server with dependencies
type Server struct {
	echo         *echo.Echo
	config       *config.Config
	registry     *access.Registry
	authn        *auth.JWTService
	pdfs         pdfcache.Store
	fetcher      *proxy.Fetcher
	storage      *s3.Client
	origins      map[access.Portal]string
	documentHost string
	log          *logrus.Logger
}

// NewServer creates a new Echo server with middleware and routes. storage may
// be nil when S3 is not configured; the document proxy then only accepts full
// URLs on the configured document host.
func NewServer(
	cfg *config.Config,
	registry *access.Registry,
	authn *auth.JWTService,
	pdfs pdfcache.Store,
	fetcher *proxy.Fetcher,
	storage *s3.Client,
	log *logrus.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true

	rateLimiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      10,
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, nil)
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, nil)
		},
	}

	e.Use(middleware.RateLimiterWithConfig(rateLimiterConfig))
	e.Use(middleware.CORS())
	e.Use(appmiddleware.RequestID())
	e.Use(appmiddleware.SecurityHeaders())
	e.Use(obs.Instrument())

	documentHost := cfg.Proxy.DocumentHost
	if documentHost == "" && storage != nil {
		documentHost = storage.BucketHost()
	}

	server := &Server{
		echo:     e,
		config:   cfg,
		registry: registry,
		authn:    authn,
		pdfs:     pdfs,
		fetcher:  fetcher,
		storage:  storage,
		origins: map[access.Portal]string{
			access.PortalMainApp: cfg.Portals.MainAppURL,
			access.PortalBroker:  cfg.Portals.BrokerPortalURL,
			access.PortalHR:      cfg.Portals.HRPortalURL,
		},
		documentHost: documentHost,
		log:          log,
	}

	server.registerRoutes()

	return server
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	return s.echo.Start(":" + s.config.Server.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
