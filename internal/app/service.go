package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"portal-gateway/internal/config"
	"portal-gateway/internal/pdfcache"
	"portal-gateway/internal/transport/echo"
)

// Service represents the portal gateway application
type Service struct {
	config *config.Config
	pdfs   pdfcache.Store
	server *echo.Server
	log    *logrus.Logger
}

// NewService creates and initializes a new Service instance
// This is a convenience wrapper around InitializeService
func NewService() (*Service, error) {
	return InitializeService()
}

// Start starts the HTTP server. There is no background sweep: the handoff
// cache is swept opportunistically on each store call.
func (s *Service) Start() error {
	s.log.WithField("port", s.config.Server.Port).Info("starting portal gateway")
	return s.server.Start()
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
