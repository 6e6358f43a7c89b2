package echo

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"portal-gateway/internal/access"
	"portal-gateway/internal/obs"
	"portal-gateway/internal/pdfcache"
	"portal-gateway/internal/proxy"
	apperrors "portal-gateway/pkg/errors"
)

const (
	pdfAttachmentName = `attachment; filename="document.pdf"`
	presignExpiry     = 15 * time.Minute
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.healthHandler)
	s.echo.GET("/metrics", echo.WrapHandler(obs.Handler()))

	api := s.echo.Group("/api")
	api.POST("/pdf", s.storePDFHandler)
	api.GET("/pdf/download", s.downloadPDFHandler)
	api.GET("/proxy/image", s.imageProxyHandler)
	api.GET("/proxy/document", s.documentProxyHandler)

	s.registerPortal(access.PortalMainApp, "/main")
	s.registerPortal(access.PortalBroker, "/broker")
	s.registerPortal(access.PortalHR, "/hr")
}

// registerPortal mounts one portal's route group behind its own gate. The
// real portal UIs live in separate deployments; the gateway owns the access
// decision and serves their session context.
func (s *Server) registerPortal(portal access.Portal, base string) {
	gate := NewPortalGate(portal, base, s.registry, s.authn, s.origins, s.log)
	g := s.echo.Group(base, gate.Middleware())

	g.GET(signInPath, s.signInPageHandler)
	g.GET(signUpPath, s.signUpPageHandler)
	g.GET("/", s.portalHomeHandler(portal))
	g.GET(adminPath, s.portalAdminHandler(portal))
	g.GET(adminPath+"/*", s.portalAdminHandler(portal))
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, getSuccessResponse("ok"))
}

func (s *Server) signInPageHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, getSuccessResponseWithData(map[string]string{
		"page":      "sign-in",
		"return_to": c.QueryParam(returnToParam),
	}))
}

func (s *Server) signUpPageHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, getSuccessResponseWithData(map[string]string{
		"page": "sign-up",
	}))
}

func (s *Server) portalHomeHandler(portal access.Portal) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, getSuccessResponseWithData(map[string]any{
			"portal": portal,
			"email":  CurrentEmail(c),
			"roles":  CurrentRoles(c).Strings(),
		}))
	}
}

func (s *Server) portalAdminHandler(portal access.Portal) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, getSuccessResponseWithData(map[string]any{
			"portal":  portal,
			"section": "admin",
			"email":   CurrentEmail(c),
		}))
	}
}

type storePDFRequest struct {
	Payload string `json:"payload"`
}

func (s *Server) storePDFHandler(c echo.Context) error {
	var req storePDFRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(http.StatusBadRequest, errors.New("invalid request body")))
	}

	payload, err := normalizePDFPayload(req.Payload)
	if err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(http.StatusBadRequest, err))
	}

	ctx := c.Request().Context()
	obs.RecordCacheEvictions(s.pdfs.Sweep(ctx))

	id, err := s.pdfs.Store(ctx, payload)
	if err != nil {
		s.log.WithError(err).Error("pdf handoff store failed")
		return c.JSON(http.StatusInternalServerError, getFailureResponse(http.StatusInternalServerError, errors.New("failed to store pdf")))
	}

	return c.JSON(http.StatusOK, getSuccessResponseWithData(map[string]string{"id": id}))
}

func (s *Server) downloadPDFHandler(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, getFailureResponse(http.StatusBadRequest, errors.New("id is required")))
	}

	payload, err := s.pdfs.Retrieve(c.Request().Context(), id)
	if errors.Is(err, pdfcache.ErrNotFound) {
		obs.RecordCacheMiss()
		return c.JSON(http.StatusNotFound, getFailureResponse(http.StatusNotFound, err))
	}
	if err != nil {
		s.log.WithError(err).Error("pdf handoff retrieve failed")
		return c.JSON(http.StatusInternalServerError, getFailureResponse(http.StatusInternalServerError, errors.New("failed to retrieve pdf")))
	}
	obs.RecordCacheHit()

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		s.log.WithError(err).Error("stored pdf payload is not valid base64")
		return c.JSON(http.StatusInternalServerError, getFailureResponse(http.StatusInternalServerError, errors.New("corrupt pdf payload")))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, pdfAttachmentName)
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func (s *Server) imageProxyHandler(c echo.Context) error {
	u, err := proxy.ValidateURL(c.QueryParam("url"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(http.StatusBadRequest, err))
	}

	res, err := s.fetcher.Fetch(c.Request().Context(), u)
	if err != nil {
		return s.proxyFailure(c, "image", err)
	}
	defer res.Body.Close()

	if !proxy.AllowedImageType(res.ContentType) {
		return c.JSON(http.StatusBadRequest, getFailureResponse(http.StatusBadRequest, errors.New("upstream content is not an image")))
	}

	return c.Stream(http.StatusOK, res.ContentType, res.Body)
}

func (s *Server) documentProxyHandler(c echo.Context) error {
	target, err := s.resolveDocumentURL(c.QueryParam("url"))
	if errors.Is(err, apperrors.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, getFailureResponse(http.StatusBadRequest, err))
	}
	if err != nil {
		s.log.WithError(err).Error("document URL resolution failed")
		return c.JSON(http.StatusInternalServerError, getFailureResponse(http.StatusInternalServerError, errors.New("failed to resolve document")))
	}

	res, err := s.fetcher.Fetch(c.Request().Context(), target)
	if err != nil {
		return s.proxyFailure(c, "document", err)
	}
	defer res.Body.Close()

	if !proxy.AllowedDocumentType(res.ContentType) {
		return c.JSON(http.StatusBadRequest, getFailureResponse(http.StatusBadRequest, errors.New("upstream content is not a PDF")))
	}

	return c.Stream(http.StatusOK, res.ContentType, res.Body)
}

// resolveDocumentURL restricts document fetches to the storage provider. A
// full URL must live on the configured document host; anything else is
// treated as a bare object key and resolved through a presigned GET.
func (s *Server) resolveDocumentURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.InvalidInput("url is required")
	}

	if u, err := proxy.ValidateURL(raw); err == nil {
		if s.documentHost == "" || !strings.EqualFold(u.Host, s.documentHost) {
			return nil, apperrors.InvalidInput("document host is not allowed")
		}
		return u, nil
	}

	if s.storage == nil {
		return nil, apperrors.InvalidInput("document storage is not configured")
	}

	signed, err := s.storage.PresignGet(raw, presignExpiry)
	if err != nil {
		return nil, apperrors.InternalServer("failed to presign document", err)
	}

	return url.Parse(signed)
}

func (s *Server) proxyFailure(c echo.Context, kind string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return c.JSON(http.StatusNotFound, getFailureResponse(http.StatusNotFound, err))
	}

	obs.RecordUpstreamFailure(kind)
	s.log.WithFields(logrus.Fields{"kind": kind}).WithError(err).Error("proxy upstream failure")
	return c.JSON(http.StatusBadGateway, getFailureResponse(http.StatusBadGateway, errors.New("failed to fetch upstream resource")))
}

// normalizePDFPayload strips an optional data-URI wrapper and verifies the
// remainder is base64, so the store only ever holds raw base64.
func normalizePDFPayload(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("payload is required")
	}

	if strings.HasPrefix(raw, "data:") {
		idx := strings.Index(raw, ",")
		if idx < 0 {
			return "", errors.New("malformed data URI")
		}
		raw = raw[idx+1:]
	}

	if _, err := base64.StdEncoding.DecodeString(raw); err != nil {
		return "", errors.New("payload is not valid base64")
	}

	return raw, nil
}
