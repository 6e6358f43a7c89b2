package echo

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"portal-gateway/internal/access"
	"portal-gateway/internal/auth"
	"portal-gateway/internal/obs"
	"portal-gateway/pkg/logger"
)

const (
	signInPath    = "/sign-in"
	signUpPath    = "/sign-up"
	adminPath     = "/admin"
	returnToParam = "return_to"

	redirectReasonUnauthenticated  = "unauthenticated"
	redirectReasonPortalMismatch   = "portal_mismatch"
	redirectReasonInsufficientRole = "insufficient_role"
)

// PortalGate is the per-portal redirect middleware. One instance guards each
// portal's route group, configured only with which portal it is.
type PortalGate struct {
	portal   access.Portal
	base     string
	registry *access.Registry
	authn    *auth.JWTService
	origins  map[access.Portal]string
	log      *logrus.Logger
}

func NewPortalGate(
	portal access.Portal,
	base string,
	registry *access.Registry,
	authn *auth.JWTService,
	origins map[access.Portal]string,
	log *logrus.Logger,
) *PortalGate {
	return &PortalGate{
		portal:   portal,
		base:     base,
		registry: registry,
		authn:    authn,
		origins:  origins,
		log:      log,
	}
}

// Middleware runs the access decision for every request on the portal group.
// Terminal states: allow, redirect to sign-in, redirect to another portal,
// redirect to the portal's default landing route.
func (g *PortalGate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			if g.isPublic(path) {
				return next(c)
			}

			token := auth.SessionToken(c.Request())
			if token == "" {
				return g.redirectToSignIn(c)
			}

			claims, err := g.authn.Verify(token)
			if err != nil {
				// provider/verification errors are not retried; treat as
				// unauthenticated
				g.log.WithField("portal", g.portal).Debug(logger.SanitizeLogMessage(err.Error()))
				return g.redirectToSignIn(c)
			}

			setSession(c, claims)
			roles := claims.Roles()

			if !g.registry.SetHasAccess(roles, g.portal) {
				target := access.ResolvePortal(roles)
				// never bounce a portal to itself: a role that resolves here
				// but is absent from the table falls through to the landing
				// page instead of looping
				if target != g.portal {
					obs.RecordRedirect(redirectReasonPortalMismatch, string(target))
					g.log.WithFields(logrus.Fields{
						"portal": g.portal,
						"target": target,
						"roles":  roles.Strings(),
					}).Info("cross-portal redirect")
					return c.Redirect(http.StatusFound, g.origins[target])
				}
			}

			if g.isElevated(path) && !access.IsElevated(roles) {
				obs.RecordRedirect(redirectReasonInsufficientRole, string(g.portal))
				return c.Redirect(http.StatusFound, g.base+"/")
			}

			return next(c)
		}
	}
}

func (g *PortalGate) isPublic(path string) bool {
	return strings.HasPrefix(path, g.base+signInPath) || strings.HasPrefix(path, g.base+signUpPath)
}

func (g *PortalGate) isElevated(path string) bool {
	return strings.HasPrefix(path, g.base+adminPath)
}

func (g *PortalGate) redirectToSignIn(c echo.Context) error {
	obs.RecordRedirect(redirectReasonUnauthenticated, string(g.portal))
	target := g.base + signInPath + "?" + returnToParam + "=" + url.QueryEscape(c.Request().RequestURI)
	return c.Redirect(http.StatusFound, target)
}
