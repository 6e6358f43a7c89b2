package auth

const (
	// SessionCookieName is the session cookie set by the identity provider's
	// sign-in flow. Browser navigation carries it on every portal request.
	SessionCookieName = "portal_session"

	headerAuthorization = "Authorization"

	bearerScheme    = "bearer"
	authHeaderParts = 2
)

const (
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
)
