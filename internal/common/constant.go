package common

const (
	// AccessTokenCookieName and RefreshTokenCookieName name the cookies the
	// HTTP layer uses to carry the issued token pair.
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"

	// AuthorizationHeaderName carries "Bearer <access token>" for clients
	// that do not keep cookies.
	AuthorizationHeaderName = "Authorization"
)
