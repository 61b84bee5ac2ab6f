package common

// RefreshTokenCookieName is the name of the httpOnly cookie that carries the
// refresh token between client and server.
const RefreshTokenCookieName = "refreshToken"

// Client-side storage keys. Both are cleared together on logout.
const (
	StorageKeyAccessToken = "accessToken"
	StorageKeyUser        = "user"
)
