package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
)

// Session cookie names; tokens travel either here or as a Bearer header.
const (
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"
)

// Authorization scheme prefix
const BearerPrefix = "Bearer"

// Multipart form field names
const (
	FormFieldAvatar     = "avatar"
	FormFieldCoverImage = "coverImage"
	FormFieldVideoFile  = "videoFile"
	FormFieldThumbnail  = "thumbnail"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized  = "Unauthorized access"
	MsgForbidden     = "Access forbidden"
	MsgNotFound      = "Resource not found"
	MsgBadRequest    = "Invalid request"
	MsgInternalError = "Internal server error"
	MsgConflict      = "Resource already exists"
)
