package constants

// Service identity
const (
	ServiceName    = "organization-service"
	ServiceTitle   = "Organization Management Service"
	ServiceVersion = "1.0.0"
	DocsPath       = "/docs"
)

// Context keys
const (
	ContextKeyClaims    = "claims"
	ContextKeyRequestID = "request_id"
)

// Headers
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
	BearerScheme        = "Bearer"
	TokenType           = "bearer"
)

// Organization names
const (
	MaxOrganizationNameLength = 50
)
