package constants

// Session
const (
	SessionCookieName = "dvi_session"

	ContextKeyIdentity = "identity"

	SessionKeyUsername = "username"
	SessionKeyRole     = "role"
	SessionKeyOrg      = "org"
)

// Account limits
const (
	MinUsernameLength = 3
	MaxUsernameLength = 100
	MinPasswordLength = 8
)

// Ingestion and reporting limits
const (
	PreviewRowLimit   = 50
	PDFDetailRowLimit = 200
	ChartAdvisorLimit = 30

	DefaultOrg = "DefaultOrg"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)
