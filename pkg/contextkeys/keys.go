package contextkeys

type contextKey string

const (
	UserIDKey    contextKey = "UserID"
	UserRoleKey  contextKey = "UserRole"
	ClientIDKey  contextKey = "ClientID"
	SiteIDKey    contextKey = "SiteID"
	RequestIDKey contextKey = "RequestID"
)
