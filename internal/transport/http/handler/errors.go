package handler

const (
	errInternalServer   = "Internal server error"
	errEmailTaken       = "An account with this email already exists"
	errBadCredentials   = "Unable to authenticate with provided credentials"
	errUnauthorized     = "Unauthorized"
	errMethodNotAllowed = "Method not allowed"
	errInvalidBody      = "Invalid request body"
)
