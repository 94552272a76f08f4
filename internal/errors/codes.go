package errors

// Error code constants returned to clients.
// Format: CATEGORY_SPECIFIC_DETAIL; frontends map these to display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // session token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed or tampered token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token revoked by logout
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email
	AuthResetTokenInvalid  = "AUTH_RESET_TOKEN_INVALID" // unknown or expired reset token

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput     = "VALIDATION_INVALID_INPUT"     // malformed input
	ValidationTooShort         = "VALIDATION_TOO_SHORT"         // value below minimum length
	ValidationRequired         = "VALIDATION_REQUIRED"          // missing required field
	ValidationPasswordMismatch = "VALIDATION_PASSWORD_MISMATCH" // confirmation does not match

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
