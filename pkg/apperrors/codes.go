package apperrors

// ErrorCode is the machine readable part of an AppError.
type ErrorCode string

const (
	// System
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Generic business logic
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeLimitExceeded    ErrorCode = "LIMIT_EXCEEDED"

	// Auth
	CodeUnauthorized               ErrorCode = "UNAUTHORIZED"
	CodeForbidden                  ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials         ErrorCode = "INVALID_CREDENTIALS"
	CodeSessionInvalid             ErrorCode = "SESSION_INVALID"
	CodeUnsupportedProvider        ErrorCode = "UNSUPPORTED_PROVIDER"
	CodeProviderVerificationFailed ErrorCode = "PROVIDER_VERIFICATION_FAILED"

	// Single-use tokens
	CodeTokenNotFound ErrorCode = "TOKEN_NOT_FOUND"
	CodeTokenExpired  ErrorCode = "TOKEN_EXPIRED"

	// Mail
	CodeNotificationDeliveryFailed ErrorCode = "NOTIFICATION_DELIVERY_FAILED"
)
