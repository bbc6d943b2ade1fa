package apperrors

import (
	"net/http"
)

// =========================================================================
// Factories
// =========================================================================

// NotificationDeliveryFailed wraps a mail transport failure.
func NotificationDeliveryFailed(err error) *AppError {
	return Wrap(err, CodeNotificationDeliveryFailed, "mail", "Failed to deliver email, please retry", http.StatusBadGateway)
}

// ProviderVerificationFailed wraps an identity provider failure.
func ProviderVerificationFailed(err error) *AppError {
	return Wrap(err, CodeProviderVerificationFailed, "auth", "Identity provider verification failed", http.StatusUnauthorized)
}

// FieldError is a ValidationError for a single field.
func FieldError(field, message string) *AppError {
	return ValidationError(map[string]string{field: message})
}

// =========================================================================
// Predefined errors
// =========================================================================

// --- Auth & sessions ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrSessionInvalid = New(
	CodeSessionInvalid,
	"auth",
	"Session is invalid or expired",
	http.StatusUnauthorized,
)

var ErrUnsupportedProvider = New(
	CodeUnsupportedProvider,
	"auth",
	"Unsupported identity provider",
	http.StatusBadRequest,
)

// --- Single-use tokens ---

var ErrTokenNotFound = New(
	CodeTokenNotFound,
	"token",
	"Token not found",
	http.StatusNotFound,
)

var ErrTokenExpired = New(
	CodeTokenExpired,
	"token",
	"Token has expired or was already used",
	http.StatusGone,
)

// --- Users ---

var ErrUserNotFound = New(CodeNotFound, "user", "User not found", http.StatusNotFound)

var ErrEmailTaken = New(CodeConflict, "user", "Email is already registered", http.StatusConflict)

var ErrUsernameTaken = New(CodeConflict, "user", "Username is already taken", http.StatusConflict)

// --- Blogs ---

var ErrBlogNotFound = New(CodeNotFound, "blog", "Blog not found", http.StatusNotFound)

var ErrDraftNotFound = New(CodeNotFound, "blog", "Draft not found", http.StatusNotFound)

var ErrNotBlogAuthor = New(CodeForbidden, "blog", "Only the author can modify this blog", http.StatusForbidden)

var ErrCommentNotFound = New(CodeNotFound, "comment", "Comment not found", http.StatusNotFound)

var ErrCategoryNotFound = New(CodeNotFound, "category", "Category not found", http.StatusNotFound)

var ErrCategoryExists = New(CodeConflict, "category", "Category already exists", http.StatusConflict)

// --- Social ---

var ErrCannotFollowSelf = New(CodeValidationFailed, "follow", "You cannot follow yourself", http.StatusBadRequest)

var ErrAlreadyFollowing = New(CodeConflict, "follow", "Already following this user", http.StatusConflict)

var ErrNotFollowing = New(CodeNotFound, "follow", "You are not following this user", http.StatusNotFound)

var ErrAlreadySaved = New(CodeConflict, "saved", "Blog is already saved", http.StatusConflict)

var ErrSavedNotFound = New(CodeNotFound, "saved", "Blog is not in your saved list", http.StatusNotFound)

var ErrNotificationNotFound = New(CodeNotFound, "notification", "Notification not found", http.StatusNotFound)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Rate limiting ---

var ErrTooManyRequests = New(CodeLimitExceeded, "request", "Too many requests, slow down", http.StatusTooManyRequests)
