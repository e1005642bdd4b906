// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthInactive           = "auth.inactive"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyStaffRequired          = "auth.staff_required"

	// Catalog
	KeyExhibitNotFound    = "exhibit.not_found"
	KeyExhibitCreated     = "exhibit.created"
	KeyExhibitUpdated     = "exhibit.updated"
	KeyExhibitDeleted     = "exhibit.deleted"
	KeyExhibitDuplicate   = "exhibit.duplicate_inventory"
	KeyCategoryNotFound   = "category.not_found"
	KeyCategoryDeleted    = "category.deleted"
	KeyCategoryCycle      = "category.cycle"
	KeyPhotoNotFound      = "photo.not_found"
	KeyPhotoDeleted       = "photo.deleted"
	KeyPhotoTooLarge      = "photo.too_large"
	KeyDocumentNotFound   = "document.not_found"
	KeyDocumentDeleted    = "document.deleted"
	KeyDocumentTooLarge   = "document.too_large"
	KeyFileRequired       = "file.required"
	KeyFileTypeNotAllowed = "file.type_not_allowed"

	// Staff accounts
	KeyUserNotFound        = "user.not_found"
	KeyUserProfileUpdated  = "user.profile_updated"
	KeyUserPasswordChanged = "user.password_changed"

	// Rate limiting
	KeyRateLimitExceeded = "rate_limit.exceeded"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
