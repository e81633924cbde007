// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthPasswordChanged    = "auth.password_changed"
	KeyAuthPasswordResetSent  = "auth.password_reset_sent"
	KeyAuthPasswordReset      = "auth.password_reset"
	KeyAccessDenied           = "auth.access_denied"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserRoleUpdated    = "user.role_updated"
	KeyUserDeleted        = "user.deleted"

	// Catalog
	KeyProductCreated  = "product.created"
	KeyProductUpdated  = "product.updated"
	KeyProductDeleted  = "product.deleted"
	KeyProductNotFound = "product.not_found"

	KeyCategoryCreated  = "category.created"
	KeyCategoryUpdated  = "category.updated"
	KeyCategoryDeleted  = "category.deleted"
	KeyCategoryNotFound = "category.not_found"

	KeyBrandCreated  = "brand.created"
	KeyBrandUpdated  = "brand.updated"
	KeyBrandDeleted  = "brand.deleted"
	KeyBrandNotFound = "brand.not_found"

	// Orders
	KeyOrderCreated       = "order.created"
	KeyOrderStatusUpdated = "order.status_updated"
	KeyOrderDeleted       = "order.deleted"
	KeyOrderNotFound      = "order.not_found"

	// Payments
	KeyPaymentIntentCreated = "payment.intent_created"
	KeyPaymentConfirmed     = "payment.confirmed"
	KeyPaymentPending       = "payment.pending"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileRequired      = "file.required"

	// Rate limiting
	KeyRateLimited = "rate.limited"
)
