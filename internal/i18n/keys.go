// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyNotFound  = "common.not_found"
	KeyForbidden = "common.forbidden"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Producers
	KeyProducerNotFound      = "producer.not_found"
	KeyProducerSaved         = "producer.saved"
	KeyProducerApproved      = "producer.approved"
	KeyProducerRejected      = "producer.rejected"
	KeyProducerFollowed      = "producer.followed"
	KeyProducerUnfollowed    = "producer.unfollowed"
	KeyProducerProfileNeeded = "producer.profile_needed"

	// Products
	KeyProductCreated    = "product.created"
	KeyProductUpdated    = "product.updated"
	KeyProductDeleted    = "product.deleted"
	KeyProductNotFound   = "product.not_found"
	KeyProductOutOfStock = "product.out_of_stock"

	// Orders
	KeyOrderCreated           = "order.created"
	KeyOrderNotFound          = "order.not_found"
	KeyOrderCancelled         = "order.cancelled"
	KeyOrderStatusUpdated     = "order.status_updated"
	KeyOrderInvalidTransition = "order.invalid_transition"

	// Payments
	KeyPaymentRequired    = "payment.required"
	KeyPaymentCancelled   = "payment.cancelled"
	KeyPaymentFailed      = "payment.failed"
	KeyPaymentGatewayDown = "payment.gateway_unavailable"

	// Live streams
	KeyLiveStreamCreated  = "livestream.created"
	KeyLiveStreamNotFound = "livestream.not_found"
	KeyLiveStreamEnded    = "livestream.ended"

	// Admin
	KeyAdminAccessDenied  = "admin.access_denied"
	KeyAdminActionSuccess = "admin.action_success"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
