// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthAccessDenied       = "auth.access_denied"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// User Management
	KeyUserNotFound = "user.not_found"
	KeyUserExists   = "user.exists"
	KeyUserUpdated  = "user.updated"
	KeyUserDeleted  = "user.deleted"
	KeyUserRole     = "user.invalid_role"

	// EPS
	KeyEPSCreated  = "eps.created"
	KeyEPSUpdated  = "eps.updated"
	KeyEPSDeleted  = "eps.deleted"
	KeyEPSNotFound = "eps.not_found"
	KeyEPSAssigned = "eps.assigned"

	// Products
	KeyProductCreated     = "product.created"
	KeyProductUpdated     = "product.updated"
	KeyProductDeleted     = "product.deleted"
	KeyProductNotFound    = "product.not_found"
	KeyProductSimilar     = "product.similar_exists"
	KeyProductOutOfStock  = "product.out_of_stock"
	KeyProductStockPurged = "product.stock_purged"

	// Orders
	KeyOrderCreated           = "order.created"
	KeyOrderNotFound          = "order.not_found"
	KeyOrderEmpty             = "order.empty"
	KeyOrderInsufficientStock = "order.insufficient_stock"
	KeyOrderConfirmed         = "order.confirmed"
	KeyOrderDelivered         = "order.delivered"
	KeyOrderCancelled         = "order.cancelled"
	KeyOrderNotPending        = "order.not_pending"
	KeyOrderNotConfirmed      = "order.not_confirmed"
	KeyOrderForbidden         = "order.forbidden"

	// Payments
	KeyPaymentSuccess     = "payment.success"
	KeyPaymentAlreadyPaid = "payment.already_paid"
	KeyPaymentFailed      = "payment.failed"

	// Uploads
	KeyUploadURLFailed = "upload.url_failed"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// External collaborators
	KeyUpstreamFailure = "upstream.failure"
)
