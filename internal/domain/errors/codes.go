package errors

// Stable machine-readable codes returned in error bodies.
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodeInternal             = "INTERNAL_ERROR"
	CodeInvalidPhone         = "INVALID_PHONE"
	CodeInvalidPassword      = "INVALID_PASSWORD"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeInvalidCode          = "CODE_INVALID"
	CodeRateLimited          = "CODE_RATE_LIMITED"
	CodeAlreadyRegistered    = "ALREADY_REGISTERED"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeAccountDisabled      = "ACCOUNT_DISABLED"
	CodeUpstreamUnavailable  = "SMS_UPSTREAM_UNAVAILABLE"
	CodeInvalidAddress       = "INVALID_ADDRESS"
	CodeTooManyAddresses     = "TOO_MANY_ADDRESSES"
	CodeNoDefaultAddress     = "NO_DEFAULT_ADDRESS"
	CodeInvalidState         = "ORDER_INVALID_STATE"
	CodeInvalidAmount        = "INVALID_AMOUNT"
	CodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
	CodeForeignAddress       = "FOREIGN_ADDRESS"
	CodeProviderMismatch     = "PROVIDER_MISMATCH"
	CodeRequestLimited       = "REQUEST_RATE_LIMITED"
	CodeIdempotencyConflict  = "ERR_IDEMPOTENCY_CONFLICT"
)
