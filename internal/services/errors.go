package services

import "errors"

// Sentinel errors forming the error taxonomy the handlers translate to
// HTTP statuses. Services wrap repository errors into these so handlers
// never inspect storage-level failures.
var (
	// Not-found class (404): entity absent or not owned by the caller.
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("user not found")

	// Validation class (400).
	ErrCartEmpty              = errors.New("cart is empty")
	ErrShippingAddressMissing = errors.New("shipping address is required")
	ErrInvalidOrderStatus     = errors.New("invalid order status")

	// Unauthorized class (401). ErrInvalidCredentials carries the same
	// generic message for unknown email and wrong password on purpose,
	// so login responses do not reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// Conflict class (409).
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
)
