package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeUnauthenticated  = "UNAUTHENTICATED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation carrying a stable error code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrCatalogItemNotFound   = NewDomainError(ErrCodeNotFound, "Catalog item not found")
	ErrOrderNotFound         = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrUserNotFound          = NewDomainError(ErrCodeNotFound, "User not found")
	ErrEmptyOrder            = NewDomainError(ErrCodeInvalidOperation, "Order must have at least one item")
	ErrInvalidQuantity       = NewDomainError(ErrCodeInvalidOperation, "Quantity must be greater than zero")
	ErrBlankCustomerName     = NewDomainError(ErrCodeInvalidOperation, "Customer name must not be blank")
	ErrOrderAlreadyCancelled = NewDomainError(ErrCodeInvalidOperation, "Order is already cancelled")
	ErrInvalidPrice          = NewDomainError(ErrCodeInvalidOperation, "Price must be greater than zero")
	ErrBlankItemName         = NewDomainError(ErrCodeInvalidOperation, "Item name must not be blank")
	ErrDuplicateItemName     = NewDomainError(ErrCodeConflict, "A catalog item with that name already exists")
	ErrUsernameTaken         = NewDomainError(ErrCodeConflict, "Username already taken")
	ErrInvalidCredentials    = NewDomainError(ErrCodeUnauthenticated, "Invalid username or password")
)
