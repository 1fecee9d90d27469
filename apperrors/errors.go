package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Sentinel errors for the failure classes the storefront distinguishes.
// Core logic returns (or wraps) these; handlers translate them to HTTP.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrAmountMismatch   = errors.New("payment amount mismatch")
	ErrPaymentGateway   = errors.New("payment gateway error")
	ErrStorage          = errors.New("storage error")
	ErrNotFound         = errors.New("not found")
)

// Error pairs an HTTP status with a user-facing message while keeping the
// underlying cause for logs.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with an explicit status code.
func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Wrap attaches context to a sentinel while keeping errors.Is working.
func Wrap(sentinel error, err error) error {
	if err == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Storage marks a persistence failure.
func Storage(err error) error { return Wrap(ErrStorage, err) }

// Respond writes the JSON error response for err. Unrecognized errors are
// reported generically so internals never leak to clients.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	switch {
	case errors.Is(err, ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
	case errors.Is(err, ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.Is(err, ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checksum"})
	case errors.Is(err, ErrAmountMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": "payment amount does not match the order"})
	case errors.Is(err, ErrPaymentGateway):
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway unavailable, please retry"})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again"})
	}
}
