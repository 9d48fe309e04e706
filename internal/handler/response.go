package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"edupay/internal/gateway"
	"edupay/internal/repository"
	"edupay/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse wraps successful payloads.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// respondError sends an error response with the appropriate HTTP status
// code. Internal errors never leak their text to the client.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)

	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "internal error"
	}

	c.JSON(code, ErrorResponse{Error: message})
}

// respondData sends a success-wrapped JSON response.
func respondData(c *gin.Context, code int, data any) {
	c.JSON(code, SuccessResponse{Success: true, Data: data})
}

// respondGatewayError maps gateway passthrough failures without exposing
// upstream error text.
func respondGatewayError(c *gin.Context, err error) {
	if errors.Is(err, gateway.ErrDisabled) {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: service.ErrPaymentsDisabled.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, ErrorResponse{Error: "gateway lookup failed"})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidItemRef),
		errors.Is(err, service.ErrItemNotPublished),
		errors.Is(err, service.ErrInvalidSignature),
		errors.Is(err, service.ErrMissingVerificationData),
		errors.Is(err, service.ErrAmountMismatch),
		errors.Is(err, service.ErrCurrencyMismatch):
		return http.StatusBadRequest

	// Payments not configured
	case errors.Is(err, service.ErrPaymentsDisabled):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
