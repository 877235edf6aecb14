package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-portal/internal/domain"
	"github.com/feral-file/ff-portal/internal/logger"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	errCodeBadRequest       ErrorCode = "bad_request"
	errCodeNotFound         ErrorCode = "not_found"
	errCodeValidationFailed ErrorCode = "validation_failed"
	errCodeUnauthorized     ErrorCode = "unauthorized"
	errCodeConflict         ErrorCode = "conflict"

	// Server errors (5xx)
	errCodeInternalError ErrorCode = "internal_error"
	errCodeUpstreamError ErrorCode = "upstream_error"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error information
type errorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}
	if len(details) > 0 {
		response.Error.Details = details[0]
	}
	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, errCodeBadRequest, message, details...)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, errCodeNotFound, message, details...)
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(err, fields...)
	respondWithError(c, http.StatusInternalServerError, errCodeInternalError, message)
}

// respondDomainError maps the protocol error taxonomy to HTTP statuses
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		respondWithError(c, http.StatusUnauthorized, errCodeUnauthorized, "Operation not authorized", err.Error())
	case errors.Is(err, domain.ErrOriginNotFound):
		respondNotFound(c, "Asset not found", err.Error())
	case errors.Is(err, domain.ErrReplayDetected), errors.Is(err, domain.ErrOriginExists):
		respondWithError(c, http.StatusConflict, errCodeConflict, "Operation conflicts with committed state", err.Error())
	case errors.Is(err, domain.ErrInvalidMessage), errors.Is(err, domain.ErrInvalidAddress):
		respondWithError(c, http.StatusBadRequest, errCodeBadRequest, "Invalid request", err.Error())
	case errors.Is(err, domain.ErrInsufficientOutAmount):
		respondWithError(c, http.StatusUnprocessableEntity, errCodeValidationFailed, "Deposit cannot cover the required fee", err.Error())
	case errors.Is(err, domain.ErrTransferFailed), errors.Is(err, domain.ErrApprovalFailed):
		respondWithError(c, http.StatusBadGateway, errCodeUpstreamError, "Asset movement rejected", err.Error())
	default:
		respondInternalError(c, err, "Internal server error")
	}
}
