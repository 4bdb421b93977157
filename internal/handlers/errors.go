package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/SscSPs/property_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// statusFor maps an error kind to the HTTP status the API replies with.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrOverpayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &appErr) && appErr.Code >= 400:
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body and logs at a level matching the status.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status := statusFor(err)
	body := dto.ErrorResponse{Error: apperrors.Kind(err), Message: err.Error()}
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		body.Message = "Failed to " + action
	} else {
		logger.Warn("Rejected request to "+action, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: "Invalid request format: " + err.Error()})
}

func unauthorized(c *gin.Context, logger *slog.Logger) {
	logger.Error("User ID not found in context")
	c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized", Message: "Unauthorized"})
}
