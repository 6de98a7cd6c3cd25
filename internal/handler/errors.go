package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("Invalid request", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": "Invalid request format: " + err.Error(),
	})
}

// writeError maps domain errors to HTTP responses; anything unrecognised is
// logged and reported as "Failed to <action>".
func writeError(c *gin.Context, logger *zap.Logger, action string, err error) {
	var ve *domain.ValidationError
	var oos *domain.OutOfStockError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"field":   ve.Field,
			"message": ve.Error(),
		})
	case errors.As(err, &oos):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "out_of_stock",
			"message":   oos.Error(),
			"available": oos.Available,
			"requested": oos.Requested,
		})
	case errors.Is(err, domain.ErrIncompleteSelection):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "incomplete_selection",
			"message": "Please select both a color and a size",
		})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Resource not found",
		})
	case errors.Is(err, domain.ErrDuplicateReview):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "duplicate_review",
			"message": "You have already reviewed this product. Update your existing review instead.",
		})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "already_exists",
			"message": "Resource already exists",
		})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "conflict",
			"message": "The resource was modified by another request, please retry",
		})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You are not allowed to modify this resource",
		})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
		})
	default:
		logger.Error("Failed to "+action, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to " + action,
		})
	}
}
