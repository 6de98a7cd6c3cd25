package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/service"
	"github.com/cloud-wave-best-zizon/storefront-service/pkg/middleware"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
	logger        *zap.Logger
}

func NewReviewHandler(reviewService *service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

func (h *ReviewHandler) ListProductReviews(c *gin.Context) {
	resp, err := h.reviewService.ListProductReviews(c.Request.Context(), c.Param("productId"))
	if err != nil {
		writeError(c, h.logger, "list reviews", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetUserReview answers 404 when the caller has not reviewed the product yet.
func (h *ReviewHandler) GetUserReview(c *gin.Context) {
	review, err := h.reviewService.GetUserReview(c.Request.Context(), middleware.UserID(c), c.Param("productId"))
	if err != nil {
		writeError(c, h.logger, "get review", err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req domain.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	review, err := h.reviewService.SubmitReview(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, h.logger, "submit review", err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	var req domain.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), c.Param("id"), middleware.UserID(c), req)
	if err != nil {
		writeError(c, h.logger, "update review", err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	isAdmin := middleware.HasRole(c, domain.RoleAdmin)
	if err := h.reviewService.DeleteReview(c.Request.Context(), c.Param("id"), middleware.UserID(c), isAdmin); err != nil {
		writeError(c, h.logger, "delete review", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
