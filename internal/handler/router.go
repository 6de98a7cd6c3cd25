package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/pkg/middleware"
)

type Handlers struct {
	Product *ProductHandler
	Review  *ReviewHandler
	User    *UserHandler
}

// NewRouter wires every route under /api/v1. A nil limiter disables rate limiting.
func NewRouter(h Handlers, validator *middleware.JWTValidator, limiter middleware.Limiter, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders())
	if limiter != nil {
		router.Use(middleware.RateLimit(limiter, logger))
	}

	auth := middleware.Auth(validator)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		products := v1.Group("/products")
		products.GET("", h.Product.ListProducts)
		products.GET("/:id", h.Product.GetProduct)
		products.GET("/:id/similar", h.Product.SimilarProducts)
		products.GET("/:id/stock", h.Product.GetStock)

		reviews := v1.Group("/reviews")
		reviews.GET("/:productId/reviews", h.Review.ListProductReviews)
		reviews.GET("/user-review/:productId", auth, h.Review.GetUserReview)
		reviews.POST("", auth, h.Review.SubmitReview)
		reviews.PUT("/:id", auth, h.Review.UpdateReview)
		reviews.DELETE("/:id", auth, h.Review.DeleteReview)

		user := v1.Group("/user", auth)
		user.GET("/profile", h.User.GetProfile)
		user.PUT("/profile", h.User.UpdateProfile)
		user.GET("/addresses", h.User.ListAddresses)
		user.POST("/addresses", h.User.AddAddress)
		user.PUT("/addresses/:id", h.User.UpdateAddress)
		user.DELETE("/addresses/:id", h.User.DeleteAddress)
		user.GET("/cart", h.User.GetCart)
		user.POST("/cart", h.User.AddToCart)
		user.DELETE("/cart/clear", h.User.ClearCart)
		user.DELETE("/cart/:itemId", h.User.RemoveCartItem)
		user.PUT("/wishlist", h.User.ToggleWishlist)
		user.GET("/verify-purchase/:productId", h.User.VerifyPurchase)

		admin := v1.Group("/admin", auth, middleware.RequireRole(domain.RoleAdmin))
		admin.POST("/products", h.Product.CreateProduct)
		admin.PUT("/products/:id", h.Product.UpdateProduct)
		admin.PUT("/products/:id/stock", h.Product.ProvisionStock)
	}

	return router
}
