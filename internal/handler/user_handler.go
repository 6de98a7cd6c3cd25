package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/service"
	"github.com/cloud-wave-best-zizon/storefront-service/pkg/middleware"
)

// UserHandler serves everything under /user: profile, addresses, cart and wishlist.
type UserHandler struct {
	userService    *service.UserService
	cartService    *service.CartService
	addressService *service.AddressService
	logger         *zap.Logger
}

func NewUserHandler(userService *service.UserService, cartService *service.CartService, addressService *service.AddressService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService:    userService,
		cartService:    cartService,
		addressService: addressService,
		logger:         logger,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.logger, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, h.logger, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) ListAddresses(c *gin.Context) {
	addresses, err := h.addressService.ListAddresses(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.logger, "list addresses", err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

func (h *UserHandler) AddAddress(c *gin.Context) {
	var req domain.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	addresses, err := h.addressService.AddAddress(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, h.logger, "add address", err)
		return
	}
	c.JSON(http.StatusCreated, addresses)
}

func (h *UserHandler) UpdateAddress(c *gin.Context) {
	var req domain.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	addresses, err := h.addressService.UpdateAddress(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, "update address", err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

func (h *UserHandler) DeleteAddress(c *gin.Context) {
	addresses, err := h.addressService.DeleteAddress(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "delete address", err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

func (h *UserHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.logger, "get cart", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *UserHandler) AddToCart(c *gin.Context) {
	var req domain.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	cart, err := h.cartService.AddOrUpdateCartItem(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, h.logger, "update cart", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *UserHandler) RemoveCartItem(c *gin.Context) {
	cart, err := h.cartService.RemoveCartItem(c.Request.Context(), middleware.UserID(c), c.Param("itemId"))
	if err != nil {
		writeError(c, h.logger, "remove cart item", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *UserHandler) ClearCart(c *gin.Context) {
	cart, err := h.cartService.ClearCart(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.logger, "clear cart", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *UserHandler) ToggleWishlist(c *gin.Context) {
	var req domain.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	wishlist, err := h.userService.ToggleWishlist(c.Request.Context(), middleware.UserID(c), req.ProductID)
	if err != nil {
		writeError(c, h.logger, "update wishlist", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": wishlist})
}

func (h *UserHandler) VerifyPurchase(c *gin.Context) {
	productID := c.Param("productId")
	ok, err := h.userService.VerifyPurchase(c.Request.Context(), middleware.UserID(c), productID)
	if err != nil {
		writeError(c, h.logger, "verify purchase", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product_id":         productID,
		"verified_purchaser": ok,
	})
}
