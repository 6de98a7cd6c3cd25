package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/handler"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository/memory"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/service"
	"github.com/cloud-wave-best-zizon/storefront-service/pkg/middleware"
)

const secret = "router-test-secret"

type api struct {
	t      *testing.T
	router *gin.Engine
	orders *memory.OrderRepository
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	productRepo := memory.NewProductRepository()
	stockRepo := memory.NewStockRepository()
	userRepo := memory.NewUserRepository()
	reviewRepo := memory.NewReviewRepository()
	orderRepo := memory.NewOrderRepository()

	resolver := service.NewStockResolver(productRepo, stockRepo)
	verifier := service.NewPurchaseVerifier(orderRepo)
	h := handler.Handlers{
		Product: handler.NewProductHandler(service.NewProductService(productRepo, stockRepo, resolver, logger), logger),
		Review:  handler.NewReviewHandler(service.NewReviewService(reviewRepo, productRepo, userRepo, verifier, logger), logger),
		User: handler.NewUserHandler(
			service.NewUserService(userRepo, productRepo, verifier, logger),
			service.NewCartService(userRepo, productRepo, resolver, logger),
			service.NewAddressService(userRepo, logger),
			logger),
	}

	return &api{
		t:      t,
		router: handler.NewRouter(h, middleware.NewJWTValidator(secret), nil, logger),
		orders: orderRepo,
	}
}

func (a *api) token(sub string, roles ...string) string {
	a.t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: roles,
	}).SignedString([]byte(secret))
	require.NoError(a.t, err)
	return tok
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (a *api) seedTee(admin string) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/admin/products", admin, gin.H{
		"product_id":       "P1",
		"name":             "Tee",
		"category":         "tees",
		"available_colors": []gin.H{{"name": "Black", "hex_code": "#000000"}},
		"available_sizes":  []string{"S", "M"},
		"price":            gin.H{"base_price": 30, "sale_price": 25, "is_on_sale": true},
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPut, "/api/v1/admin/products/P1/stock", admin, gin.H{"color": "Black", "size": "M", "stock_level": 3})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestAuthBoundaries(t *testing.T) {
	a := newAPI(t)

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/v1/user/cart", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/v1/reviews", "", gin.H{}).Code)

	w := a.do(http.MethodPost, "/api/v1/admin/products", a.token("u1", domain.RoleCustomer), gin.H{"product_id": "X", "name": "X"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProductAndStockFlow(t *testing.T) {
	a := newAPI(t)
	a.seedTee(a.token("admin", domain.RoleAdmin))

	w := a.do(http.MethodGet, "/api/v1/products/P1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var product domain.ProductResponse
	decode(t, w, &product)
	assert.Equal(t, 25.0, product.EffectivePrice)
	require.Len(t, product.Variants, 1)
	assert.Equal(t, "p1_black_m", product.Variants[0].VariantKey)

	w = a.do(http.MethodGet, "/api/v1/products/P1/stock?color=black&size=m", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stock domain.StockResponse
	decode(t, w, &stock)
	assert.Equal(t, 3, stock.StockLevel)

	w = a.do(http.MethodGet, "/api/v1/products/P1/stock?color=Black", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/v1/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartOutOfStock(t *testing.T) {
	a := newAPI(t)
	a.seedTee(a.token("admin", domain.RoleAdmin))
	user := a.token("u1")

	w := a.do(http.MethodPost, "/api/v1/user/cart", user, gin.H{"product_id": "P1", "color": "Black", "size": "M", "quantity": 4})
	require.Equal(t, http.StatusConflict, w.Code)
	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "out_of_stock", body["error"])
	assert.EqualValues(t, 3, body["available"])

	w = a.do(http.MethodPost, "/api/v1/user/cart", user, gin.H{"product_id": "P1", "color": "Black", "size": "M", "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	var cart domain.CartView
	decode(t, w, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Summary.ItemCount)

	w = a.do(http.MethodPost, "/api/v1/user/cart", user, gin.H{"product_id": "P1", "color": "Black", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodDelete, "/api/v1/user/cart/"+cart.Items[0].ID, user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &cart)
	assert.Empty(t, cart.Items)

	w = a.do(http.MethodDelete, "/api/v1/user/cart/clear", user, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReviewFlow(t *testing.T) {
	a := newAPI(t)
	a.seedTee(a.token("admin", domain.RoleAdmin))
	alice := a.token("alice")
	bob := a.token("bob")

	w := a.do(http.MethodGet, "/api/v1/reviews/user-review/P1", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, a.orders.PutOrder(t.Context(), &domain.Order{
		OrderID:   "o-1",
		UserID:    "alice",
		Status:    domain.OrderStatusCompleted,
		Items:     []domain.OrderItem{{ProductID: "P1", Quantity: 1}},
		CreatedAt: time.Now(),
	}))

	submit := gin.H{"product_id": "P1", "rating": 5, "title": "Great", "comment": "Fits well", "isVerified": false}
	w = a.do(http.MethodPost, "/api/v1/reviews", alice, submit)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var review domain.Review
	decode(t, w, &review)
	assert.True(t, review.IsVerified)

	w = a.do(http.MethodPost, "/api/v1/reviews", alice, submit)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, "/api/v1/reviews", bob, gin.H{"product_id": "P1", "rating": 6, "title": "x", "comment": "y"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPut, "/api/v1/reviews/"+review.ReviewID, bob, gin.H{"rating": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodGet, "/api/v1/reviews/P1/reviews", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed domain.ProductReviewsResponse
	decode(t, w, &listed)
	assert.Equal(t, 1, listed.Summary.Count)
	assert.Equal(t, 1, listed.Summary.Distribution[5])

	w = a.do(http.MethodGet, "/api/v1/user/verify-purchase/P1", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"product_id":"P1","verified_purchaser":true}`, w.Body.String())

	w = a.do(http.MethodDelete, "/api/v1/reviews/"+review.ReviewID, a.token("mod", domain.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddressFlow(t *testing.T) {
	a := newAPI(t)
	user := a.token("u1")
	addr := gin.H{"address_line_1": "1 Main St", "city": "Seoul", "state": "Seoul", "zip_code": "123456"}

	w := a.do(http.MethodPost, "/api/v1/user/addresses", user, addr)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var list []domain.Address
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefault)

	w = a.do(http.MethodPost, "/api/v1/user/addresses", user, addr)
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &list)
	require.Len(t, list, 2)
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)

	bad := gin.H{"address_line_1": "1 Main St", "city": "Seoul", "state": "Seoul", "zip_code": "1234"}
	w = a.do(http.MethodPost, "/api/v1/user/addresses", user, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodDelete, "/api/v1/user/addresses/"+list[0].ID, user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefault)

	w = a.do(http.MethodGet, "/api/v1/user/profile", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile domain.ProfileResponse
	decode(t, w, &profile)
	assert.Len(t, profile.Addresses, 1)
}
