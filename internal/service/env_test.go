package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository/memory"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/service"
)

type testEnv struct {
	productRepo *memory.ProductRepository
	stockRepo   *memory.StockRepository
	userRepo    *memory.UserRepository
	reviewRepo  *memory.ReviewRepository
	orderRepo   *memory.OrderRepository

	resolver  *service.StockResolver
	products  *service.ProductService
	cart      *service.CartService
	addresses *service.AddressService
	users     *service.UserService
	reviews   *service.ReviewService
	orders    *service.OrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	e := &testEnv{
		productRepo: memory.NewProductRepository(),
		stockRepo:   memory.NewStockRepository(),
		userRepo:    memory.NewUserRepository(),
		reviewRepo:  memory.NewReviewRepository(),
		orderRepo:   memory.NewOrderRepository(),
	}
	e.resolver = service.NewStockResolver(e.productRepo, e.stockRepo)
	verifier := service.NewPurchaseVerifier(e.orderRepo)
	e.products = service.NewProductService(e.productRepo, e.stockRepo, e.resolver, logger)
	e.cart = service.NewCartService(e.userRepo, e.productRepo, e.resolver, logger)
	e.addresses = service.NewAddressService(e.userRepo, logger)
	e.users = service.NewUserService(e.userRepo, e.productRepo, verifier, logger)
	e.reviews = service.NewReviewService(e.reviewRepo, e.productRepo, e.userRepo, verifier, logger)
	e.orders = service.NewOrderService(e.orderRepo, e.stockRepo, e.resolver, logger)
	return e
}

// addApparel creates a product with color and size axes.
func (e *testEnv) addApparel(t *testing.T, productID, category string) {
	t.Helper()
	_, err := e.products.CreateProduct(context.Background(), domain.CreateProductRequest{
		ProductID: productID,
		Name:      "Tee " + productID,
		Category:  category,
		AvailableColors: []domain.ColorOption{
			{Name: "Black", HexCode: "#000000"},
			{Name: "Navy Blue", HexCode: "#000080"},
		},
		AvailableSizes: []string{"S", "M", "L"},
		Price:          domain.Price{BasePrice: 30, SalePrice: 25, IsOnSale: true},
	})
	require.NoError(t, err)
}

func (e *testEnv) addPlain(t *testing.T, productID string) {
	t.Helper()
	_, err := e.products.CreateProduct(context.Background(), domain.CreateProductRequest{
		ProductID: productID,
		Name:      "Mug " + productID,
		Price:     domain.Price{BasePrice: 12},
	})
	require.NoError(t, err)
}

func (e *testEnv) setStock(t *testing.T, productID, color, size string, level int) {
	t.Helper()
	_, err := e.products.ProvisionStock(context.Background(), productID, domain.ProvisionStockRequest{
		Color:      color,
		Size:       size,
		StockLevel: &level,
	})
	require.NoError(t, err)
}

func (e *testEnv) completeOrder(t *testing.T, orderID, userID, productID string) {
	t.Helper()
	require.NoError(t, e.orderRepo.PutOrder(context.Background(), &domain.Order{
		OrderID:   orderID,
		UserID:    userID,
		Status:    domain.OrderStatusCompleted,
		Items:     []domain.OrderItem{{ProductID: productID, Quantity: 1, Price: 10}},
		CreatedAt: time.Now(),
	}))
}
