package service

import (
	"context"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

// The store interfaces are satisfied by the DynamoDB repositories and by the
// in-memory ones in repository/memory.

type ProductStore interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
}

type StockStore interface {
	GetStock(ctx context.Context, variantKey string) (*domain.VariantStock, error)
	PutStock(ctx context.Context, stock *domain.VariantStock) error
	// AdjustStock fills in the variant's product, color and size when the
	// record does not exist yet.
	AdjustStock(ctx context.Context, ref domain.VariantRef, delta int) (*domain.StockMovement, error)
	ListStock(ctx context.Context, productID string) ([]domain.VariantStock, error)
}

// UserStore.SaveUser must fail with domain.ErrConflict when the stored version
// differs from user.Version.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	SaveUser(ctx context.Context, user *domain.User) error
}

// ReviewStore.CreateReview must fail with domain.ErrDuplicateReview while the
// user already has a non-deleted review of the product.
type ReviewStore interface {
	CreateReview(ctx context.Context, review *domain.Review) error
	SaveReview(ctx context.Context, review *domain.Review) error
	GetReview(ctx context.Context, reviewID string) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Review, error)
}

type OrderStore interface {
	PutOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	// TransitionStatus moves the order from one status to another, failing
	// with domain.ErrConflict when the stored status is not from.
	TransitionStatus(ctx context.Context, orderID, from, to string) error
	MarkRestocked(ctx context.Context, orderID string, line int) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
