package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

// CartService keeps one line per product variant in the user's cart. Adding
// sets the line's absolute quantity, so repeating a request is a no-op.
type CartService struct {
	users    UserStore
	products ProductStore
	resolver *StockResolver
	logger   *zap.Logger
}

func NewCartService(users UserStore, products ProductStore, resolver *StockResolver, logger *zap.Logger) *CartService {
	return &CartService{
		users:    users,
		products: products,
		resolver: resolver,
		logger:   logger,
	}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.CartView, error) {
	user, err := loadOrCreateUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	return newCartView(user.Cart), nil
}

func (s *CartService) AddOrUpdateCartItem(ctx context.Context, userID string, req domain.CartItemRequest) (*domain.CartView, error) {
	if req.Quantity < 1 {
		return nil, domain.NewValidationError("quantity", "must be a positive integer")
	}

	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	sel, err := SelectionFor(product, req.Color, req.Size)
	if err != nil {
		return nil, err
	}

	available, err := s.resolver.StockFor(ctx, product.ProductID, sel)
	if err != nil {
		return nil, err
	}
	if req.Quantity > available {
		return nil, &domain.OutOfStockError{
			ProductID: product.ProductID,
			Requested: req.Quantity,
			Available: available,
		}
	}

	user, err := loadOrCreateUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	idx := findCartLine(user.Cart, product.ProductID, sel)
	if idx >= 0 {
		user.Cart[idx].Quantity = req.Quantity
		user.Cart[idx].AddedAt = now
	} else {
		user.Cart = append(user.Cart, domain.CartItem{
			ID:            uuid.NewString(),
			ProductID:     product.ProductID,
			SelectedColor: sel.Color,
			SelectedSize:  sel.Size,
			Quantity:      req.Quantity,
			AddedAt:       now,
		})
	}
	user.UpdatedAt = now

	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Cart updated",
		zap.String("user_id", userID),
		zap.String("product_id", product.ProductID),
		zap.String("variant_key", VariantKey(product.ProductID, sel.Color, sel.Size)),
		zap.Int("quantity", req.Quantity),
		zap.Int("available", available))

	return newCartView(user.Cart), nil
}

func (s *CartService) RemoveCartItem(ctx context.Context, userID, itemID string) (*domain.CartView, error) {
	user, err := loadOrCreateUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	kept := make([]domain.CartItem, 0, len(user.Cart))
	for _, it := range user.Cart {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(user.Cart) {
		return nil, domain.ErrNotFound
	}

	user.Cart = kept
	user.UpdatedAt = time.Now()
	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return newCartView(user.Cart), nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) (*domain.CartView, error) {
	user, err := loadOrCreateUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Cart) == 0 {
		return newCartView(user.Cart), nil
	}

	user.Cart = []domain.CartItem{}
	user.UpdatedAt = time.Now()
	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return newCartView(user.Cart), nil
}

func findCartLine(cart []domain.CartItem, productID string, sel Selection) int {
	for i, it := range cart {
		if it.ProductID == productID && sameVariant(it.SelectedColor, it.SelectedSize, sel.Color, sel.Size) {
			return i
		}
	}
	return -1
}

func newCartView(items []domain.CartItem) *domain.CartView {
	if items == nil {
		items = []domain.CartItem{}
	}
	view := &domain.CartView{Items: items}
	for _, it := range items {
		view.Summary.ItemCount += it.Quantity
	}
	view.Summary.LineCount = len(items)
	return view
}
