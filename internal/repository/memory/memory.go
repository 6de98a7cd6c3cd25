// Package memory holds document-store implementations backed by process
// memory. They serve LOCAL_MODE runs and tests, and follow the same
// conditional-write rules as the DynamoDB repositories.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

type ProductRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{items: make(map[string]domain.Product)}
}

func cloneProduct(p domain.Product) domain.Product {
	p.Images = slices.Clone(p.Images)
	p.AvailableColors = slices.Clone(p.AvailableColors)
	p.AvailableSizes = slices.Clone(p.AvailableSizes)
	return p
}

func (r *ProductRepository) CreateProduct(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[product.ProductID]; ok {
		return domain.ErrAlreadyExists
	}
	r.items[product.ProductID] = cloneProduct(*product)
	return nil
}

func (r *ProductRepository) UpdateProduct(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[product.ProductID]; !ok {
		return domain.ErrNotFound
	}
	r.items[product.ProductID] = cloneProduct(*product)
	return nil
}

func (r *ProductRepository) GetProduct(_ context.Context, productID string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (r *ProductRepository) ListProducts(_ context.Context, category string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Product{}
	for _, p := range r.items {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

type StockRepository struct {
	mu    sync.Mutex
	items map[string]domain.VariantStock
}

func NewStockRepository() *StockRepository {
	return &StockRepository{items: make(map[string]domain.VariantStock)}
}

func (r *StockRepository) GetStock(_ context.Context, variantKey string) (*domain.VariantStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[variantKey]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *StockRepository) PutStock(_ context.Context, stock *domain.VariantStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[stock.VariantKey] = *stock
	return nil
}

func (r *StockRepository) AdjustStock(_ context.Context, ref domain.VariantRef, delta int) (*domain.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[ref.VariantKey]
	if !ok {
		if delta < 0 {
			return nil, domain.ErrInsufficientStock
		}
		s = domain.VariantStock{VariantKey: ref.VariantKey}
	}
	if s.StockLevel+delta < 0 {
		return nil, domain.ErrInsufficientStock
	}
	if s.ProductID == "" {
		s.ProductID, s.Color, s.Size = ref.ProductID, ref.Color, ref.Size
	}
	prev := s.StockLevel
	s.StockLevel += delta
	s.UpdatedAt = time.Now()
	r.items[ref.VariantKey] = s
	return &domain.StockMovement{
		VariantRef: domain.VariantRef{
			VariantKey: s.VariantKey,
			ProductID:  s.ProductID,
			Color:      s.Color,
			Size:       s.Size,
		},
		PreviousStock: prev,
		NewStock:      s.StockLevel,
		Delta:         delta,
	}, nil
}

func (r *StockRepository) ListStock(_ context.Context, productID string) ([]domain.VariantStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.VariantStock{}
	for _, s := range r.items {
		if s.ProductID == productID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VariantKey < out[j].VariantKey })
	return out, nil
}

type UserRepository struct {
	mu    sync.Mutex
	items map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{items: make(map[string]domain.User)}
}

func cloneUser(u domain.User) domain.User {
	u.Cart = slices.Clone(u.Cart)
	u.Addresses = slices.Clone(u.Addresses)
	u.Wishlist = slices.Clone(u.Wishlist)
	return u
}

func (r *UserRepository) GetUser(_ context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u = cloneUser(u)
	return &u, nil
}

func (r *UserRepository) CreateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[user.UserID]; ok {
		return domain.ErrAlreadyExists
	}
	r.items[user.UserID] = cloneUser(*user)
	return nil
}

func (r *UserRepository) SaveUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[user.UserID]
	if !ok || current.Version != user.Version {
		return domain.ErrConflict
	}
	next := cloneUser(*user)
	next.Version++
	r.items[user.UserID] = next
	user.Version = next.Version
	return nil
}

type ReviewRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{items: make(map[string]domain.Review)}
}

func (r *ReviewRepository) CreateReview(_ context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[review.ReviewID]; ok {
		return domain.ErrAlreadyExists
	}
	for _, rv := range r.items {
		if rv.UserID == review.UserID && rv.ProductID == review.ProductID && !rv.Deleted() {
			return domain.ErrDuplicateReview
		}
	}
	r.items[review.ReviewID] = *review
	return nil
}

func (r *ReviewRepository) SaveReview(_ context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[review.ReviewID] = *review
	return nil
}

func (r *ReviewRepository) GetReview(_ context.Context, reviewID string) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rv, ok := r.items[reviewID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rv, nil
}

func (r *ReviewRepository) ListByProduct(_ context.Context, productID string) ([]domain.Review, error) {
	return r.filter(func(rv domain.Review) bool { return rv.ProductID == productID }), nil
}

func (r *ReviewRepository) ListByUser(_ context.Context, userID string) ([]domain.Review, error) {
	return r.filter(func(rv domain.Review) bool { return rv.UserID == userID }), nil
}

func (r *ReviewRepository) filter(keep func(domain.Review) bool) []domain.Review {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Review{}
	for _, rv := range r.items {
		if keep(rv) {
			out = append(out, rv)
		}
	}
	return out
}

type OrderRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{items: make(map[string]domain.Order)}
}

func (r *OrderRepository) PutOrder(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := *order
	o.Items = slices.Clone(order.Items)
	r.items[order.OrderID] = o
	return nil
}

func (r *OrderRepository) GetOrder(_ context.Context, orderID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.items[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.Items = slices.Clone(o.Items)
	return &o, nil
}

func (r *OrderRepository) TransitionStatus(_ context.Context, orderID, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	if o.Status != from {
		return domain.ErrConflict
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	r.items[orderID] = o
	return nil
}

func (r *OrderRepository) MarkRestocked(_ context.Context, orderID string, line int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[orderID]
	if !ok || line < 0 || line >= len(o.Items) {
		return domain.ErrNotFound
	}
	o.Items = slices.Clone(o.Items)
	o.Items[line].Restocked = true
	o.UpdatedAt = time.Now()
	r.items[orderID] = o
	return nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Order{}
	for _, o := range r.items {
		if o.UserID == userID {
			o.Items = slices.Clone(o.Items)
			out = append(out, o)
		}
	}
	return out, nil
}
