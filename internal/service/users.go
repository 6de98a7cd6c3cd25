package service

import (
	"context"
	"errors"
	"time"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

// loadOrCreateUser returns the user document, creating an empty one on the
// first authenticated request for that subject.
func loadOrCreateUser(ctx context.Context, users UserStore, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := users.GetUser(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	user = &domain.User{
		UserID:    userID,
		Role:      domain.RoleCustomer,
		Cart:      []domain.CartItem{},
		Addresses: []domain.Address{},
		Wishlist:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// created by a concurrent request
			return users.GetUser(ctx, userID)
		}
		return nil, err
	}
	return user, nil
}

// PurchaseVerifier answers whether a user has a completed order containing a product.
type PurchaseVerifier struct {
	orders OrderStore
}

func NewPurchaseVerifier(orders OrderStore) *PurchaseVerifier {
	return &PurchaseVerifier{orders: orders}
}

// Verify returns the id of the matching completed order, if any.
func (v *PurchaseVerifier) Verify(ctx context.Context, userID, productID string) (string, bool, error) {
	orders, err := v.orders.ListByUser(ctx, userID)
	if err != nil {
		return "", false, err
	}
	var match *domain.Order
	for i := range orders {
		o := &orders[i]
		if o.Status != domain.OrderStatusCompleted || !o.Contains(productID) {
			continue
		}
		if match == nil || o.CreatedAt.After(match.CreatedAt) {
			match = o
		}
	}
	if match == nil {
		return "", false, nil
	}
	return match.OrderID, true, nil
}
