package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

type UserService struct {
	users    UserStore
	products ProductStore
	verifier *PurchaseVerifier
	logger   *zap.Logger
}

func NewUserService(users UserStore, products ProductStore, verifier *PurchaseVerifier, logger *zap.Logger) *UserService {
	return &UserService{
		users:    users,
		products: products,
		verifier: verifier,
		logger:   logger,
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.ProfileResponse, error) {
	user, err := loadOrCreateUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	return profileOf(user), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.ProfileResponse, error) {
	user, err := loadOrCreateUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "must not be empty")
		}
		user.Name = name
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	user.UpdatedAt = time.Now()

	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return profileOf(user), nil
}

// ToggleWishlist adds the product if absent and removes it if present.
func (s *UserService) ToggleWishlist(ctx context.Context, userID, productID string) ([]string, error) {
	user, err := loadOrCreateUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(user.Wishlist)+1)
	removed := false
	for _, id := range user.Wishlist {
		if id == productID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if !removed {
		if _, err := s.products.GetProduct(ctx, productID); err != nil {
			return nil, err
		}
		kept = append(kept, productID)
	}

	user.Wishlist = kept
	user.UpdatedAt = time.Now()
	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Wishlist updated",
		zap.String("user_id", userID),
		zap.String("product_id", productID),
		zap.Bool("removed", removed))

	return user.Wishlist, nil
}

func (s *UserService) VerifyPurchase(ctx context.Context, userID, productID string) (bool, error) {
	_, ok, err := s.verifier.Verify(ctx, userID, productID)
	return ok, err
}

func profileOf(u *domain.User) *domain.ProfileResponse {
	view := newCartView(u.Cart)
	addresses := u.Addresses
	if addresses == nil {
		addresses = []domain.Address{}
	}
	wishlist := u.Wishlist
	if wishlist == nil {
		wishlist = []string{}
	}
	return &domain.ProfileResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Addresses: addresses,
		Wishlist:  wishlist,
		CartCount: view.Summary.ItemCount,
	}
}
