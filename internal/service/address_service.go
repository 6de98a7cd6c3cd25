package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

// AddressService maintains the user's address list. Whenever the list is
// non-empty exactly one address is the default. Every call returns the full list.
type AddressService struct {
	users  UserStore
	logger *zap.Logger
}

func NewAddressService(users UserStore, logger *zap.Logger) *AddressService {
	return &AddressService{
		users:  users,
		logger: logger,
	}
}

func (s *AddressService) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	user, err := loadOrCreateUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	return ensureSingleDefault(user.Addresses), nil
}

func (s *AddressService) AddAddress(ctx context.Context, userID string, req domain.AddressRequest) ([]domain.Address, error) {
	addr := domain.Address{
		ID:           uuid.NewString(),
		AddressLine1: strings.TrimSpace(req.AddressLine1),
		AddressLine2: strings.TrimSpace(req.AddressLine2),
		City:         strings.TrimSpace(req.City),
		State:        strings.TrimSpace(req.State),
		ZipCode:      strings.TrimSpace(req.ZipCode),
		CreatedAt:    time.Now(),
	}
	if err := validateAddress(&addr); err != nil {
		return nil, err
	}

	user, err := loadOrCreateUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	addr.IsDefault = len(user.Addresses) == 0
	user.Addresses = ensureSingleDefault(append(user.Addresses, addr))

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Address added",
		zap.String("user_id", userID),
		zap.String("address_id", addr.ID),
		zap.Bool("is_default", addr.IsDefault))

	return user.Addresses, nil
}

// UpdateAddress applies the given fields. Setting is_default moves the default
// to this address; clearing it on the current default is ignored.
func (s *AddressService) UpdateAddress(ctx context.Context, userID, addressID string, req domain.UpdateAddressRequest) ([]domain.Address, error) {
	user, err := loadOrCreateUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	idx := findAddress(user.Addresses, addressID)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}

	updated := user.Addresses[idx]
	if req.AddressLine1 != nil {
		updated.AddressLine1 = strings.TrimSpace(*req.AddressLine1)
	}
	if req.AddressLine2 != nil {
		updated.AddressLine2 = strings.TrimSpace(*req.AddressLine2)
	}
	if req.City != nil {
		updated.City = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		updated.State = strings.TrimSpace(*req.State)
	}
	if req.ZipCode != nil {
		updated.ZipCode = strings.TrimSpace(*req.ZipCode)
	}
	if err := validateAddress(&updated); err != nil {
		return nil, err
	}
	user.Addresses[idx] = updated

	if req.IsDefault != nil && *req.IsDefault {
		for i := range user.Addresses {
			user.Addresses[i].IsDefault = i == idx
		}
	}
	user.Addresses = ensureSingleDefault(user.Addresses)

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

// DeleteAddress removes an address; if it was the default the earliest
// remaining address takes over.
func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID string) ([]domain.Address, error) {
	user, err := loadOrCreateUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	idx := findAddress(user.Addresses, addressID)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}

	wasDefault := user.Addresses[idx].IsDefault
	remaining := make([]domain.Address, 0, len(user.Addresses)-1)
	remaining = append(remaining, user.Addresses[:idx]...)
	remaining = append(remaining, user.Addresses[idx+1:]...)
	user.Addresses = ensureSingleDefault(remaining)

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Address deleted",
		zap.String("user_id", userID),
		zap.String("address_id", addressID),
		zap.Bool("was_default", wasDefault))

	return user.Addresses, nil
}

func (s *AddressService) save(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now()
	return s.users.SaveUser(ctx, user)
}

func findAddress(list []domain.Address, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// ensureSingleDefault keeps the first default flag it finds and clears the
// rest; if none is set the earliest address is promoted.
func ensureSingleDefault(list []domain.Address) []domain.Address {
	if list == nil {
		return []domain.Address{}
	}
	seen := false
	for i := range list {
		if list[i].IsDefault && !seen {
			seen = true
			continue
		}
		list[i].IsDefault = false
	}
	if !seen && len(list) > 0 {
		list[0].IsDefault = true
	}
	return list
}

func validateAddress(a *domain.Address) error {
	switch {
	case a.AddressLine1 == "":
		return domain.NewValidationError("address_line_1", "is required")
	case a.City == "":
		return domain.NewValidationError("city", "is required")
	case a.State == "":
		return domain.NewValidationError("state", "is required")
	case !isPostalCode(a.ZipCode):
		return domain.NewValidationError("zip_code", "must be exactly 6 digits")
	}
	return nil
}

func isPostalCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
