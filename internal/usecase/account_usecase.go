package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"carenet/internal/domain/profile"
	"carenet/internal/domain/user"

	"github.com/google/uuid"
)

type AccountEraser interface {
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type DeviceRegistry interface {
	Upsert(ctx context.Context, userID uuid.UUID, token, platform string) error
}

type AccountUsecase interface {
	Deactivate(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, userID uuid.UUID) error
	RegisterDevice(ctx context.Context, userID uuid.UUID, token, platform string) error
}

type Account struct {
	profiles profile.Repository
	accounts AccountEraser
	devices  DeviceRegistry
	cache    Cache
	logger   *log.Logger
}

func NewAccountUsecase(profiles profile.Repository, accounts AccountEraser, devices DeviceRegistry, cache Cache, logger *log.Logger) *Account {
	return &Account{profiles: profiles, accounts: accounts, devices: devices, cache: cache, logger: logger}
}

// Deactivate hides the profile until the next successful login.
func (u *Account) Deactivate(ctx context.Context, userID uuid.UUID) error {
	if err := u.profiles.SetAccountStatus(ctx, userID, profile.StatusDeactivated); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	if u.logger != nil {
		u.logger.Printf("Account deactivated | user_id=%s", userID)
	}
	return nil
}

// Delete erases the account and everything it owns in one transaction.
func (u *Account) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := u.accounts.DeleteAccount(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrNotFound
		}
		if u.logger != nil {
			u.logger.Printf("Account deletion failed | user_id=%s error=%v", userID, err)
		}
		return ErrInternal
	}
	if u.cache != nil {
		_ = u.cache.Delete(ctx, statsCacheKey(userID))
	}
	if u.logger != nil {
		u.logger.Printf("Account deleted | user_id=%s", userID)
	}
	return nil
}

func (u *Account) RegisterDevice(ctx context.Context, userID uuid.UUID, token, platform string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidInput
	}
	if u.devices == nil {
		return ErrUnavailable
	}
	if err := u.devices.Upsert(ctx, userID, token, platform); err != nil {
		return ErrInternal
	}
	return nil
}
