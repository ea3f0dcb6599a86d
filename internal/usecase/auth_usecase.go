package usecase

import (
	"context"
	"errors"
	"log"

	"carenet/internal/domain/profile"
	"carenet/internal/domain/user"
	"carenet/internal/pkg/jwt"
	ucauth "carenet/internal/usecase/auth"
)

type AuthResult struct {
	User         user.User
	AccessToken  string
	RefreshToken string
	// Reactivated is set when login brought a deactivated account back.
	Reactivated bool
}

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (AuthResult, error)
	Login(ctx context.Context, in ucauth.LoginInput) (AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type Auth struct {
	authSvc  *ucauth.Service
	users    user.Repository
	profiles profile.Repository
	jwt      jwt.Service
	logger   *log.Logger
}

func NewAuthUsecase(users user.Repository, accounts ucauth.AccountCreator, profiles profile.Repository, jwtSvc jwt.Service, logger *log.Logger) *Auth {
	return &Auth{
		authSvc:  ucauth.NewService(users, accounts),
		users:    users,
		profiles: profiles,
		jwt:      jwtSvc,
		logger:   logger,
	}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (AuthResult, error) {
	usr, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return AuthResult{}, err
	}
	return u.issue(usr, false)
}

// Login verifies credentials, then applies the account status check:
// deleted accounts are refused and deactivated ones are switched back to active.
func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (AuthResult, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return AuthResult{}, err
	}

	reactivated := false
	prof, err := u.profiles.GetByID(ctx, usr.ID)
	switch {
	case errors.Is(err, profile.ErrNotFound):
	case err != nil:
		return AuthResult{}, ErrInternal
	case prof.AccountStatus == profile.StatusDeleted:
		return AuthResult{}, ErrAccountDeleted
	case prof.AccountStatus == profile.StatusDeactivated:
		if err := u.profiles.SetAccountStatus(ctx, usr.ID, profile.StatusActive); err != nil {
			return AuthResult{}, ErrInternal
		}
		reactivated = true
		if u.logger != nil {
			u.logger.Printf("Account reactivated | user_id=%s", usr.ID)
		}
	}

	return u.issue(usr, reactivated)
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return "", "", ErrInvalidRefreshToken
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", "", ErrUnauthorized
		}
		return "", "", ErrInternal
	}

	access, err := u.jwt.GenerateAccessToken(usr.ID, usr.Email)
	if err != nil {
		return "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		return "", "", ErrInternal
	}
	return access, refresh, nil
}

func (u *Auth) issue(usr user.User, reactivated bool) (AuthResult, error) {
	access, err := u.jwt.GenerateAccessToken(usr.ID, usr.Email)
	if err != nil {
		return AuthResult{}, ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		return AuthResult{}, ErrInternal
	}
	return AuthResult{User: usr, AccessToken: access, RefreshToken: refresh, Reactivated: reactivated}, nil
}
