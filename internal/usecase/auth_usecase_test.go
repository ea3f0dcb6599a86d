package usecase

import (
	"context"
	"errors"
	"testing"

	"carenet/internal/domain/profile"
	"carenet/internal/domain/user"
	"carenet/internal/pkg/jwt"
	ucauth "carenet/internal/usecase/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type stubJWT struct {
	claims jwt.Claims
	err    error
}

func (s stubJWT) GenerateAccessToken(userID uuid.UUID, _ string) (string, error) {
	return "access-" + userID.String(), nil
}

func (s stubJWT) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return "refresh-" + userID.String(), nil
}

func (s stubJWT) ValidateToken(string) (jwt.Claims, error) { return s.claims, s.err }

func (s stubJWT) IsRefreshToken(c jwt.Claims) bool { return c.TokenType == jwt.TokenTypeRefresh }

type noAccounts struct{}

func (noAccounts) CreateAccount(context.Context, user.User, profile.Profile) error { return nil }

func loginFixture(t *testing.T, status profile.AccountStatus) (*Auth, *fakeProfiles, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := &emailUsers{u: user.User{ID: id, Email: "doc@example.com", PasswordHash: string(hash)}}
	profiles := newFakeProfiles(profile.Profile{ID: id, AccountStatus: status})
	return NewAuthUsecase(users, noAccounts{}, profiles, stubJWT{}, nil), profiles, id
}

type emailUsers struct {
	u user.User
}

func (e *emailUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	if id != e.u.ID {
		return user.User{}, user.ErrNotFound
	}
	return e.u, nil
}

func (e *emailUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	if email != e.u.Email {
		return user.User{}, user.ErrNotFound
	}
	return e.u, nil
}

func (e *emailUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return email == e.u.Email, nil
}

func TestAuth_Login_ReactivatesDeactivatedAccount(t *testing.T) {
	uc, profiles, id := loginFixture(t, profile.StatusDeactivated)

	res, err := uc.Login(context.Background(), ucauth.LoginInput{Email: "doc@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !res.Reactivated {
		t.Fatalf("expected reactivated flag")
	}
	if profiles.rows[id].AccountStatus != profile.StatusActive {
		t.Fatalf("expected profile to be active again")
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatalf("expected tokens")
	}
}

func TestAuth_Login_RefusesDeletedAccount(t *testing.T) {
	uc, _, _ := loginFixture(t, profile.StatusDeleted)

	_, err := uc.Login(context.Background(), ucauth.LoginInput{Email: "doc@example.com", Password: "password1"})
	if !errors.Is(err, ErrAccountDeleted) {
		t.Fatalf("expected ErrAccountDeleted, got %v", err)
	}
}

func TestAuth_Refresh(t *testing.T) {
	id := uuid.New()
	users := &emailUsers{u: user.User{ID: id, Email: "doc@example.com"}}

	uc := NewAuthUsecase(users, noAccounts{}, newFakeProfiles(), stubJWT{claims: jwt.Claims{UserID: id, TokenType: jwt.TokenTypeRefresh}}, nil)
	access, refresh, err := uc.Refresh(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if access != "access-"+id.String() || refresh != "refresh-"+id.String() {
		t.Fatalf("unexpected tokens %q %q", access, refresh)
	}

	uc = NewAuthUsecase(users, noAccounts{}, newFakeProfiles(), stubJWT{claims: jwt.Claims{UserID: id, TokenType: jwt.TokenTypeAccess}}, nil)
	if _, _, err := uc.Refresh(context.Background(), "tok"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for access token, got %v", err)
	}

	uc = NewAuthUsecase(users, noAccounts{}, newFakeProfiles(), stubJWT{err: jwt.ErrTokenExpired}, nil)
	if _, _, err := uc.Refresh(context.Background(), "tok"); !errors.Is(err, ErrRefreshTokenExpired) {
		t.Fatalf("expected ErrRefreshTokenExpired, got %v", err)
	}
	if _, _, err := uc.Refresh(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
