package auth

import (
	"context"
	"errors"
	"testing"

	"carenet/internal/domain/profile"
	"carenet/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	byID map[uuid.UUID]user.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[uuid.UUID]user.User{}}
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

type memAccounts struct {
	users    *memUsers
	profiles []profile.Profile
}

func (m *memAccounts) CreateAccount(_ context.Context, u user.User, p profile.Profile) error {
	m.users.byID[u.ID] = u
	p.ID = u.ID
	m.profiles = append(m.profiles, p)
	return nil
}

func newTestService() (*Service, *memAccounts) {
	users := newMemUsers()
	accounts := &memAccounts{users: users}
	svc := NewService(users, accounts)
	svc.cost = bcrypt.MinCost
	return svc, accounts
}

func TestRegister_CreatesUserAndProfile(t *testing.T) {
	svc, accounts := newTestService()

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Nurse@Example.com ",
		Password: "supersecret",
		FullName: "Ana Nurse",
		UserType: "Nurse",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Email != "nurse@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.PasswordHash != "" {
		t.Fatalf("expected password hash to be stripped")
	}
	if len(accounts.profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(accounts.profiles))
	}
	p := accounts.profiles[0]
	if p.UserType != "nurse" || p.FullName != "Ana Nurse" || p.AccountStatus != profile.StatusActive {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestRegister_DefaultsUserTypeAndName(t *testing.T) {
	svc, accounts := newTestService()

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.co", Password: "password1"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	p := accounts.profiles[0]
	if p.UserType != profile.DefaultUserType || p.FullName != "User" {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}

func TestRegister_RejectsBadInput(t *testing.T) {
	svc, _ := newTestService()

	cases := []RegisterInput{
		{Email: "", Password: "password1"},
		{Email: "no-at-sign", Password: "password1"},
		{Email: "a@b.co", Password: "short"},
		{Email: "a@b.co", Password: "password1", UserType: "astronaut"},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	in := RegisterInput{Email: "dup@example.com", Password: "password1"}

	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Register(context.Background(), RegisterInput{Email: "doc@example.com", Password: "password1"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginInput{Email: "DOC@example.com", Password: "password1"}); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Email: "doc@example.com", Password: "wrong-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "password1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}
