package seeder

import (
	"context"
	"errors"
	"fmt"

	"carenet/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	DemoEmployerID = uuid.MustParse("7b0c1a52-2f4e-4d59-9a0e-5c1f3f6b1001")
	DemoDoctorID   = uuid.MustParse("7b0c1a52-2f4e-4d59-9a0e-5c1f3f6b1002")
	DemoNurseID    = uuid.MustParse("7b0c1a52-2f4e-4d59-9a0e-5c1f3f6b1003")
)

type demoAccount struct {
	ID             uuid.UUID
	Email          string
	FullName       string
	UserType       string
	Headline       string
	Specialization string
}

var demoAccounts = []demoAccount{
	{ID: DemoEmployerID, Email: "clinic@carenet.local", FullName: "Riverside Clinic", UserType: "employer", Headline: "Community hospital"},
	{ID: DemoDoctorID, Email: "doctor@carenet.local", FullName: "Dr. Maya Chen", UserType: "doctor", Headline: "Cardiologist", Specialization: "Cardiology"},
	{ID: DemoNurseID, Email: "nurse@carenet.local", FullName: "Sam Rivera", UserType: "nurse", Headline: "ICU nurse", Specialization: "Critical care"},
}

// AccountsSeeder creates demo users with their profiles. Existing rows are left untouched.
type AccountsSeeder struct {
	Password string
}

func (AccountsSeeder) Name() string { return "accounts" }

func (AccountsSeeder) Requires() Columns {
	return Columns{
		"users":    {"id", "email", "password_hash"},
		"profiles": {"id", "email", "full_name", "user_type", "headline", "specialization"},
	}
}

func (s AccountsSeeder) Run(ctx context.Context, db database.DB) error {
	if s.Password == "" {
		return errors.New("empty demo password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, a := range demoAccounts {
			if _, err := tx.Exec(ctx,
				`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				a.ID, a.Email, string(hash),
			); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO profiles (id, email, full_name, user_type, headline, specialization)
				 VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`,
				a.ID, a.Email, a.FullName, a.UserType, a.Headline, a.Specialization,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
