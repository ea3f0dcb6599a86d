package repository

import (
	"context"
	"fmt"

	"carenet/internal/database"
	"carenet/internal/domain/profile"
	"carenet/internal/domain/user"

	"github.com/google/uuid"
)

type AccountRepository interface {
	CreateAccount(ctx context.Context, u user.User, p profile.Profile) error
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type PostgresAccountRepository struct {
	db database.DB
}

func NewPostgresAccountRepository(db database.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// CreateAccount inserts the login row and its profile together.
func (r *PostgresAccountRepository) CreateAccount(ctx context.Context, u user.User, p profile.Profile) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
			u.ID, u.Email, u.PasswordHash,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return user.ErrEmailTaken
			}
			return err
		}
		p.ID = u.ID
		p.Email = u.Email
		return insertProfile(ctx, tx, p)
	})
}

// accountErasure lists the statements run by DeleteAccount, children before parents.
var accountErasure = []struct {
	name  string
	query string
}{
	{"likes", `DELETE FROM likes WHERE user_id = $1`},
	{"comments", `DELETE FROM comments WHERE user_id = $1`},
	{"posts", `DELETE FROM posts WHERE user_id = $1`},
	{"applications", `DELETE FROM job_applications
		WHERE applicant_id = $1 OR job_id IN (SELECT id FROM jobs WHERE employer_id = $1)`},
	{"jobs", `DELETE FROM jobs WHERE employer_id = $1`},
	{"care_team", `DELETE FROM care_team WHERE requester_id = $1 OR receiver_id = $1`},
	{"messages", `DELETE FROM messages
		WHERE conversation_id IN (SELECT id FROM conversations WHERE user1_id = $1 OR user2_id = $1)`},
	{"conversations", `DELETE FROM conversations WHERE user1_id = $1 OR user2_id = $1`},
	{"profile_views", `DELETE FROM profile_views WHERE profile_id = $1 OR viewer_id = $1`},
	{"device_tokens", `DELETE FROM device_tokens WHERE user_id = $1`},
	{"profile", `DELETE FROM profiles WHERE id = $1`},
	{"user", `DELETE FROM users WHERE id = $1`},
}

func (r *PostgresAccountRepository) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		for _, step := range accountErasure {
			n, err := tx.Exec(ctx, step.query, userID)
			if err != nil {
				return fmt.Errorf("delete %s: %w", step.name, err)
			}
			if step.name == "user" && n == 0 {
				return user.ErrNotFound
			}
		}
		return nil
	})
}
