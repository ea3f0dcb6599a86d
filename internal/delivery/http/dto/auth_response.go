package dto

import (
	"time"

	"carenet/internal/domain/user"

	"github.com/google/uuid"
)

const ReactivatedNotice = "Welcome back! Your account has been reactivated."

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	Reactivated  bool         `json:"reactivated"`
	Notice       string       `json:"notice,omitempty"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
