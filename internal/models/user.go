package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	GitHubID  *string   `json:"github_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with a generated UUID. Users are created
// lazily on first sign-in and never deleted by this system.
func NewUser(githubID, email string, name *string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		GitHubID:  &githubID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
