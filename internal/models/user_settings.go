package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSettings holds per-user safety preferences. Exactly one row exists
// per user, created together with the user.
type UserSettings struct {
	ID                            string    `json:"id"`
	UserID                        string    `json:"user_id"`
	RequireRepoDeleteConfirmation bool      `json:"require_repo_delete_confirmation"`
	DisableBulkOperations         bool      `json:"disable_bulk_operations"`
	CreatedAt                     time.Time `json:"created_at"`
	UpdatedAt                     time.Time `json:"updated_at"`
}

// NewUserSettings creates default settings for a user
func NewUserSettings(userID string) *UserSettings {
	now := time.Now()
	return &UserSettings{
		ID:                            uuid.New().String(),
		UserID:                        userID,
		RequireRepoDeleteConfirmation: true,
		DisableBulkOperations:         false,
		CreatedAt:                     now,
		UpdatedAt:                     now,
	}
}

// UserSettingsUpdate is a partial settings update. Nil fields are left
// unchanged; updated_at is stamped even when every field is nil.
type UserSettingsUpdate struct {
	RequireRepoDeleteConfirmation *bool `json:"require_repo_delete_confirmation,omitempty"`
	DisableBulkOperations         *bool `json:"disable_bulk_operations,omitempty"`
}
