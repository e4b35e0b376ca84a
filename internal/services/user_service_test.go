package services

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repodeck/repodeck/internal/models"
	"github.com/repodeck/repodeck/internal/repositories"
)

const testSchema = `
CREATE TABLE users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT,
    github_id TEXT UNIQUE,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE user_settings (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    require_repo_delete_confirmation BOOLEAN NOT NULL DEFAULT 1,
    disable_bulk_operations BOOLEAN NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
`

func newTestUserService(t *testing.T) (*UserService, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=ON")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	userRepo := repositories.NewUserRepository(db)
	settingsRepo := repositories.NewUserSettingsRepository(db)
	return NewUserService(db, userRepo, settingsRepo), db
}

func TestFindOrCreateUser(t *testing.T) {
	t.Run("Creates user and default settings atomically", func(t *testing.T) {
		service, db := newTestUserService(t)

		name := "Octo Cat"
		user, err := service.FindOrCreateUser("12345", "octo@example.com", &name)
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "octo@example.com", user.Email)

		settings, err := service.GetSettings(user.ID)
		require.NoError(t, err)
		require.NotNil(t, settings)
		assert.True(t, settings.RequireRepoDeleteConfirmation)
		assert.False(t, settings.DisableBulkOperations)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM user_settings").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("Second call with same external id returns the same user", func(t *testing.T) {
		service, db := newTestUserService(t)

		first, err := service.FindOrCreateUser("12345", "octo@example.com", nil)
		require.NoError(t, err)
		second, err := service.FindOrCreateUser("12345", "octo@example.com", nil)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)

		var users, settings int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&users))
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM user_settings").Scan(&settings))
		assert.Equal(t, 1, users)
		assert.Equal(t, 1, settings)
	})

	t.Run("Empty external id is rejected", func(t *testing.T) {
		service, _ := newTestUserService(t)

		_, err := service.FindOrCreateUser("", "octo@example.com", nil)

		assert.Error(t, err)
	})
}

func TestSettings(t *testing.T) {
	t.Run("Unknown user has nil settings meaning defaults", func(t *testing.T) {
		service, _ := newTestUserService(t)

		settings, err := service.GetSettings("no-such-user")

		require.NoError(t, err)
		assert.Nil(t, settings)
	})

	t.Run("Partial update changes only provided fields", func(t *testing.T) {
		service, _ := newTestUserService(t)
		user, err := service.FindOrCreateUser("1", "a@example.com", nil)
		require.NoError(t, err)

		disable := true
		updated, err := service.UpdateSettings(user.ID, models.UserSettingsUpdate{
			DisableBulkOperations: &disable,
		})
		require.NoError(t, err)

		assert.True(t, updated.RequireRepoDeleteConfirmation, "untouched field keeps its value")
		assert.True(t, updated.DisableBulkOperations)
	})

	t.Run("Empty update stamps updated_at and changes nothing else", func(t *testing.T) {
		service, _ := newTestUserService(t)
		user, err := service.FindOrCreateUser("1", "a@example.com", nil)
		require.NoError(t, err)

		before, err := service.GetSettings(user.ID)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		updated, err := service.UpdateSettings(user.ID, models.UserSettingsUpdate{})
		require.NoError(t, err)

		assert.Equal(t, before.RequireRepoDeleteConfirmation, updated.RequireRepoDeleteConfirmation)
		assert.Equal(t, before.DisableBulkOperations, updated.DisableBulkOperations)
		assert.True(t, updated.UpdatedAt.After(before.UpdatedAt))
	})
}
